package repositories

import (
	"context"
	"time"

	"orbio/internal/models"
	"orbio/pkg/postgrest"

	"github.com/go-playground/validator/v10"
)

type BlogRepository interface {
	GetAll(ctx context.Context) ([]models.BlogPost, error)
	GetByID(ctx context.Context, id string) (*models.BlogPost, error)
	GetFeatured(ctx context.Context) ([]models.BlogPost, error)
	GetByTag(ctx context.Context, tag string) ([]models.BlogPost, error)
	Create(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error)
	Update(ctx context.Context, id string, patch models.BlogPostPatch) (*models.BlogPost, error)
	Delete(ctx context.Context, id string) error
}

// BlogAccessor reads and writes blog_posts, most recently published first.
type BlogAccessor struct {
	*Accessor[models.BlogPost]
}

func NewBlogAccessor(client TableClient, validate *validator.Validate) *BlogAccessor {
	return &BlogAccessor{
		Accessor: newAccessor[models.BlogPost](client, validate, "blog_posts", postgrest.Order{Column: "published_at"}),
	}
}

func (a *BlogAccessor) GetFeatured(ctx context.Context) ([]models.BlogPost, error) {
	return a.list(ctx, "getFeatured", postgrest.Eq("featured", true))
}

func (a *BlogAccessor) GetByTag(ctx context.Context, tag string) ([]models.BlogPost, error) {
	return a.list(ctx, "getByTag", postgrest.Contains("tags", tag))
}

// Create stamps published_at with the current time when the post carries none.
func (a *BlogAccessor) Create(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	if post != nil && post.PublishedAt.IsZero() {
		post.PublishedAt = time.Now().UTC()
	}
	return a.Accessor.Create(ctx, post)
}

func (a *BlogAccessor) Update(ctx context.Context, id string, patch models.BlogPostPatch) (*models.BlogPost, error) {
	return a.patch(ctx, id, patch)
}

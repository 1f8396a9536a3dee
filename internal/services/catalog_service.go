package services

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"orbio/internal/models"
	"orbio/internal/repositories"
)

// CategoryAll and TagAll disable the category and tag filters.
const (
	CategoryAll = "all"
	TagAll      = "all"
)

const (
	SortByCapacity = "capacity"
	SortByPrice    = "price"
	SortByName     = "name"
)

// CatalogService serves the public read views.
type CatalogService struct {
	products      repositories.ProductRepository
	blog          repositories.BlogRepository
	faqs          repositories.FAQRepository
	notices       repositories.NoticeRepository
	events        repositories.EventRepository
	subscriptions repositories.SubscriptionRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(set *repositories.Set) *CatalogService {
	return &CatalogService{
		products:      set.Products,
		blog:          set.Blog,
		faqs:          set.FAQs,
		notices:       set.Notices,
		events:        set.Events,
		subscriptions: set.Subscriptions,
	}
}

// ListProducts returns the catalog filtered by category and sorted by sortBy.
// An unknown sortBy keeps the store order (newest first).
func (s *CatalogService) ListProducts(ctx context.Context, category, sortBy string) ([]models.Product, error) {
	var (
		products []models.Product
		err      error
	)
	if category == "" || category == CategoryAll {
		products, err = s.products.GetAll(ctx)
	} else {
		products, err = s.products.GetByCategory(ctx, models.ProductCategory(category))
	}
	if err != nil {
		return nil, err
	}
	SortProducts(products, sortBy)
	return products, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.products.GetByID(ctx, id)
}

// SortProducts orders products in place. Products without a parseable
// capacity sort after those with one.
func SortProducts(products []models.Product, sortBy string) {
	switch sortBy {
	case SortByCapacity:
		sort.SliceStable(products, func(i, j int) bool {
			ci, okI := ParseCapacity(products[i].Specifications.Capacity)
			cj, okJ := ParseCapacity(products[j].Specifications.Capacity)
			if okI != okJ {
				return okI
			}
			return ci < cj
		})
	case SortByPrice:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case SortByName:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	}
}

// ParseCapacity reads a capacity label such as "350ml" or "1.5L" as millilitres.
func ParseCapacity(label string) (int, bool) {
	label = strings.TrimSpace(strings.ToLower(label))
	end := strings.IndexFunc(label, func(r rune) bool { return !unicode.IsDigit(r) && r != '.' })
	if end == -1 {
		end = len(label)
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.ParseFloat(label[:end], 64)
	if err != nil {
		return 0, false
	}
	if strings.TrimSpace(label[end:]) == "l" {
		n *= 1000
	}
	return int(n), true
}

// ListPosts returns blog posts carrying tag, or all posts for "" and "all".
func (s *CatalogService) ListPosts(ctx context.Context, tag string) ([]models.BlogPost, error) {
	if tag == "" || tag == TagAll {
		return s.blog.GetAll(ctx)
	}
	return s.blog.GetByTag(ctx, tag)
}

func (s *CatalogService) FeaturedPosts(ctx context.Context) ([]models.BlogPost, error) {
	return s.blog.GetFeatured(ctx)
}

func (s *CatalogService) GetPost(ctx context.Context, id string) (*models.BlogPost, error) {
	return s.blog.GetByID(ctx, id)
}

// RelatedPostsLimit caps the related posts shown under an article.
const RelatedPostsLimit = 3

// RelatedPosts returns up to RelatedPostsLimit other posts sharing a tag with post id.
func (s *CatalogService) RelatedPosts(ctx context.Context, id string) ([]models.BlogPost, error) {
	post, err := s.blog.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	posts, err := s.blog.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return Related(*post, posts, RelatedPostsLimit), nil
}

// Related keeps the order of posts.
func Related(post models.BlogPost, posts []models.BlogPost, limit int) []models.BlogPost {
	tags := make(map[string]struct{}, len(post.Tags))
	for _, t := range post.Tags {
		tags[t] = struct{}{}
	}
	out := []models.BlogPost{}
	for _, p := range posts {
		if len(out) == limit {
			break
		}
		if p.ID == post.ID {
			continue
		}
		for _, t := range p.Tags {
			if _, ok := tags[t]; ok {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// AllTags returns the sorted set of tags used by any post.
func (s *CatalogService) AllTags(ctx context.Context) ([]string, error) {
	posts, err := s.blog.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return CollectTags(posts), nil
}

func CollectTags(posts []models.BlogPost) []string {
	seen := make(map[string]struct{})
	tags := []string{}
	for _, p := range posts {
		for _, t := range p.Tags {
			if _, ok := seen[t]; ok || t == "" {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	sort.Strings(tags)
	return tags
}

// SplitFeatured separates featured posts from the rest, keeping order.
func SplitFeatured(posts []models.BlogPost) (featured, regular []models.BlogPost) {
	featured, regular = []models.BlogPost{}, []models.BlogPost{}
	for _, p := range posts {
		if p.Featured {
			featured = append(featured, p)
		} else {
			regular = append(regular, p)
		}
	}
	return featured, regular
}

func (s *CatalogService) ListFAQs(ctx context.Context, category string) ([]models.FAQ, error) {
	if category == "" || category == CategoryAll {
		return s.faqs.GetAll(ctx)
	}
	return s.faqs.GetByCategory(ctx, category)
}

func (s *CatalogService) ViewFAQ(ctx context.Context, id string) (*models.FAQ, error) {
	return s.faqs.IncrementViews(ctx, id)
}

func (s *CatalogService) MarkFAQHelpful(ctx context.Context, id string) (*models.FAQ, error) {
	return s.faqs.MarkHelpful(ctx, id)
}

// ListNotices returns important notices first, each group newest first.
func (s *CatalogService) ListNotices(ctx context.Context) ([]models.Notice, error) {
	notices, err := s.notices.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(notices, func(i, j int) bool {
		return notices[i].IsImportant && !notices[j].IsImportant
	})
	return notices, nil
}

// ViewNotice returns the notice after counting the view.
func (s *CatalogService) ViewNotice(ctx context.Context, id string) (*models.Notice, error) {
	return s.notices.IncrementViews(ctx, id)
}

func (s *CatalogService) ListEvents(ctx context.Context, activeOnly bool) ([]models.Event, error) {
	if activeOnly {
		return s.events.GetActive(ctx)
	}
	return s.events.GetAll(ctx)
}

// ViewEvent returns the event after counting the view.
func (s *CatalogService) ViewEvent(ctx context.Context, id string) (*models.Event, error) {
	return s.events.IncrementViews(ctx, id)
}

// Subscribe adds email to the newsletter, reactivating a previous subscription.
func (s *CatalogService) Subscribe(ctx context.Context, email string) (*models.Subscription, error) {
	email = normalizeEmail(email)
	existing, err := s.subscriptions.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return s.subscriptions.Create(ctx, &models.Subscription{Email: email, IsActive: true})
	case err != nil:
		return nil, err
	case existing.IsActive:
		return existing, nil
	}
	active := true
	return s.subscriptions.Update(ctx, existing.ID, models.SubscriptionPatch{IsActive: &active})
}

// Unsubscribe deactivates the subscription for email.
func (s *CatalogService) Unsubscribe(ctx context.Context, email string) error {
	existing, err := s.subscriptions.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	inactive := false
	_, err = s.subscriptions.Update(ctx, existing.ID, models.SubscriptionPatch{IsActive: &inactive})
	return err
}

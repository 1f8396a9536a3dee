package repositories

import (
	"context"
	"time"

	"orbio/internal/models"
	"orbio/pkg/postgrest"

	"github.com/go-playground/validator/v10"
)

type FAQRepository interface {
	GetAll(ctx context.Context) ([]models.FAQ, error)
	GetByID(ctx context.Context, id string) (*models.FAQ, error)
	GetByCategory(ctx context.Context, category string) ([]models.FAQ, error)
	Create(ctx context.Context, faq *models.FAQ) (*models.FAQ, error)
	Update(ctx context.Context, id string, patch models.FAQPatch) (*models.FAQ, error)
	IncrementViews(ctx context.Context, id string) (*models.FAQ, error)
	MarkHelpful(ctx context.Context, id string) (*models.FAQ, error)
	Delete(ctx context.Context, id string) error
}

type FAQAccessor struct {
	*Accessor[models.FAQ]
}

func NewFAQAccessor(client TableClient, validate *validator.Validate) *FAQAccessor {
	return &FAQAccessor{
		Accessor: newAccessor[models.FAQ](client, validate, "faqs", postgrest.Order{Column: "created_at"}),
	}
}

func (a *FAQAccessor) GetByCategory(ctx context.Context, category string) ([]models.FAQ, error) {
	return a.list(ctx, "getByCategory", postgrest.Eq("category", category))
}

func (a *FAQAccessor) Update(ctx context.Context, id string, patch models.FAQPatch) (*models.FAQ, error) {
	return a.patch(ctx, id, patch)
}

func (a *FAQAccessor) IncrementViews(ctx context.Context, id string) (*models.FAQ, error) {
	return a.increment(ctx, "incrementViews", id, "views", func(f *models.FAQ) int { return f.Views })
}

func (a *FAQAccessor) MarkHelpful(ctx context.Context, id string) (*models.FAQ, error) {
	return a.increment(ctx, "markHelpful", id, "helpful_count", func(f *models.FAQ) int { return f.HelpfulCount })
}

type NoticeRepository interface {
	GetAll(ctx context.Context) ([]models.Notice, error)
	GetByID(ctx context.Context, id string) (*models.Notice, error)
	GetImportant(ctx context.Context) ([]models.Notice, error)
	Create(ctx context.Context, notice *models.Notice) (*models.Notice, error)
	Update(ctx context.Context, id string, patch models.NoticePatch) (*models.Notice, error)
	IncrementViews(ctx context.Context, id string) (*models.Notice, error)
	Delete(ctx context.Context, id string) error
}

type NoticeAccessor struct {
	*Accessor[models.Notice]
}

func NewNoticeAccessor(client TableClient, validate *validator.Validate) *NoticeAccessor {
	return &NoticeAccessor{
		Accessor: newAccessor[models.Notice](client, validate, "notices", postgrest.Order{Column: "published_at"}),
	}
}

func (a *NoticeAccessor) GetImportant(ctx context.Context) ([]models.Notice, error) {
	return a.list(ctx, "getImportant", postgrest.Eq("is_important", true))
}

func (a *NoticeAccessor) Create(ctx context.Context, notice *models.Notice) (*models.Notice, error) {
	if notice != nil && notice.PublishedAt.IsZero() {
		notice.PublishedAt = time.Now().UTC()
	}
	return a.Accessor.Create(ctx, notice)
}

func (a *NoticeAccessor) Update(ctx context.Context, id string, patch models.NoticePatch) (*models.Notice, error) {
	return a.patch(ctx, id, patch)
}

func (a *NoticeAccessor) IncrementViews(ctx context.Context, id string) (*models.Notice, error) {
	return a.increment(ctx, "incrementViews", id, "views", func(n *models.Notice) int { return n.Views })
}

type EventRepository interface {
	GetAll(ctx context.Context) ([]models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	GetActive(ctx context.Context) ([]models.Event, error)
	Create(ctx context.Context, event *models.Event) (*models.Event, error)
	Update(ctx context.Context, id string, patch models.EventPatch) (*models.Event, error)
	IncrementViews(ctx context.Context, id string) (*models.Event, error)
	Delete(ctx context.Context, id string) error
}

// EventAccessor reads and writes events, latest start date first.
type EventAccessor struct {
	*Accessor[models.Event]
}

func NewEventAccessor(client TableClient, validate *validator.Validate) *EventAccessor {
	return &EventAccessor{
		Accessor: newAccessor[models.Event](client, validate, "events", postgrest.Order{Column: "start_date"}),
	}
}

func (a *EventAccessor) GetActive(ctx context.Context) ([]models.Event, error) {
	return a.list(ctx, "getActive", postgrest.Eq("is_active", true))
}

func (a *EventAccessor) Update(ctx context.Context, id string, patch models.EventPatch) (*models.Event, error) {
	return a.patch(ctx, id, patch)
}

func (a *EventAccessor) IncrementViews(ctx context.Context, id string) (*models.Event, error) {
	return a.increment(ctx, "incrementViews", id, "views", func(e *models.Event) int { return e.Views })
}

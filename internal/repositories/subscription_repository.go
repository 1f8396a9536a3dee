package repositories

import (
	"context"

	"orbio/internal/models"
	"orbio/pkg/postgrest"

	"github.com/go-playground/validator/v10"
)

type SubscriptionRepository interface {
	GetAll(ctx context.Context) ([]models.Subscription, error)
	GetByID(ctx context.Context, id string) (*models.Subscription, error)
	GetByEmail(ctx context.Context, email string) (*models.Subscription, error)
	GetActive(ctx context.Context) ([]models.Subscription, error)
	Create(ctx context.Context, sub *models.Subscription) (*models.Subscription, error)
	Update(ctx context.Context, id string, patch models.SubscriptionPatch) (*models.Subscription, error)
	Delete(ctx context.Context, id string) error
}

type SubscriptionAccessor struct {
	*Accessor[models.Subscription]
}

func NewSubscriptionAccessor(client TableClient, validate *validator.Validate) *SubscriptionAccessor {
	return &SubscriptionAccessor{
		Accessor: newAccessor[models.Subscription](client, validate, "subscriptions", postgrest.Order{Column: "created_at"}),
	}
}

func (a *SubscriptionAccessor) GetByEmail(ctx context.Context, email string) (*models.Subscription, error) {
	return a.first(ctx, "getByEmail", postgrest.Eq("email", email))
}

func (a *SubscriptionAccessor) GetActive(ctx context.Context) ([]models.Subscription, error) {
	return a.list(ctx, "getActive", postgrest.Eq("is_active", true))
}

func (a *SubscriptionAccessor) Update(ctx context.Context, id string, patch models.SubscriptionPatch) (*models.Subscription, error) {
	return a.patch(ctx, id, patch)
}

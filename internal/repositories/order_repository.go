package repositories

import (
	"context"
	"fmt"

	"orbio/internal/models"
	"orbio/pkg/postgrest"

	"github.com/go-playground/validator/v10"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetByUserID(ctx context.Context, userID string) ([]models.Order, error)
	GetByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	Update(ctx context.Context, id string, patch models.OrderPatch) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
	Delete(ctx context.Context, id string) error
}

type OrderAccessor struct {
	*Accessor[models.Order]
}

func NewOrderAccessor(client TableClient, validate *validator.Validate) *OrderAccessor {
	return &OrderAccessor{
		Accessor: newAccessor[models.Order](client, validate, "orders", postgrest.Order{Column: "created_at"}),
	}
}

func (a *OrderAccessor) GetByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	return a.list(ctx, "getByUserId", postgrest.Eq("user_id", userID))
}

func (a *OrderAccessor) GetByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	return a.list(ctx, "getByStatus", postgrest.Eq("status", status))
}

func (a *OrderAccessor) Update(ctx context.Context, id string, patch models.OrderPatch) (*models.Order, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, newError(a.table, "update", CodeInvalidInput, fmt.Errorf("invalid order status: %s", *patch.Status))
	}
	return a.patch(ctx, id, patch)
}

// UpdateStatus sets the order status. Any valid status may follow any other.
func (a *OrderAccessor) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, newError(a.table, "updateStatus", CodeInvalidInput, fmt.Errorf("invalid order status: %s", status))
	}
	return a.updateColumns(ctx, "updateStatus", id, map[string]any{"status": status})
}

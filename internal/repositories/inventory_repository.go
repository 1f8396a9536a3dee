package repositories

import (
	"context"
	"fmt"
	"time"

	"orbio/internal/models"
	"orbio/pkg/postgrest"

	"github.com/go-playground/validator/v10"
)

type InventoryRepository interface {
	GetAll(ctx context.Context) ([]models.InventoryItem, error)
	GetByID(ctx context.Context, id string) (*models.InventoryItem, error)
	GetByStatus(ctx context.Context, status models.StockStatus) ([]models.InventoryItem, error)
	GetByProductName(ctx context.Context, name string) ([]models.InventoryItem, error)
	Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	Update(ctx context.Context, id string, patch models.InventoryPatch) (*models.InventoryItem, error)
	UpdateStock(ctx context.Context, id string, currentStock int) (*models.InventoryItem, error)
	Delete(ctx context.Context, id string) error
}

// InventoryAccessor reads and writes the inventory table ordered by product name.
// Status is always derived from the stock level on write.
type InventoryAccessor struct {
	*Accessor[models.InventoryItem]
}

func NewInventoryAccessor(client TableClient, validate *validator.Validate) *InventoryAccessor {
	return &InventoryAccessor{
		Accessor: newAccessor[models.InventoryItem](client, validate, "inventory", postgrest.Order{Column: "product_name", Ascending: true}),
	}
}

func (a *InventoryAccessor) GetByStatus(ctx context.Context, status models.StockStatus) ([]models.InventoryItem, error) {
	return a.list(ctx, "getByStatus", postgrest.Eq("status", status))
}

func (a *InventoryAccessor) GetByProductName(ctx context.Context, name string) ([]models.InventoryItem, error) {
	return a.list(ctx, "getByProductName", postgrest.Eq("product_name", name))
}

func (a *InventoryAccessor) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if item != nil {
		item.Status = models.DeriveStockStatus(item.CurrentStock)
		if item.LastUpdated.IsZero() {
			item.LastUpdated = time.Now().UTC()
		}
	}
	return a.Accessor.Create(ctx, item)
}

func (a *InventoryAccessor) Update(ctx context.Context, id string, patch models.InventoryPatch) (*models.InventoryItem, error) {
	return a.patch(ctx, id, patch)
}

// UpdateStock sets the stock level, recomputes the status and stamps last_updated.
func (a *InventoryAccessor) UpdateStock(ctx context.Context, id string, currentStock int) (*models.InventoryItem, error) {
	if currentStock < 0 {
		return nil, newError(a.table, "updateStock", CodeInvalidInput, fmt.Errorf("stock cannot be negative: %d", currentStock))
	}
	return a.updateColumns(ctx, "updateStock", id, map[string]any{
		"current_stock": currentStock,
		"status":        models.DeriveStockStatus(currentStock),
		"last_updated":  time.Now().UTC(),
	})
}

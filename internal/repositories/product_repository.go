package repositories

import (
	"context"

	"orbio/internal/models"
	"orbio/pkg/postgrest"

	"github.com/go-playground/validator/v10"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByCategory(ctx context.Context, category models.ProductCategory) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

// ProductAccessor reads and writes the products table, newest first.
type ProductAccessor struct {
	*Accessor[models.Product]
}

func NewProductAccessor(client TableClient, validate *validator.Validate) *ProductAccessor {
	return &ProductAccessor{
		Accessor: newAccessor[models.Product](client, validate, "products", postgrest.Order{Column: "created_at"}),
	}
}

func (a *ProductAccessor) GetByCategory(ctx context.Context, category models.ProductCategory) ([]models.Product, error) {
	return a.list(ctx, "getByCategory", postgrest.Eq("category", category))
}

func (a *ProductAccessor) Update(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	return a.patch(ctx, id, patch)
}

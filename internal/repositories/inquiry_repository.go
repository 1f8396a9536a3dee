package repositories

import (
	"context"
	"fmt"

	"orbio/internal/models"
	"orbio/pkg/postgrest"

	"github.com/go-playground/validator/v10"
)

type InquiryRepository interface {
	GetAll(ctx context.Context) ([]models.Inquiry, error)
	GetByID(ctx context.Context, id string) (*models.Inquiry, error)
	GetByStatus(ctx context.Context, status models.InquiryStatus) ([]models.Inquiry, error)
	Create(ctx context.Context, inquiry *models.Inquiry) (*models.Inquiry, error)
	UpdateStatus(ctx context.Context, id string, status models.InquiryStatus) (*models.Inquiry, error)
	Delete(ctx context.Context, id string) error
}

type InquiryAccessor struct {
	*Accessor[models.Inquiry]
}

func NewInquiryAccessor(client TableClient, validate *validator.Validate) *InquiryAccessor {
	return &InquiryAccessor{
		Accessor: newAccessor[models.Inquiry](client, validate, "inquiries", postgrest.Order{Column: "created_at"}),
	}
}

func (a *InquiryAccessor) GetByStatus(ctx context.Context, status models.InquiryStatus) ([]models.Inquiry, error) {
	return a.list(ctx, "getByStatus", postgrest.Eq("status", status))
}

// Create stores a new inquiry. A missing status defaults to pending.
func (a *InquiryAccessor) Create(ctx context.Context, inquiry *models.Inquiry) (*models.Inquiry, error) {
	if inquiry != nil && inquiry.Status == "" {
		inquiry.Status = models.InquiryPending
	}
	return a.Accessor.Create(ctx, inquiry)
}

func (a *InquiryAccessor) UpdateStatus(ctx context.Context, id string, status models.InquiryStatus) (*models.Inquiry, error) {
	if !status.Valid() {
		return nil, newError(a.table, "updateStatus", CodeInvalidInput, fmt.Errorf("invalid inquiry status: %s", status))
	}
	return a.updateColumns(ctx, "updateStatus", id, map[string]any{"status": status})
}

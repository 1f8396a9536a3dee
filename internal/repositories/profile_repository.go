package repositories

import (
	"context"

	"orbio/internal/models"
	"orbio/pkg/postgrest"

	"github.com/go-playground/validator/v10"
)

// ProfileRepository defines access to the profiles joined onto auth identities.
type ProfileRepository interface {
	GetAll(ctx context.Context) ([]models.Profile, error)
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	Update(ctx context.Context, id string, patch models.ProfilePatch) (*models.Profile, error)
	Delete(ctx context.Context, id string) error
}

type ProfileAccessor struct {
	*Accessor[models.Profile]
}

func NewProfileAccessor(client TableClient, validate *validator.Validate) *ProfileAccessor {
	return &ProfileAccessor{
		Accessor: newAccessor[models.Profile](client, validate, "profiles", postgrest.Order{Column: "created_at"}),
	}
}

func (a *ProfileAccessor) Update(ctx context.Context, id string, patch models.ProfilePatch) (*models.Profile, error) {
	return a.patch(ctx, id, patch)
}

// CredentialRepository stores locally managed password identities.
type CredentialRepository interface {
	GetByID(ctx context.Context, id string) (*models.Credential, error)
	GetByEmail(ctx context.Context, email string) (*models.Credential, error)
	Create(ctx context.Context, cred *models.Credential) (*models.Credential, error)
}

type CredentialAccessor struct {
	*Accessor[models.Credential]
}

func NewCredentialAccessor(client TableClient, validate *validator.Validate) *CredentialAccessor {
	return &CredentialAccessor{
		Accessor: newAccessor[models.Credential](client, validate, "auth_users", postgrest.Order{Column: "created_at"}),
	}
}

func (a *CredentialAccessor) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	return a.first(ctx, "getByEmail", postgrest.Eq("email", email))
}

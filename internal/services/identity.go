package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"orbio/internal/models"
	"orbio/internal/repositories"
	"orbio/pkg/postgrest"

	"golang.org/x/crypto/bcrypt"
)

// IdentityProvider authenticates email/password identities.
type IdentityProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*postgrest.Session, error)
	SignUp(ctx context.Context, email, password string) (*postgrest.AuthUser, error)
	GetUser(ctx context.Context, accessToken string) (*postgrest.AuthUser, error)
	RefreshSession(ctx context.Context, refreshToken string) (*postgrest.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

var _ IdentityProvider = (*postgrest.Client)(nil)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailRegistered    = errors.New("email already registered")
)

// LocalIdentityProvider keeps bcrypt password hashes in the auth_users table.
// Its access token is the credential id and never leaves the server.
type LocalIdentityProvider struct {
	credentials repositories.CredentialRepository
}

func NewLocalIdentityProvider(credentials repositories.CredentialRepository) *LocalIdentityProvider {
	return &LocalIdentityProvider{credentials: credentials}
}

func (p *LocalIdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (*postgrest.Session, error) {
	cred, err := p.credentials.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &postgrest.Session{
		AccessToken:  cred.ID,
		TokenType:    "local",
		RefreshToken: cred.ID,
		User:         authUserOf(cred),
	}, nil
}

func (p *LocalIdentityProvider) SignUp(ctx context.Context, email, password string) (*postgrest.AuthUser, error) {
	email = normalizeEmail(email)
	if _, err := p.credentials.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailRegistered
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	cred, err := p.credentials.Create(ctx, &models.Credential{Email: email, PasswordHash: string(hash)})
	if err != nil {
		return nil, err
	}
	u := authUserOf(cred)
	return &u, nil
}

func (p *LocalIdentityProvider) GetUser(ctx context.Context, accessToken string) (*postgrest.AuthUser, error) {
	cred, err := p.credentials.GetByID(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	u := authUserOf(cred)
	return &u, nil
}

// RefreshSession re-issues a session for the credential id. Local access
// tokens do not expire, so this only runs if a caller asks for it.
func (p *LocalIdentityProvider) RefreshSession(ctx context.Context, refreshToken string) (*postgrest.Session, error) {
	cred, err := p.credentials.GetByID(ctx, refreshToken)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return &postgrest.Session{
		AccessToken:  cred.ID,
		TokenType:    "local",
		RefreshToken: cred.ID,
		User:         authUserOf(cred),
	}, nil
}

func (p *LocalIdentityProvider) SignOut(context.Context, string) error { return nil }

func authUserOf(cred *models.Credential) postgrest.AuthUser {
	u := postgrest.AuthUser{ID: cred.ID, Email: cred.Email}
	if cred.CreatedAt != nil {
		u.CreatedAt = *cred.CreatedAt
	} else {
		u.CreatedAt = time.Now().UTC()
	}
	return u
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

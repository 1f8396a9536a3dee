// Package sessions keeps the server side of API tokens: a token's id maps to
// the identity provider session it was minted from.
package sessions

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned for an unknown or expired session id.
var ErrNotFound = errors.New("session not found")

// Session is what a signed-in token resolves to. ProviderExpiresAt is zero
// when the provider token does not expire.
type Session struct {
	UserID            string    `json:"user_id"`
	Email             string    `json:"email"`
	ProviderToken     string    `json:"provider_token,omitempty"`
	RefreshToken      string    `json:"refresh_token,omitempty"`
	ProviderExpiresAt time.Time `json:"provider_expires_at,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Store persists sessions keyed by token id.
type Store interface {
	Save(ctx context.Context, id string, s Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

package postgrest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
)

// AuthUser is an identity known to the auth service.
type AuthUser struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	CreatedAt    time.Time  `json:"created_at"`
	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty"`
}

// Session is the result of a successful password sign-in.
type Session struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	RefreshToken string   `json:"refresh_token"`
	User         AuthUser `json:"user"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInWithPassword exchanges an email and password for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body, err := c.do(ctx, request{
		method: fiber.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   credentials{Email: email, Password: password},
	})
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("postgrest: decode session: %w", err)
	}
	return &s, nil
}

type refreshGrant struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshSession exchanges a refresh token for a new session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	body, err := c.do(ctx, request{
		method: fiber.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"refresh_token"}},
		body:   refreshGrant{RefreshToken: refreshToken},
	})
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("postgrest: decode session: %w", err)
	}
	return &s, nil
}

// SignUp registers a new identity. Depending on project settings the service
// answers with the bare user or with a session wrapping it.
func (c *Client) SignUp(ctx context.Context, email, password string) (*AuthUser, error) {
	body, err := c.do(ctx, request{
		method: fiber.MethodPost,
		path:   "/auth/v1/signup",
		body:   credentials{Email: email, Password: password},
	})
	if err != nil {
		return nil, err
	}
	var resp struct {
		AuthUser
		User *AuthUser `json:"user"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("postgrest: decode sign-up: %w", err)
	}
	if resp.User != nil {
		return resp.User, nil
	}
	return &resp.AuthUser, nil
}

// GetUser resolves the identity behind an access token.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*AuthUser, error) {
	body, err := c.do(ctx, request{method: fiber.MethodGet, path: "/auth/v1/user", bearer: accessToken})
	if err != nil {
		return nil, err
	}
	var u AuthUser
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("postgrest: decode user: %w", err)
	}
	return &u, nil
}

// SignOut revokes the session behind an access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	_, err := c.do(ctx, request{method: fiber.MethodPost, path: "/auth/v1/logout", bearer: accessToken})
	return err
}

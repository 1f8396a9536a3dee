package store

import (
	"context"
	"sync"

	"orbio/internal/models"
	"orbio/internal/services"
)

// AuthState is the signed-in state of one request. It starts empty and is
// filled by Login or by Restore from a bearer token.
type AuthState struct {
	auth *services.AuthService

	mu        sync.RWMutex
	user      *models.User
	token     string
	isLoading bool
	lastErr   error
}

func NewAuthState(auth *services.AuthService) *AuthState {
	return &AuthState{auth: auth}
}

// Login signs in and reports whether it succeeded. Err returns the failure.
func (s *AuthState) Login(ctx context.Context, email, password string) bool {
	s.setLoading(true)
	session, err := s.auth.SignIn(ctx, email, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false
	s.lastErr = err
	if err != nil {
		return false
	}
	s.user = session.User
	s.token = session.Token
	return true
}

// Restore rebuilds the state from an API token.
func (s *AuthState) Restore(ctx context.Context, token string) error {
	s.setLoading(true)
	user, err := s.auth.GetCurrentUser(ctx, token)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = false
	s.lastErr = err
	if err != nil {
		return err
	}
	s.user = user
	s.token = token
	return nil
}

// Logout ends the session and clears the state even when sign-out fails.
func (s *AuthState) Logout(ctx context.Context) error {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	var err error
	if token != "" {
		err = s.auth.SignOut(ctx, token)
	}

	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.lastErr = err
	s.mu.Unlock()
	return err
}

func (s *AuthState) setLoading(v bool) {
	s.mu.Lock()
	s.isLoading = v
	s.mu.Unlock()
}

func (s *AuthState) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *AuthState) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *AuthState) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *AuthState) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.IsAdmin()
}

func (s *AuthState) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

// Err returns the error of the last Login, Restore or Logout.
func (s *AuthState) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"orbio/internal/models"
	"orbio/internal/repositories"
	"orbio/internal/sessions"
	"orbio/internal/util"
	"orbio/pkg/postgrest"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultUserName is shown when neither the profile nor the email yields a name.
const DefaultUserName = "사용자"

const (
	ReasonInvalidCredentials = "invalid_credentials"
	ReasonInvalidToken       = "invalid_token"
	ReasonSessionExpired     = "session_expired"
	ReasonNotConfigured      = "not_configured"
	ReasonProvider           = "provider_error"
	ReasonSignUp             = "sign_up_failed"
	ReasonProfile            = "profile_failed"
)

// AuthError is returned by every AuthService operation.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return "auth: " + e.Reason
	}
	return fmt.Sprintf("auth: %s: %v", e.Reason, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Session is a signed-in user and the API token that represents them.
type Session struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Subscription is returned by OnAuthStateChange.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe stops further callbacks. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// AuthService handles sign-in, API tokens and the profile join.
type AuthService struct {
	provider  IdentityProvider
	profiles  repositories.ProfileRepository
	sessions  sessions.Store
	jwtSecret []byte
	tokenTTL  time.Duration
	log       *zap.Logger
	now       func() time.Time

	mu        sync.Mutex
	listeners map[int]func(*models.User)
	nextID    int
}

// NewAuthService creates a new AuthService.
func NewAuthService(provider IdentityProvider, profiles repositories.ProfileRepository, store sessions.Store, jwtSecret string, tokenTTL time.Duration, log *zap.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if store == nil {
		store = sessions.NewMemoryStore()
	}
	return &AuthService{
		provider:  provider,
		profiles:  profiles,
		sessions:  store,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		log:       util.OrNop(log),
		now:       time.Now,
		listeners: make(map[int]func(*models.User)),
	}
}

// SignIn authenticates with the identity provider and issues an API token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, &AuthError{Reason: ReasonInvalidCredentials, Err: errors.New("email and password are required")}
	}

	ps, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, &AuthError{Reason: providerReason(err), Err: err}
	}

	now := s.now().UTC()
	user := s.displayUser(ctx, ps.User)
	user.LastLogin = &now

	jti := uuid.New().String()
	expiresAt := now.Add(s.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"jti":     jti,
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     expiresAt.Unix(),
		"iat":     now.Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, &AuthError{Reason: ReasonProvider, Err: fmt.Errorf("failed to generate token: %w", err)}
	}

	record := sessions.Session{
		UserID:            user.ID,
		Email:             user.Email,
		ProviderToken:     ps.AccessToken,
		RefreshToken:      ps.RefreshToken,
		ProviderExpiresAt: providerExpiry(now, ps),
		CreatedAt:         now,
	}
	if err := s.sessions.Save(ctx, jti, record, s.tokenTTL); err != nil {
		return nil, &AuthError{Reason: ReasonProvider, Err: fmt.Errorf("failed to store session: %w", err)}
	}

	s.log.Info("user signed in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	s.notify(user)
	return &Session{User: user, Token: tokenString, ExpiresAt: expiresAt}, nil
}

// SignOut ends the session behind token. Signing out an already ended session succeeds.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	claims, err := s.ValidateToken(token)
	if err != nil {
		return err
	}
	jti, _ := claims["jti"].(string)

	record, err := s.sessions.Get(ctx, jti)
	switch {
	case errors.Is(err, sessions.ErrNotFound):
	case err != nil:
		return &AuthError{Reason: ReasonProvider, Err: err}
	default:
		if err := s.provider.SignOut(ctx, record.ProviderToken); err != nil {
			s.log.Warn("identity provider sign-out failed", zap.String("user_id", record.UserID), zap.Error(err))
		}
		if err := s.sessions.Delete(ctx, jti); err != nil {
			return &AuthError{Reason: ReasonProvider, Err: err}
		}
	}

	s.notify(nil)
	return nil
}

// GetCurrentUser resolves token to the display user.
func (s *AuthService) GetCurrentUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil, &AuthError{Reason: ReasonInvalidToken, Err: errors.New("token has no session id")}
	}

	record, err := s.sessions.Get(ctx, jti)
	if errors.Is(err, sessions.ErrNotFound) {
		return nil, &AuthError{Reason: ReasonSessionExpired, Err: err}
	}
	if err != nil {
		return nil, &AuthError{Reason: ReasonProvider, Err: err}
	}

	au, err := s.providerUser(ctx, jti, claims, record)
	if err != nil {
		return nil, &AuthError{Reason: ReasonSessionExpired, Err: err}
	}

	user := s.displayUser(ctx, *au)
	if au.LastSignInAt != nil {
		user.LastLogin = au.LastSignInAt
	} else {
		last := record.CreatedAt
		user.LastLogin = &last
	}
	return user, nil
}

// providerUser resolves the provider identity for record. An expired or
// rejected provider token is exchanged once through the refresh token and the
// renewed tokens are saved for the rest of the API token's lifetime.
func (s *AuthService) providerUser(ctx context.Context, jti string, claims jwt.MapClaims, record *sessions.Session) (*postgrest.AuthUser, error) {
	now := s.now().UTC()
	expired := !record.ProviderExpiresAt.IsZero() && !now.Before(record.ProviderExpiresAt)
	if !expired {
		au, err := s.provider.GetUser(ctx, record.ProviderToken)
		if err == nil || !isUnauthorized(err) || record.RefreshToken == "" {
			return au, err
		}
	}
	if record.RefreshToken == "" {
		return nil, errors.New("provider session expired")
	}

	ps, err := s.provider.RefreshSession(ctx, record.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("refresh provider session: %w", err)
	}
	record.ProviderToken = ps.AccessToken
	if ps.RefreshToken != "" {
		record.RefreshToken = ps.RefreshToken
	}
	record.ProviderExpiresAt = providerExpiry(now, ps)

	if exp, ok := claims["exp"].(float64); ok {
		if ttl := time.Unix(int64(exp), 0).Sub(now); ttl > 0 {
			if err := s.sessions.Save(ctx, jti, *record, ttl); err != nil {
				s.log.Warn("failed to store refreshed session", zap.String("user_id", record.UserID), zap.Error(err))
			}
		}
	}
	s.log.Debug("provider session refreshed", zap.String("user_id", record.UserID))
	return s.provider.GetUser(ctx, record.ProviderToken)
}

func providerExpiry(now time.Time, ps *postgrest.Session) time.Time {
	if ps.ExpiresIn <= 0 {
		return time.Time{}
	}
	return now.Add(time.Duration(ps.ExpiresIn) * time.Second)
}

func isUnauthorized(err error) bool {
	var perr *postgrest.Error
	return errors.As(err, &perr) && (perr.Status == 401 || perr.Status == 403)
}

// OnAuthStateChange registers cb to run after every sign-in (with the user)
// and sign-out (with nil). Listeners belong to this AuthService only.
func (s *AuthService) OnAuthStateChange(cb func(*models.User)) *Subscription {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = cb
	s.mu.Unlock()

	return &Subscription{cancel: func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}}
}

func (s *AuthService) notify(user *models.User) {
	s.mu.Lock()
	cbs := make([]func(*models.User), 0, len(s.listeners))
	for _, cb := range s.listeners {
		cbs = append(cbs, cb)
	}
	s.mu.Unlock()

	for _, cb := range cbs {
		cb(user)
	}
}

// CreateAdmin registers an identity and its admin profile.
func (s *AuthService) CreateAdmin(ctx context.Context, email, password, name string) error {
	email = normalizeEmail(email)
	au, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return &AuthError{Reason: ReasonSignUp, Err: err}
	}

	profile := &models.Profile{
		Record: models.Record{ID: au.ID},
		Name:   name,
		Email:  email,
		Role:   models.RoleAdmin,
	}
	if _, err := s.profiles.Create(ctx, profile); err != nil {
		return &AuthError{Reason: ReasonProfile, Err: err}
	}

	s.log.Info("admin account created", zap.String("user_id", au.ID), zap.String("email", email))
	return nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, &AuthError{Reason: ReasonInvalidToken, Err: err}
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, &AuthError{Reason: ReasonInvalidToken}
}

// displayUser joins the profile row onto the identity. A missing profile is
// logged and the user is still built from defaults.
func (s *AuthService) displayUser(ctx context.Context, au postgrest.AuthUser) *models.User {
	user := &models.User{
		ID:        au.ID,
		Email:     au.Email,
		Role:      models.RoleUser,
		CreatedAt: au.CreatedAt,
	}

	profile, err := s.profiles.GetByID(ctx, au.ID)
	if err != nil {
		s.log.Warn("profile lookup failed", zap.String("user_id", au.ID), zap.Error(err))
	} else {
		user.Name = profile.Name
		if profile.Role != "" {
			user.Role = profile.Role
		}
	}

	if user.Name == "" {
		user.Name = localPart(au.Email)
	}
	if user.Name == "" {
		user.Name = DefaultUserName
	}
	return user
}

func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}

func providerReason(err error) string {
	var perr *postgrest.Error
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return ReasonInvalidCredentials
	case errors.Is(err, postgrest.ErrNotConfigured):
		return ReasonNotConfigured
	case errors.As(err, &perr) && perr.Status >= 400 && perr.Status < 500:
		return ReasonInvalidCredentials
	}
	return ReasonProvider
}

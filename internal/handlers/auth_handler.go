package handlers

import (
	"orbio/internal/middleware"
	"orbio/internal/services"
	"orbio/internal/store"
	"orbio/internal/util"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	log         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, validate *validator.Validate, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validate,
		log:         util.OrNop(log),
	}
}

// RegisterRoutes registers the authentication routes. requireAuth guards the
// routes that need a signed-in user.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/logout", requireAuth, h.HandleLogout)
	authRoutes.Get("/me", requireAuth, h.HandleMe)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin signs the user in and issues an API token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	state := store.NewAuthState(h.authService)
	if !state.Login(c.UserContext(), req.Email, req.Password) {
		return respondError(c, h.log, "Authentication failed", state.Err())
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   state.Token(),
		"user":    state.User(),
	})
}

// HandleLogout ends the caller's session.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	state := middleware.AuthState(c, h.authService)
	if err := state.Logout(c.UserContext()); err != nil {
		return respondError(c, h.log, "Logout failed", err)
	}
	return c.JSON(fiber.Map{"message": "Logout successful"})
}

// HandleMe returns the signed-in user.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	state := middleware.AuthState(c, h.authService)
	return c.JSON(fiber.Map{
		"user":             state.User(),
		"is_authenticated": state.IsAuthenticated(),
		"is_admin":         state.IsAdmin(),
	})
}

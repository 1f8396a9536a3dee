package middleware

import (
	"strings"

	"orbio/internal/services"
	"orbio/internal/store"
	"orbio/internal/util"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const authStateKey = "auth_state"

// AuthState returns the state AuthRequired stored for this request, or an empty one.
func AuthState(c *fiber.Ctx, authService *services.AuthService) *store.AuthState {
	if s, ok := c.Locals(authStateKey).(*store.AuthState); ok {
		return s
	}
	return store.NewAuthState(authService)
}

// AuthRequired is a Fiber middleware that restores the signed-in user from a bearer token.
func AuthRequired(authService *services.AuthService, log *zap.Logger) fiber.Handler {
	log = util.OrNop(log)
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		state := store.NewAuthState(authService)
		if err := state.Restore(c.UserContext(), parts[1]); err != nil {
			log.Debug("token rejected", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		user := state.User()
		c.Locals(authStateKey, state)
		c.Locals("user_id", user.ID)
		c.Locals("email", user.Email)

		return c.Next()
	}
}

// RequireAdmin rejects signed-in users without the admin role. It must run after AuthRequired.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		state, ok := c.Locals(authStateKey).(*store.AuthState)
		if !ok || !state.IsAuthenticated() {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication required",
			})
		}
		if !state.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin access required",
			})
		}
		return c.Next()
	}
}

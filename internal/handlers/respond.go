package handlers

import (
	"errors"
	"fmt"

	"orbio/internal/repositories"
	"orbio/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// statusOf maps service and data access errors to an HTTP status.
func statusOf(err error) int {
	var authErr *services.AuthError
	if errors.As(err, &authErr) {
		switch authErr.Reason {
		case services.ReasonInvalidCredentials, services.ReasonInvalidToken, services.ReasonSessionExpired:
			return fiber.StatusUnauthorized
		case services.ReasonNotConfigured:
			return fiber.StatusServiceUnavailable
		case services.ReasonSignUp:
			if errors.Is(err, services.ErrEmailRegistered) {
				return fiber.StatusConflict
			}
			return fiber.StatusBadRequest
		}
	}

	var dae *repositories.DataAccessError
	if !errors.As(err, &dae) {
		return fiber.StatusInternalServerError
	}
	switch dae.Code {
	case repositories.CodeNotFound:
		return fiber.StatusNotFound
	case repositories.CodeInvalidInput:
		return fiber.StatusBadRequest
	case repositories.CodeConflict:
		return fiber.StatusConflict
	case repositories.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case repositories.CodeNotConfigured, repositories.CodeNetwork:
		return fiber.StatusServiceUnavailable
	case repositories.CodeCanceled:
		return fiber.StatusRequestTimeout
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, log *zap.Logger, message string, err error) error {
	status := statusOf(err)
	if status >= fiber.StatusInternalServerError {
		log.Error(message, zap.String("path", c.Path()), zap.Error(err))
	} else {
		log.Debug(message, zap.String("path", c.Path()), zap.Int("status", status), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func badRequest(c *fiber.Ctx, message string, err error) error {
	body := fiber.Map{"message": message}
	if err != nil {
		body["error"] = err.Error()
	}
	return c.Status(fiber.StatusBadRequest).JSON(body)
}

// parseAndValidate binds the body into req and validates it, writing the
// 400 response itself when either step fails.
func parseAndValidate(c *fiber.Ctx, validate *validator.Validate, req any) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, badRequest(c, "Invalid request body", err)
	}
	if err := validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return false, badRequest(c, "Validation failed", err)
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return true, nil
}

package handlers

import (
	"orbio/internal/middleware"
	"orbio/internal/services"
	"orbio/internal/util"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles customer order placement.
type OrderHandler struct {
	service     *services.OrderService
	authService *services.AuthService
	validate    *validator.Validate
	log         *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, authService *services.AuthService, validate *validator.Validate, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service:     service,
		authService: authService,
		validate:    validate,
		log:         util.OrNop(log),
	}
}

// RegisterRoutes registers the order routes behind requireAuth.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	router.Post("/orders", requireAuth, h.HandleCreateOrder)
}

// HandleCreateOrder places an order for the signed-in user.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req services.OrderRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	user := middleware.AuthState(c, h.authService).User()
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}
	req.UserID = user.ID
	if req.UserName == "" {
		req.UserName = user.Name
	}

	order, err := h.service.CreateOrder(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, "Could not create order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

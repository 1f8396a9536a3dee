package handlers

import (
	"orbio/internal/models"
	"orbio/internal/services"
	"orbio/internal/util"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ContactHandler handles the contact form and newsletter sign-up.
type ContactHandler struct {
	inquiries *services.InquiryService
	catalog   *services.CatalogService
	validate  *validator.Validate
	log       *zap.Logger
}

func NewContactHandler(inquiries *services.InquiryService, catalog *services.CatalogService, validate *validator.Validate, log *zap.Logger) *ContactHandler {
	return &ContactHandler{
		inquiries: inquiries,
		catalog:   catalog,
		validate:  validate,
		log:       util.OrNop(log),
	}
}

func (h *ContactHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/contact", h.HandleContact)
	router.Post("/subscriptions", h.HandleSubscribe)
	router.Delete("/subscriptions/:email", h.HandleUnsubscribe)
}

// ContactRequest is the contact form body.
type ContactRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"omitempty,max=32"`
	Company       string `json:"company" validate:"omitempty,max=100"`
	InquiryType   string `json:"inquiry_type" validate:"omitempty,oneof=general product partnership press support"`
	Subject       string `json:"subject" validate:"required,max=200"`
	Message       string `json:"message" validate:"required"`
	PrivacyAgreed bool   `json:"privacy_agreed"`
}

// HandleContact stores a contact form submission. The privacy consent check
// runs before anything else.
func (h *ContactHandler) HandleContact(c *fiber.Ctx) error {
	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if !req.PrivacyAgreed {
		return badRequest(c, "개인정보 수집 및 이용에 동의해주세요.", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "Validation failed", err)
	}

	created, err := h.inquiries.Submit(c.UserContext(), &models.Inquiry{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Company:       req.Company,
		InquiryType:   req.InquiryType,
		Subject:       req.Subject,
		Message:       req.Message,
		PrivacyAgreed: req.PrivacyAgreed,
	})
	if err != nil {
		return respondError(c, h.log, "Could not submit inquiry", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "문의가 성공적으로 접수되었습니다.",
		"inquiry": created,
	})
}

type subscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *ContactHandler) HandleSubscribe(c *fiber.Ctx) error {
	var req subscribeRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	sub, err := h.catalog.Subscribe(c.UserContext(), req.Email)
	if err != nil {
		return respondError(c, h.log, "Could not subscribe", err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

func (h *ContactHandler) HandleUnsubscribe(c *fiber.Ctx) error {
	if err := h.catalog.Unsubscribe(c.UserContext(), c.Params("email")); err != nil {
		return respondError(c, h.log, "Could not unsubscribe", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

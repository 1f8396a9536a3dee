package handlers

import (
	"context"
	"errors"
	"io"

	"orbio/internal/models"
	"orbio/internal/store"
	"orbio/internal/util"
	"orbio/pkg/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ImageUploader stores an uploaded image and returns its URL. Delete takes a
// URL previously returned by Upload.
type ImageUploader interface {
	Upload(ctx context.Context, folder, filename string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, imageURL string) error
}

// AdminHandler serves the back office. Every request gets a fresh AdminStore.
type AdminHandler struct {
	newStore func() *store.AdminStore
	uploader ImageUploader
	validate *validator.Validate
	log      *zap.Logger
}

// NewAdminHandler creates an AdminHandler. uploader may be nil, in which case uploads answer 503.
func NewAdminHandler(newStore func() *store.AdminStore, uploader ImageUploader, validate *validator.Validate, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		newStore: newStore,
		uploader: uploader,
		validate: validate,
		log:      util.OrNop(log),
	}
}

// resource binds one editable collection to its AdminStore operations.
type resource[T, P any] struct {
	path   string
	label  string
	col    store.Collection
	fetch  func(*store.AdminStore, context.Context) error
	items  func(*store.AdminStore) []T
	create func(*store.AdminStore, context.Context, *T) (*T, error)
	update func(*store.AdminStore, context.Context, string, P) (*T, error)
	remove func(*store.AdminStore, context.Context, string) error
}

func registerResource[T, P any](router fiber.Router, h *AdminHandler, res resource[T, P]) {
	group := router.Group(res.path)

	group.Get("/", func(c *fiber.Ctx) error {
		s := h.newStore()
		if err := res.fetch(s, c.UserContext()); err != nil {
			return respondError(c, h.log, "Could not retrieve "+res.label, err)
		}
		return c.JSON(res.items(s))
	})

	group.Post("/", func(c *fiber.Ctx) error {
		rec := new(T)
		if err := c.BodyParser(rec); err != nil {
			return badRequest(c, "Invalid request body", err)
		}
		s := h.newStore()
		created, err := res.create(s, c.UserContext(), rec)
		if err != nil {
			return respondError(c, h.log, "Could not create "+res.label, err)
		}
		return c.Status(fiber.StatusCreated).JSON(withItems(fiber.Map{"item": created}, s, res.col, res.items(s)))
	})

	group.Put("/:id", func(c *fiber.Ctx) error {
		var patch P
		if err := c.BodyParser(&patch); err != nil {
			return badRequest(c, "Invalid request body", err)
		}
		s := h.newStore()
		updated, err := res.update(s, c.UserContext(), c.Params("id"), patch)
		if err != nil {
			return respondError(c, h.log, "Could not update "+res.label, err)
		}
		return c.JSON(withItems(fiber.Map{"item": updated}, s, res.col, res.items(s)))
	})

	group.Delete("/:id", func(c *fiber.Ctx) error {
		s := h.newStore()
		if err := res.remove(s, c.UserContext(), c.Params("id")); err != nil {
			return respondError(c, h.log, "Could not delete "+res.label, err)
		}
		return c.JSON(withItems(fiber.Map{}, s, res.col, res.items(s)))
	})
}

// withItems adds the re-fetched collection to a mutation response. When the
// re-fetch failed the list is replaced by "items_error" so an empty list is
// never mistaken for an empty table.
func withItems(body fiber.Map, s *store.AdminStore, col store.Collection, items any) fiber.Map {
	if err := s.Err(col); err != nil {
		body["items_error"] = err.Error()
		return body
	}
	body["items"] = items
	return body
}

// RegisterRoutes registers the admin routes; the router must already require an admin.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/dashboard", h.HandleDashboard)

	registerResource(router, h, resource[models.Product, models.ProductPatch]{
		path: "/products", col: store.Products, label: "products",
		fetch: (*store.AdminStore).FetchProducts, items: (*store.AdminStore).Products,
		create: (*store.AdminStore).CreateProduct, update: (*store.AdminStore).UpdateProduct, remove: (*store.AdminStore).DeleteProduct,
	})
	registerResource(router, h, resource[models.BlogPost, models.BlogPostPatch]{
		path: "/blog", col: store.BlogPosts, label: "blog posts",
		fetch: (*store.AdminStore).FetchBlogPosts, items: (*store.AdminStore).BlogPosts,
		create: (*store.AdminStore).CreateBlogPost, update: (*store.AdminStore).UpdateBlogPost, remove: (*store.AdminStore).DeleteBlogPost,
	})
	registerResource(router, h, resource[models.FAQ, models.FAQPatch]{
		path: "/faqs", col: store.FAQs, label: "FAQs",
		fetch: (*store.AdminStore).FetchFAQs, items: (*store.AdminStore).FAQs,
		create: (*store.AdminStore).CreateFAQ, update: (*store.AdminStore).UpdateFAQ, remove: (*store.AdminStore).DeleteFAQ,
	})
	registerResource(router, h, resource[models.Notice, models.NoticePatch]{
		path: "/notices", col: store.Notices, label: "notices",
		fetch: (*store.AdminStore).FetchNotices, items: (*store.AdminStore).Notices,
		create: (*store.AdminStore).CreateNotice, update: (*store.AdminStore).UpdateNotice, remove: (*store.AdminStore).DeleteNotice,
	})
	registerResource(router, h, resource[models.Event, models.EventPatch]{
		path: "/events", col: store.Events, label: "events",
		fetch: (*store.AdminStore).FetchEvents, items: (*store.AdminStore).Events,
		create: (*store.AdminStore).CreateEvent, update: (*store.AdminStore).UpdateEvent, remove: (*store.AdminStore).DeleteEvent,
	})

	router.Get("/orders", h.HandleListOrders)
	router.Patch("/orders/:id/status", h.HandleUpdateOrderStatus)

	router.Get("/inventory", h.HandleListInventory)
	router.Post("/inventory", h.HandleCreateInventory)
	router.Patch("/inventory/:id/stock", h.HandleUpdateStock)
	router.Delete("/inventory/:id", h.HandleDeleteInventory)

	router.Get("/inquiries", h.HandleListInquiries)
	router.Patch("/inquiries/:id/status", h.HandleUpdateInquiryStatus)

	router.Get("/users", h.HandleListUsers)
	router.Post("/users/admin", h.HandleCreateAdmin)

	router.Get("/subscriptions", h.HandleListSubscriptions)

	router.Post("/uploads", h.HandleUpload)
	router.Delete("/uploads", h.HandleDeleteUpload)
}

// HandleDashboard loads every collection and returns the summary. Collections
// that failed to load are listed under "errors".
func (h *AdminHandler) HandleDashboard(c *fiber.Ctx) error {
	s := h.newStore()
	_ = s.FetchAll(c.UserContext())

	failures := fiber.Map{}
	for _, col := range []store.Collection{
		store.Orders, store.BlogPosts, store.Inventory, store.Inquiries, store.FAQs,
		store.Notices, store.Events, store.Products, store.Users, store.Subscriptions,
	} {
		if err := s.Err(col); err != nil {
			failures[string(col)] = err.Error()
		}
	}

	body := fiber.Map{
		"summary":        s.Analytics(),
		"recent_orders":  firstN(s.Orders(), 5),
		"low_stock":      lowStock(s.Inventory()),
		"pending_review": pendingInquiries(s.Inquiries()),
	}
	if len(failures) > 0 {
		body["errors"] = failures
	}
	return c.JSON(body)
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func lowStock(items []models.InventoryItem) []models.InventoryItem {
	out := []models.InventoryItem{}
	for _, it := range items {
		if it.Status != models.StockIn {
			out = append(out, it)
		}
	}
	return out
}

func pendingInquiries(items []models.Inquiry) []models.Inquiry {
	out := []models.Inquiry{}
	for _, inq := range items {
		if inq.Status == models.InquiryPending {
			out = append(out, inq)
		}
	}
	return out
}

func (h *AdminHandler) HandleListOrders(c *fiber.Ctx) error {
	status := models.OrderStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		return badRequest(c, "Invalid order status: "+string(status), nil)
	}
	s := h.newStore()
	if err := s.FetchOrders(c.UserContext(), status); err != nil {
		return respondError(c, h.log, "Could not retrieve orders", err)
	}
	return c.JSON(s.Orders())
}

type orderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus accepts any valid status regardless of the current one.
func (h *AdminHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req orderStatusRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	s := h.newStore()
	order, err := s.UpdateOrderStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, h.log, "Could not update order status", err)
	}
	return c.JSON(withItems(fiber.Map{
		"message": "Order " + order.ID + " status updated successfully to " + string(order.Status),
		"item":    order,
	}, s, store.Orders, s.Orders()))
}

func (h *AdminHandler) HandleListInventory(c *fiber.Ctx) error {
	s := h.newStore()
	if err := s.FetchInventory(c.UserContext()); err != nil {
		return respondError(c, h.log, "Could not retrieve inventory", err)
	}
	return c.JSON(s.Inventory())
}

func (h *AdminHandler) HandleCreateInventory(c *fiber.Ctx) error {
	var item models.InventoryItem
	if err := c.BodyParser(&item); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	s := h.newStore()
	created, err := s.CreateInventoryItem(c.UserContext(), &item)
	if err != nil {
		return respondError(c, h.log, "Could not create inventory item", err)
	}
	return c.Status(fiber.StatusCreated).JSON(withItems(fiber.Map{"item": created}, s, store.Inventory, s.Inventory()))
}

type stockRequest struct {
	CurrentStock *int `json:"current_stock" validate:"required,gte=0"`
}

func (h *AdminHandler) HandleUpdateStock(c *fiber.Ctx) error {
	var req stockRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	s := h.newStore()
	item, err := s.UpdateStock(c.UserContext(), c.Params("id"), *req.CurrentStock)
	if err != nil {
		return respondError(c, h.log, "Could not update stock", err)
	}
	return c.JSON(withItems(fiber.Map{"item": item}, s, store.Inventory, s.Inventory()))
}

func (h *AdminHandler) HandleDeleteInventory(c *fiber.Ctx) error {
	s := h.newStore()
	if err := s.DeleteInventoryItem(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, "Could not delete inventory item", err)
	}
	return c.JSON(withItems(fiber.Map{}, s, store.Inventory, s.Inventory()))
}

func (h *AdminHandler) HandleListInquiries(c *fiber.Ctx) error {
	status := models.InquiryStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		return badRequest(c, "Invalid inquiry status: "+string(status), nil)
	}
	s := h.newStore()
	if err := s.FetchInquiries(c.UserContext(), status); err != nil {
		return respondError(c, h.log, "Could not retrieve inquiries", err)
	}
	return c.JSON(s.Inquiries())
}

type inquiryStatusRequest struct {
	Status models.InquiryStatus `json:"status" validate:"required"`
}

func (h *AdminHandler) HandleUpdateInquiryStatus(c *fiber.Ctx) error {
	var req inquiryStatusRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	s := h.newStore()
	inq, err := s.UpdateInquiryStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, h.log, "Could not update inquiry status", err)
	}
	return c.JSON(withItems(fiber.Map{"item": inq}, s, store.Inquiries, s.Inquiries()))
}

func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	s := h.newStore()
	if err := s.FetchUsers(c.UserContext()); err != nil {
		return respondError(c, h.log, "Could not retrieve users", err)
	}
	return c.JSON(s.Users())
}

type createAdminRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,max=100"`
}

func (h *AdminHandler) HandleCreateAdmin(c *fiber.Ctx) error {
	var req createAdminRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	s := h.newStore()
	if err := s.CreateAdmin(c.UserContext(), req.Email, req.Password, req.Name); err != nil {
		return respondError(c, h.log, "Could not create admin", err)
	}
	return c.Status(fiber.StatusCreated).JSON(withItems(fiber.Map{
		"message": "Admin account created",
	}, s, store.Users, s.Users()))
}

func (h *AdminHandler) HandleListSubscriptions(c *fiber.Ctx) error {
	s := h.newStore()
	if err := s.FetchSubscriptions(c.UserContext()); err != nil {
		return respondError(c, h.log, "Could not retrieve subscriptions", err)
	}
	return c.JSON(s.Subscriptions())
}

var uploadFolders = map[string]bool{"products": true, "blog": true, "events": true}

// HandleUpload stores a multipart "file" under the "folder" form value.
func (h *AdminHandler) HandleUpload(c *fiber.Ctx) error {
	if h.uploader == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Image storage is not configured",
		})
	}

	folder := c.FormValue("folder", "misc")
	if !uploadFolders[folder] {
		folder = "misc"
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "A 'file' field is required", err)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "Could not read uploaded file", err)
	}
	defer file.Close()

	url, err := h.uploader.Upload(c.UserContext(), folder, fileHeader.Filename, file, fileHeader.Size, fileHeader.Header.Get(fiber.HeaderContentType))
	if err != nil {
		h.log.Error("image upload failed", zap.String("file", fileHeader.Filename), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Image upload failed",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}

type deleteUploadRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// HandleDeleteUpload removes a replaced or orphaned image.
func (h *AdminHandler) HandleDeleteUpload(c *fiber.Ctx) error {
	if h.uploader == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Image storage is not configured",
		})
	}
	var req deleteUploadRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	if err := h.uploader.Delete(c.UserContext(), req.URL); err != nil {
		if errors.Is(err, storage.ErrForeignURL) {
			return badRequest(c, "Image is not stored in this bucket", err)
		}
		h.log.Error("image delete failed", zap.String("url", req.URL), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Image delete failed",
			"error":   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

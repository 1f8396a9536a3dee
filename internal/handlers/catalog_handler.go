package handlers

import (
	"orbio/internal/services"
	"orbio/internal/util"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CatalogHandler serves the public storefront views.
type CatalogHandler struct {
	catalog *services.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(catalog *services.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, log: util.OrNop(log)}
}

// RegisterRoutes registers the public read routes.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products", h.HandleListProducts)
	router.Get("/products/:id", h.HandleGetProduct)

	blog := router.Group("/blog")
	blog.Get("/", h.HandleListPosts)
	blog.Get("/featured", h.HandleFeaturedPosts)
	blog.Get("/tags", h.HandleTags)
	blog.Get("/:id", h.HandleGetPost)
	blog.Get("/:id/related", h.HandleRelatedPosts)

	faqs := router.Group("/faqs")
	faqs.Get("/", h.HandleListFAQs)
	faqs.Post("/:id/view", h.HandleViewFAQ)
	faqs.Post("/:id/helpful", h.HandleHelpfulFAQ)

	router.Get("/notices", h.HandleListNotices)
	router.Get("/notices/:id", h.HandleViewNotice)

	router.Get("/events", h.HandleListEvents)
	router.Get("/events/:id", h.HandleViewEvent)
}

func (h *CatalogHandler) HandleListProducts(c *fiber.Ctx) error {
	products, err := h.catalog.ListProducts(c.UserContext(), c.Query("category", services.CategoryAll), c.Query("sort"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

func (h *CatalogHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.catalog.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

func (h *CatalogHandler) HandleListPosts(c *fiber.Ctx) error {
	posts, err := h.catalog.ListPosts(c.UserContext(), c.Query("tag", services.TagAll))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve blog posts", err)
	}
	return c.JSON(posts)
}

func (h *CatalogHandler) HandleFeaturedPosts(c *fiber.Ctx) error {
	posts, err := h.catalog.FeaturedPosts(c.UserContext())
	if err != nil {
		return respondError(c, h.log, "Could not retrieve featured posts", err)
	}
	return c.JSON(posts)
}

func (h *CatalogHandler) HandleTags(c *fiber.Ctx) error {
	tags, err := h.catalog.AllTags(c.UserContext())
	if err != nil {
		return respondError(c, h.log, "Could not retrieve tags", err)
	}
	return c.JSON(tags)
}

func (h *CatalogHandler) HandleGetPost(c *fiber.Ctx) error {
	post, err := h.catalog.GetPost(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve blog post", err)
	}
	return c.JSON(post)
}

func (h *CatalogHandler) HandleRelatedPosts(c *fiber.Ctx) error {
	posts, err := h.catalog.RelatedPosts(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve related posts", err)
	}
	return c.JSON(posts)
}

func (h *CatalogHandler) HandleListFAQs(c *fiber.Ctx) error {
	faqs, err := h.catalog.ListFAQs(c.UserContext(), c.Query("category", services.CategoryAll))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve FAQs", err)
	}
	return c.JSON(faqs)
}

func (h *CatalogHandler) HandleViewFAQ(c *fiber.Ctx) error {
	faq, err := h.catalog.ViewFAQ(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not count FAQ view", err)
	}
	return c.JSON(faq)
}

func (h *CatalogHandler) HandleHelpfulFAQ(c *fiber.Ctx) error {
	faq, err := h.catalog.MarkFAQHelpful(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not mark FAQ helpful", err)
	}
	return c.JSON(faq)
}

func (h *CatalogHandler) HandleListNotices(c *fiber.Ctx) error {
	notices, err := h.catalog.ListNotices(c.UserContext())
	if err != nil {
		return respondError(c, h.log, "Could not retrieve notices", err)
	}
	return c.JSON(notices)
}

func (h *CatalogHandler) HandleViewNotice(c *fiber.Ctx) error {
	notice, err := h.catalog.ViewNotice(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve notice", err)
	}
	return c.JSON(notice)
}

func (h *CatalogHandler) HandleListEvents(c *fiber.Ctx) error {
	events, err := h.catalog.ListEvents(c.UserContext(), c.QueryBool("active", false))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve events", err)
	}
	return c.JSON(events)
}

func (h *CatalogHandler) HandleViewEvent(c *fiber.Ctx) error {
	event, err := h.catalog.ViewEvent(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve event", err)
	}
	return c.JSON(event)
}

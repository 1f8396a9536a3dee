package services

import (
	"context"
	"fmt"

	"orbio/internal/events"
	"orbio/internal/models"
	"orbio/internal/repositories"
	"orbio/internal/util"

	"go.uber.org/zap"
)

// OrderRequest is what a customer submits; names and prices are filled from the catalog.
type OrderRequest struct {
	UserID          string                 `json:"-"`
	UserName        string                 `json:"user_name"`
	Products        []OrderItemRequest     `json:"products" validate:"required,min=1,dive"`
	ShippingAddress models.ShippingAddress `json:"shipping_address" validate:"required"`
}

type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo     repositories.OrderRepository
	productRepo   repositories.ProductRepository
	inventoryRepo repositories.InventoryRepository
	publisher     events.Publisher
	log           *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, inventoryRepo repositories.InventoryRepository, publisher events.Publisher, log *zap.Logger) *OrderService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &OrderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		publisher:     publisher,
		log:           util.OrNop(log),
	}
}

// ListOrders returns every order, or only those in status when it is non-empty.
func (s *OrderService) ListOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	if status == "" {
		return s.orderRepo.GetAll(ctx)
	}
	return s.orderRepo.GetByStatus(ctx, status)
}

// CreateOrder prices every line from the product table and persists the order
// as pending. Inventory is then decremented row by row; each decrement is its
// own commit and a failure is logged, not rolled back.
func (s *OrderService) CreateOrder(ctx context.Context, req OrderRequest) (*models.Order, error) {
	lines := make([]models.OrderLine, 0, len(req.Products))
	var total int64
	for _, item := range req.Products {
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", item.ProductID, err)
		}
		lines = append(lines, models.OrderLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			Price:       product.Price,
		})
		total += product.Price * int64(item.Quantity)
	}

	order, err := s.orderRepo.Create(ctx, &models.Order{
		UserID:          req.UserID,
		UserName:        req.UserName,
		Products:        lines,
		TotalAmount:     total,
		Status:          models.OrderPending,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, line := range lines {
		s.decrementStock(ctx, order.ID, line)
	}

	events.Emit(ctx, s.publisher, s.log, events.New(events.OrderCreated, "order", order.ID, map[string]any{
		"user_id": order.UserID,
		"status":  order.Status,
		"total":   order.TotalAmount,
	}))
	s.log.Info("order created", zap.String("order_id", order.ID), zap.Int64("total", order.TotalAmount))
	return order, nil
}

func (s *OrderService) decrementStock(ctx context.Context, orderID string, line models.OrderLine) {
	items, err := s.inventoryRepo.GetByProductName(ctx, line.ProductName)
	if err != nil {
		s.log.Warn("inventory lookup failed", zap.String("order_id", orderID), zap.String("product", line.ProductName), zap.Error(err))
		return
	}
	if len(items) == 0 {
		s.log.Debug("no inventory row for product", zap.String("product", line.ProductName))
		return
	}

	item := items[0]
	next := item.CurrentStock - line.Quantity
	if next < 0 {
		s.log.Warn("stock below zero, clamping", zap.String("sku", item.SKU), zap.Int("requested", line.Quantity), zap.Int("available", item.CurrentStock))
		next = 0
	}
	updated, err := s.inventoryRepo.UpdateStock(ctx, item.ID, next)
	if err != nil {
		s.log.Error("failed to decrement stock", zap.String("order_id", orderID), zap.String("sku", item.SKU), zap.Error(err))
		return
	}
	events.Emit(ctx, s.publisher, s.log, events.New(events.StockChanged, "inventory", updated.ID, map[string]any{
		"sku":           updated.SKU,
		"current_stock": updated.CurrentStock,
		"status":        updated.Status,
	}))
}

// UpdateOrderStatus moves an order to any valid status.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	order, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	events.Emit(ctx, s.publisher, s.log, events.New(events.OrderStatusChanged, "order", order.ID, map[string]any{
		"status": order.Status,
	}))
	return order, nil
}

package services_test

import (
	"context"
	"errors"
	"testing"

	"orbio/internal/events"
	"orbio/internal/models"
	"orbio/internal/repositories"
	"orbio/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func orderRequest() services.OrderRequest {
	return services.OrderRequest{
		UserID:   "user-1",
		UserName: "Kim",
		Products: []services.OrderItemRequest{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		},
		ShippingAddress: models.ShippingAddress{Name: "Kim", Address: "Seoul", Phone: "010-0000-0000"},
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	ctx := context.Background()
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	inventoryRepo := new(MockInventoryRepository)
	publisher := new(MockPublisher)
	service := services.NewOrderService(orderRepo, productRepo, inventoryRepo, publisher, nil)

	productRepo.On("GetByID", ctx, "p1").Return(&models.Product{Record: models.Record{ID: "p1"}, Name: "Tumbler 350ml", Price: 25000}, nil).Once()
	productRepo.On("GetByID", ctx, "p2").Return(&models.Product{Record: models.Record{ID: "p2"}, Name: "Food Container", Price: 18000}, nil).Once()

	orderRepo.On("Create", ctx, mock.MatchedBy(func(o *models.Order) bool {
		return o.TotalAmount == 68000 &&
			o.Status == models.OrderPending &&
			len(o.Products) == 2 &&
			o.Products[0].ProductName == "Tumbler 350ml" &&
			o.Products[0].Price == 25000
	})).Return(&models.Order{Record: models.Record{ID: "order-1"}, Status: models.OrderPending, TotalAmount: 68000}, nil).Once()

	inventoryRepo.On("GetByProductName", ctx, "Tumbler 350ml").
		Return([]models.InventoryItem{{Record: models.Record{ID: "inv-1"}, SKU: "TUM-350", CurrentStock: 10}}, nil).Once()
	inventoryRepo.On("UpdateStock", ctx, "inv-1", 8).
		Return(&models.InventoryItem{Record: models.Record{ID: "inv-1"}, SKU: "TUM-350", CurrentStock: 8, Status: models.StockLow}, nil).Once()
	inventoryRepo.On("GetByProductName", ctx, "Food Container").Return([]models.InventoryItem{}, nil).Once()

	publisher.On("Publish", ctx, eventOfType(events.StockChanged)).Return(nil).Once()
	publisher.On("Publish", ctx, eventOfType(events.OrderCreated)).Return(nil).Once()

	order, err := service.CreateOrder(ctx, orderRequest())
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, int64(68000), order.TotalAmount)

	orderRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
	inventoryRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_CreateOrderUnknownProduct(t *testing.T) {
	ctx := context.Background()
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := services.NewOrderService(orderRepo, productRepo, new(MockInventoryRepository), nil, nil)

	notFound := &repositories.DataAccessError{Table: "products", Op: "getById", Code: repositories.CodeNotFound, Err: repositories.ErrNotFound}
	productRepo.On("GetByID", ctx, "p1").Return(nil, notFound).Once()

	order, err := service.CreateOrder(ctx, orderRequest())
	assert.Nil(t, order)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_InventoryFailureDoesNotFailOrder(t *testing.T) {
	ctx := context.Background()
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	inventoryRepo := new(MockInventoryRepository)
	service := services.NewOrderService(orderRepo, productRepo, inventoryRepo, nil, nil)

	req := orderRequest()
	req.Products = req.Products[:1]
	productRepo.On("GetByID", ctx, "p1").Return(&models.Product{Record: models.Record{ID: "p1"}, Name: "Tumbler 350ml", Price: 25000}, nil).Once()
	orderRepo.On("Create", ctx, mock.Anything).Return(&models.Order{Record: models.Record{ID: "order-2"}, Status: models.OrderPending, TotalAmount: 50000}, nil).Once()
	inventoryRepo.On("GetByProductName", ctx, "Tumbler 350ml").Return(nil, errors.New("connection reset")).Once()

	order, err := service.CreateOrder(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "order-2", order.ID)
	inventoryRepo.AssertNotCalled(t, "UpdateStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_StockClampsAtZero(t *testing.T) {
	ctx := context.Background()
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	inventoryRepo := new(MockInventoryRepository)
	service := services.NewOrderService(orderRepo, productRepo, inventoryRepo, nil, nil)

	req := orderRequest()
	req.Products = []services.OrderItemRequest{{ProductID: "p1", Quantity: 5}}
	productRepo.On("GetByID", ctx, "p1").Return(&models.Product{Record: models.Record{ID: "p1"}, Name: "Tumbler 350ml", Price: 25000}, nil).Once()
	orderRepo.On("Create", ctx, mock.Anything).Return(&models.Order{Record: models.Record{ID: "order-3"}}, nil).Once()
	inventoryRepo.On("GetByProductName", ctx, "Tumbler 350ml").
		Return([]models.InventoryItem{{Record: models.Record{ID: "inv-1"}, CurrentStock: 3}}, nil).Once()
	inventoryRepo.On("UpdateStock", ctx, "inv-1", 0).
		Return(&models.InventoryItem{Record: models.Record{ID: "inv-1"}, Status: models.StockOut}, nil).Once()

	_, err := service.CreateOrder(ctx, req)
	require.NoError(t, err)
	inventoryRepo.AssertExpectations(t)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	orderRepo := new(MockOrderRepository)
	publisher := new(MockPublisher)
	service := services.NewOrderService(orderRepo, new(MockProductRepository), new(MockInventoryRepository), publisher, nil)

	orderRepo.On("UpdateStatus", ctx, "o1", models.OrderConfirmed).
		Return(&models.Order{Record: models.Record{ID: "o1"}, Status: models.OrderConfirmed}, nil).Once()
	orderRepo.On("UpdateStatus", ctx, "o1", models.OrderPending).
		Return(&models.Order{Record: models.Record{ID: "o1"}, Status: models.OrderPending}, nil).Once()
	publisher.On("Publish", ctx, eventOfType(events.OrderStatusChanged)).Return(errors.New("broker down")).Twice()

	order, err := service.UpdateOrderStatus(ctx, "o1", models.OrderConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, order.Status)

	order, err = service.UpdateOrderStatus(ctx, "o1", models.OrderPending)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)

	orderRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

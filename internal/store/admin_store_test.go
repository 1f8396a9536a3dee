package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"orbio/internal/models"
	"orbio/internal/repositories"
	"orbio/internal/services"
	"orbio/internal/sessions"
	"orbio/internal/store"
	"orbio/pkg/postgrest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyTable fails every Select while failSelect is set.
type flakyTable struct {
	*repositories.MemoryTableClient
	failSelect atomic.Bool
}

func (f *flakyTable) Select(ctx context.Context, table string, q postgrest.Query, dest any) error {
	if f.failSelect.Load() {
		return postgrest.ErrUnreachable
	}
	return f.MemoryTableClient.Select(ctx, table, q, dest)
}

type fixture struct {
	table *flakyTable
	repos *repositories.Set
	auth  *services.AuthService
	admin *store.AdminStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	table := &flakyTable{MemoryTableClient: repositories.NewMemoryTableClient()}
	repos := repositories.NewSet(table, nil)
	auth := services.NewAuthService(services.NewLocalIdentityProvider(repos.Credentials), repos.Profiles, sessions.NewMemoryStore(), "secret", time.Hour, nil)
	orders := services.NewOrderService(repos.Orders, repos.Products, repos.Inventory, nil, nil)
	inquiries := services.NewInquiryService(repos.Inquiries, nil, nil, "", nil)
	return &fixture{
		table: table,
		repos: repos,
		auth:  auth,
		admin: store.NewAdminStore(repos, orders, inquiries, auth, nil),
	}
}

func faq(q string) *models.FAQ {
	return &models.FAQ{Category: "product", Question: q, Answer: "answer"}
}

func TestFetchFailureKeepsPreviousItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.repos.FAQs.Create(ctx, faq("세척은 어떻게 하나요?"))
	require.NoError(t, err)
	require.NoError(t, f.admin.FetchFAQs(ctx))
	require.Len(t, f.admin.FAQs(), 1)
	assert.NoError(t, f.admin.Err(store.FAQs))

	f.table.failSelect.Store(true)
	err = f.admin.FetchFAQs(ctx)
	assert.Error(t, err)
	assert.Equal(t, repositories.CodeNetwork, repositories.CodeOf(err))
	assert.Len(t, f.admin.FAQs(), 1)
	assert.Error(t, f.admin.Err(store.FAQs))
	assert.False(t, f.admin.IsLoading(store.FAQs))

	f.table.failSelect.Store(false)
	require.NoError(t, f.admin.FetchFAQs(ctx))
	assert.NoError(t, f.admin.Err(store.FAQs))
}

func TestEmptyAndFailedAreDistinguishable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.admin.FetchEvents(ctx))
	assert.Empty(t, f.admin.Events())
	assert.NoError(t, f.admin.Err(store.Events))

	f.table.failSelect.Store(true)
	require.Error(t, f.admin.FetchNotices(ctx))
	assert.Empty(t, f.admin.Notices())
	assert.Error(t, f.admin.Err(store.Notices))
}

func TestCanceledFetchDoesNotReplaceSlot(t *testing.T) {
	f := newFixture(t)
	_, err := f.repos.FAQs.Create(context.Background(), faq("q1"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = f.admin.FetchFAQs(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.admin.FAQs())
}

func TestMutationRefetches(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.admin.CreateFAQ(ctx, faq("q1"))
	require.NoError(t, err)
	require.Len(t, f.admin.FAQs(), 1)

	answer := "updated"
	_, err = f.admin.UpdateFAQ(ctx, created.ID, models.FAQPatch{Answer: &answer})
	require.NoError(t, err)
	assert.Equal(t, "updated", f.admin.FAQs()[0].Answer)

	require.NoError(t, f.admin.DeleteFAQ(ctx, created.ID))
	assert.Empty(t, f.admin.FAQs())
}

func TestMutationFailureIsReturned(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.admin.DeleteProduct(ctx, "missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = f.admin.CreateProduct(ctx, &models.Product{Name: "no category"})
	assert.Equal(t, repositories.CodeInvalidInput, repositories.CodeOf(err))
	assert.Empty(t, f.admin.Products())
}

func TestUpdateStockDerivesStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	item, err := f.admin.CreateInventoryItem(ctx, &models.InventoryItem{
		SKU: "TUM-350", ProductName: "Tumbler 350ml", CurrentStock: 120, MinStock: 20, MaxStock: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StockIn, item.Status)

	updated, err := f.admin.UpdateStock(ctx, item.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, models.StockOut, updated.Status)
	assert.Equal(t, models.StockOut, f.admin.Inventory()[0].Status)
}

func TestOrderStatusAnyTransition(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	order, err := f.repos.Orders.Create(ctx, &models.Order{
		UserID:      "u1",
		Products:    []models.OrderLine{{ProductID: "p1", ProductName: "Tumbler", Quantity: 1, Price: 25000}},
		TotalAmount: 25000,
		Status:      models.OrderPending,
	})
	require.NoError(t, err)

	_, err = f.admin.UpdateOrderStatus(ctx, order.ID, models.OrderConfirmed)
	require.NoError(t, err)
	back, err := f.admin.UpdateOrderStatus(ctx, order.ID, models.OrderPending)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, back.Status)
	assert.Equal(t, models.OrderPending, f.admin.Orders()[0].Status)
}

func TestFetchAllAndAnalytics(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	line := []models.OrderLine{{ProductID: "p1", ProductName: "Tumbler", Quantity: 1, Price: 25000}}
	for _, o := range []models.Order{
		{UserID: "u1", Products: line, TotalAmount: 25000, Status: models.OrderPending},
		{UserID: "u2", Products: line, TotalAmount: 50000, Status: models.OrderDelivered},
		{UserID: "u3", Products: line, TotalAmount: 10000, Status: models.OrderCancelled},
	} {
		o := o
		_, err := f.repos.Orders.Create(ctx, &o)
		require.NoError(t, err)
	}
	for _, stock := range []int{0, 10, 100} {
		_, err := f.repos.Inventory.Create(ctx, &models.InventoryItem{SKU: "S", ProductName: "P", CurrentStock: stock, MaxStock: 500})
		require.NoError(t, err)
	}
	_, err := f.repos.Subscriptions.Create(ctx, &models.Subscription{Email: "a@b.com", IsActive: true})
	require.NoError(t, err)
	_, err = f.repos.Inquiries.Create(ctx, &models.Inquiry{Name: "n", Email: "a@b.com", Subject: "s", Message: "m", PrivacyAgreed: true})
	require.NoError(t, err)
	require.NoError(t, f.auth.CreateAdmin(ctx, "admin@orbio.com", "admin123", "관리자"))
	for i, role := range []models.Role{models.RoleUser, models.RoleUser, models.RoleEnterprise} {
		_, err := f.repos.Profiles.Create(ctx, &models.Profile{
			Record: models.Record{ID: fmt.Sprintf("member-%d", i)},
			Email:  fmt.Sprintf("member%d@example.com", i),
			Role:   role,
		})
		require.NoError(t, err)
	}

	require.NoError(t, f.admin.FetchAll(ctx))
	sum := f.admin.Analytics()

	assert.Equal(t, 3, sum.TotalOrders)
	assert.Equal(t, int64(75000), sum.Revenue)
	assert.Equal(t, 1, sum.OrdersByStatus[models.OrderCancelled])
	assert.Equal(t, 1, sum.LowStockItems)
	assert.Equal(t, 1, sum.OutOfStockItems)
	assert.Equal(t, 1, sum.PendingInquiries)
	assert.Equal(t, 1, sum.Subscribers)
	assert.Equal(t, 4, sum.TotalUsers)
	assert.Equal(t, map[models.Role]int{
		models.RoleAdmin:      1,
		models.RoleUser:       2,
		models.RoleEnterprise: 1,
	}, sum.UsersByRole)
}

func TestFetchAllReportsFailure(t *testing.T) {
	f := newFixture(t)
	f.table.failSelect.Store(true)

	err := f.admin.FetchAll(context.Background())
	assert.True(t, errors.Is(err, postgrest.ErrUnreachable))
	for _, c := range []store.Collection{store.Orders, store.Products, store.Users, store.Subscriptions} {
		assert.Error(t, f.admin.Err(c), c)
	}
}

// Package store holds the per-request view state: the back-office collections
// and the signed-in user. Nothing here outlives the request that created it.
package store

import (
	"context"
	"sync"

	"orbio/internal/models"
	"orbio/internal/repositories"
	"orbio/internal/services"
	"orbio/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Collection names one AdminStore slot.
type Collection string

const (
	Orders        Collection = "orders"
	BlogPosts     Collection = "blog_posts"
	Inventory     Collection = "inventory"
	Inquiries     Collection = "inquiries"
	FAQs          Collection = "faqs"
	Notices       Collection = "notices"
	Events        Collection = "events"
	Products      Collection = "products"
	Users         Collection = "users"
	Subscriptions Collection = "subscriptions"
)

type slot[T any] struct {
	items     []T
	isLoading bool
	err       error
}

// AdminStore caches the back-office collections for one view. A fetch replaces
// its slot only on success; a failed fetch keeps the previous items and records
// the error. Every successful mutation re-fetches its collection.
type AdminStore struct {
	repos     *repositories.Set
	orders    *services.OrderService
	inquiries *services.InquiryService
	auth      *services.AuthService
	log       *zap.Logger

	mu            sync.RWMutex
	orderFilter   models.OrderStatus
	inquiryFilter models.InquiryStatus

	orderSlot        slot[models.Order]
	blogSlot         slot[models.BlogPost]
	inventorySlot    slot[models.InventoryItem]
	inquirySlot      slot[models.Inquiry]
	faqSlot          slot[models.FAQ]
	noticeSlot       slot[models.Notice]
	eventSlot        slot[models.Event]
	productSlot      slot[models.Product]
	userSlot         slot[models.Profile]
	subscriptionSlot slot[models.Subscription]
}

func NewAdminStore(repos *repositories.Set, orders *services.OrderService, inquiries *services.InquiryService, auth *services.AuthService, log *zap.Logger) *AdminStore {
	return &AdminStore{
		repos:     repos,
		orders:    orders,
		inquiries: inquiries,
		auth:      auth,
		log:       util.OrNop(log),
	}
}

func fetch[T any](ctx context.Context, s *AdminStore, name Collection, sl *slot[T], load func(context.Context) ([]T, error)) error {
	s.mu.Lock()
	sl.isLoading = true
	s.mu.Unlock()

	items, err := load(ctx)
	if err == nil {
		// a response that arrives after cancellation is dropped
		err = ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sl.isLoading = false
	if err != nil {
		sl.err = err
		util.StoreFetchFailuresTotal.WithLabelValues(string(name)).Inc()
		s.log.Warn("fetch failed", zap.String("collection", string(name)), zap.Error(err))
		return err
	}
	sl.items = items
	sl.err = nil
	return nil
}

func snapshot[T any](s *AdminStore, sl *slot[T]) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(sl.items))
	copy(out, sl.items)
	return out
}

// mutated re-fetches after a successful mutation. A failed re-fetch is
// recorded in the slot and does not fail the mutation.
func (s *AdminStore) mutated(ctx context.Context, refetch func(context.Context) error) {
	_ = refetch(ctx)
}

func (s *AdminStore) FetchOrders(ctx context.Context, status models.OrderStatus) error {
	s.mu.Lock()
	s.orderFilter = status
	s.mu.Unlock()
	return fetch(ctx, s, Orders, &s.orderSlot, func(ctx context.Context) ([]models.Order, error) {
		return s.orders.ListOrders(ctx, status)
	})
}

func (s *AdminStore) refetchOrders(ctx context.Context) error {
	s.mu.RLock()
	status := s.orderFilter
	s.mu.RUnlock()
	return s.FetchOrders(ctx, status)
}

func (s *AdminStore) FetchBlogPosts(ctx context.Context) error {
	return fetch(ctx, s, BlogPosts, &s.blogSlot, s.repos.Blog.GetAll)
}

func (s *AdminStore) FetchInventory(ctx context.Context) error {
	return fetch(ctx, s, Inventory, &s.inventorySlot, s.repos.Inventory.GetAll)
}

func (s *AdminStore) FetchInquiries(ctx context.Context, status models.InquiryStatus) error {
	s.mu.Lock()
	s.inquiryFilter = status
	s.mu.Unlock()
	return fetch(ctx, s, Inquiries, &s.inquirySlot, func(ctx context.Context) ([]models.Inquiry, error) {
		return s.inquiries.List(ctx, status)
	})
}

func (s *AdminStore) refetchInquiries(ctx context.Context) error {
	s.mu.RLock()
	status := s.inquiryFilter
	s.mu.RUnlock()
	return s.FetchInquiries(ctx, status)
}

func (s *AdminStore) FetchFAQs(ctx context.Context) error {
	return fetch(ctx, s, FAQs, &s.faqSlot, s.repos.FAQs.GetAll)
}

func (s *AdminStore) FetchNotices(ctx context.Context) error {
	return fetch(ctx, s, Notices, &s.noticeSlot, s.repos.Notices.GetAll)
}

func (s *AdminStore) FetchEvents(ctx context.Context) error {
	return fetch(ctx, s, Events, &s.eventSlot, s.repos.Events.GetAll)
}

func (s *AdminStore) FetchProducts(ctx context.Context) error {
	return fetch(ctx, s, Products, &s.productSlot, s.repos.Products.GetAll)
}

func (s *AdminStore) FetchUsers(ctx context.Context) error {
	return fetch(ctx, s, Users, &s.userSlot, s.repos.Profiles.GetAll)
}

func (s *AdminStore) FetchSubscriptions(ctx context.Context) error {
	return fetch(ctx, s, Subscriptions, &s.subscriptionSlot, s.repos.Subscriptions.GetAll)
}

// FetchAll loads every collection concurrently and returns the first failure.
// Each slot records its own outcome either way.
func (s *AdminStore) FetchAll(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.FetchOrders(ctx, "") })
	g.Go(func() error { return s.FetchBlogPosts(ctx) })
	g.Go(func() error { return s.FetchInventory(ctx) })
	g.Go(func() error { return s.FetchInquiries(ctx, "") })
	g.Go(func() error { return s.FetchFAQs(ctx) })
	g.Go(func() error { return s.FetchNotices(ctx) })
	g.Go(func() error { return s.FetchEvents(ctx) })
	g.Go(func() error { return s.FetchProducts(ctx) })
	g.Go(func() error { return s.FetchUsers(ctx) })
	g.Go(func() error { return s.FetchSubscriptions(ctx) })
	return g.Wait()
}

func (s *AdminStore) Orders() []models.Order { return snapshot(s, &s.orderSlot) }
func (s *AdminStore) BlogPosts() []models.BlogPost { return snapshot(s, &s.blogSlot) }
func (s *AdminStore) Inventory() []models.InventoryItem { return snapshot(s, &s.inventorySlot) }
func (s *AdminStore) Inquiries() []models.Inquiry { return snapshot(s, &s.inquirySlot) }
func (s *AdminStore) FAQs() []models.FAQ { return snapshot(s, &s.faqSlot) }
func (s *AdminStore) Notices() []models.Notice { return snapshot(s, &s.noticeSlot) }
func (s *AdminStore) Events() []models.Event { return snapshot(s, &s.eventSlot) }
func (s *AdminStore) Products() []models.Product { return snapshot(s, &s.productSlot) }
func (s *AdminStore) Users() []models.Profile { return snapshot(s, &s.userSlot) }
func (s *AdminStore) Subscriptions() []models.Subscription { return snapshot(s, &s.subscriptionSlot) }

// IsLoading reports whether a fetch of c is in flight.
func (s *AdminStore) IsLoading(c Collection) bool {
	loading, _ := s.state(c)
	return loading
}

// Err returns the error of the last failed fetch of c, or nil after a successful one.
func (s *AdminStore) Err(c Collection) error {
	_, err := s.state(c)
	return err
}

func (s *AdminStore) state(c Collection) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch c {
	case Orders:
		return s.orderSlot.isLoading, s.orderSlot.err
	case BlogPosts:
		return s.blogSlot.isLoading, s.blogSlot.err
	case Inventory:
		return s.inventorySlot.isLoading, s.inventorySlot.err
	case Inquiries:
		return s.inquirySlot.isLoading, s.inquirySlot.err
	case FAQs:
		return s.faqSlot.isLoading, s.faqSlot.err
	case Notices:
		return s.noticeSlot.isLoading, s.noticeSlot.err
	case Events:
		return s.eventSlot.isLoading, s.eventSlot.err
	case Products:
		return s.productSlot.isLoading, s.productSlot.err
	case Users:
		return s.userSlot.isLoading, s.userSlot.err
	case Subscriptions:
		return s.subscriptionSlot.isLoading, s.subscriptionSlot.err
	}
	return false, nil
}

package store

import (
	"context"

	"orbio/internal/models"
)

func (s *AdminStore) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	created, err := s.repos.Products.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.mutated(ctx, s.FetchProducts)
	return created, nil
}

func (s *AdminStore) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	updated, err := s.repos.Products.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.mutated(ctx, s.FetchProducts)
	return updated, nil
}

func (s *AdminStore) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repos.Products.Delete(ctx, id); err != nil {
		return err
	}
	s.mutated(ctx, s.FetchProducts)
	return nil
}

func (s *AdminStore) CreateBlogPost(ctx context.Context, p *models.BlogPost) (*models.BlogPost, error) {
	created, err := s.repos.Blog.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.mutated(ctx, s.FetchBlogPosts)
	return created, nil
}

func (s *AdminStore) UpdateBlogPost(ctx context.Context, id string, patch models.BlogPostPatch) (*models.BlogPost, error) {
	updated, err := s.repos.Blog.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.mutated(ctx, s.FetchBlogPosts)
	return updated, nil
}

func (s *AdminStore) DeleteBlogPost(ctx context.Context, id string) error {
	if err := s.repos.Blog.Delete(ctx, id); err != nil {
		return err
	}
	s.mutated(ctx, s.FetchBlogPosts)
	return nil
}

func (s *AdminStore) CreateFAQ(ctx context.Context, f *models.FAQ) (*models.FAQ, error) {
	created, err := s.repos.FAQs.Create(ctx, f)
	if err != nil {
		return nil, err
	}
	s.mutated(ctx, s.FetchFAQs)
	return created, nil
}

func (s *AdminStore) UpdateFAQ(ctx context.Context, id string, patch models.FAQPatch) (*models.FAQ, error) {
	updated, err := s.repos.FAQs.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.mutated(ctx, s.FetchFAQs)
	return updated, nil
}

func (s *AdminStore) DeleteFAQ(ctx context.Context, id string) error {
	if err := s.repos.FAQs.Delete(ctx, id); err != nil {
		return err
	}
	s.mutated(ctx, s.FetchFAQs)
	return nil
}

func (s *AdminStore) CreateNotice(ctx context.Context, n *models.Notice) (*models.Notice, error) {
	created, err := s.repos.Notices.Create(ctx, n)
	if err != nil {
		return nil, err
	}
	s.mutated(ctx, s.FetchNotices)
	return created, nil
}

func (s *AdminStore) UpdateNotice(ctx context.Context, id string, patch models.NoticePatch) (*models.Notice, error) {
	updated, err := s.repos.Notices.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.mutated(ctx, s.FetchNotices)
	return updated, nil
}

func (s *AdminStore) DeleteNotice(ctx context.Context, id string) error {
	if err := s.repos.Notices.Delete(ctx, id); err != nil {
		return err
	}
	s.mutated(ctx, s.FetchNotices)
	return nil
}

func (s *AdminStore) CreateEvent(ctx context.Context, e *models.Event) (*models.Event, error) {
	created, err := s.repos.Events.Create(ctx, e)
	if err != nil {
		return nil, err
	}
	s.mutated(ctx, s.FetchEvents)
	return created, nil
}

func (s *AdminStore) UpdateEvent(ctx context.Context, id string, patch models.EventPatch) (*models.Event, error) {
	updated, err := s.repos.Events.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.mutated(ctx, s.FetchEvents)
	return updated, nil
}

func (s *AdminStore) DeleteEvent(ctx context.Context, id string) error {
	if err := s.repos.Events.Delete(ctx, id); err != nil {
		return err
	}
	s.mutated(ctx, s.FetchEvents)
	return nil
}

// UpdateOrderStatus accepts any valid status from any current status.
func (s *AdminStore) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	updated, err := s.orders.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.mutated(ctx, s.refetchOrders)
	return updated, nil
}

func (s *AdminStore) CreateInventoryItem(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	created, err := s.repos.Inventory.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	s.mutated(ctx, s.FetchInventory)
	return created, nil
}

func (s *AdminStore) UpdateInventoryItem(ctx context.Context, id string, patch models.InventoryPatch) (*models.InventoryItem, error) {
	updated, err := s.repos.Inventory.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.mutated(ctx, s.FetchInventory)
	return updated, nil
}

// UpdateStock sets the stock level; the stock status is derived from it.
func (s *AdminStore) UpdateStock(ctx context.Context, id string, currentStock int) (*models.InventoryItem, error) {
	updated, err := s.repos.Inventory.UpdateStock(ctx, id, currentStock)
	if err != nil {
		return nil, err
	}
	s.mutated(ctx, s.FetchInventory)
	return updated, nil
}

func (s *AdminStore) DeleteInventoryItem(ctx context.Context, id string) error {
	if err := s.repos.Inventory.Delete(ctx, id); err != nil {
		return err
	}
	s.mutated(ctx, s.FetchInventory)
	return nil
}

func (s *AdminStore) UpdateInquiryStatus(ctx context.Context, id string, status models.InquiryStatus) (*models.Inquiry, error) {
	updated, err := s.inquiries.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.mutated(ctx, s.refetchInquiries)
	return updated, nil
}

// CreateAdmin registers a new admin account and refreshes the user list.
func (s *AdminStore) CreateAdmin(ctx context.Context, email, password, name string) error {
	if err := s.auth.CreateAdmin(ctx, email, password, name); err != nil {
		return err
	}
	s.mutated(ctx, s.FetchUsers)
	return nil
}

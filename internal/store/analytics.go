package store

import "orbio/internal/models"

// Analytics summarizes the loaded collections. Revenue excludes cancelled orders.
func (s *AdminStore) Analytics() models.DashboardSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := models.DashboardSummary{
		TotalOrders:    len(s.orderSlot.items),
		OrdersByStatus: make(map[models.OrderStatus]int),
		TotalPosts:     len(s.blogSlot.items),
		TotalUsers:     len(s.userSlot.items),
		UsersByRole:    make(map[models.Role]int),
	}
	for _, u := range s.userSlot.items {
		sum.UsersByRole[u.Role]++
	}
	for _, o := range s.orderSlot.items {
		sum.OrdersByStatus[o.Status]++
		if o.Status != models.OrderCancelled {
			sum.Revenue += o.TotalAmount
		}
	}
	for _, item := range s.inventorySlot.items {
		switch models.DeriveStockStatus(item.CurrentStock) {
		case models.StockLow:
			sum.LowStockItems++
		case models.StockOut:
			sum.OutOfStockItems++
		}
	}
	for _, inq := range s.inquirySlot.items {
		if inq.Status == models.InquiryPending {
			sum.PendingInquiries++
		}
	}
	for _, p := range s.blogSlot.items {
		if p.Featured {
			sum.FeaturedPosts++
		}
	}
	for _, e := range s.eventSlot.items {
		if e.IsActive {
			sum.ActiveEvents++
		}
	}
	for _, sub := range s.subscriptionSlot.items {
		if sub.IsActive {
			sum.Subscribers++
		}
	}
	return sum
}

package models

// DashboardSummary aggregates the back-office collections for the dashboard view.
type DashboardSummary struct {
	TotalOrders      int                 `json:"total_orders"`
	OrdersByStatus   map[OrderStatus]int `json:"orders_by_status"`
	Revenue          int64               `json:"revenue"`
	LowStockItems    int                 `json:"low_stock_items"`
	OutOfStockItems  int                 `json:"out_of_stock_items"`
	PendingInquiries int                 `json:"pending_inquiries"`
	TotalPosts       int                 `json:"total_posts"`
	FeaturedPosts    int                 `json:"featured_posts"`
	ActiveEvents     int                 `json:"active_events"`
	Subscribers      int                 `json:"subscribers"`
	TotalUsers       int                 `json:"total_users"`
	UsersByRole      map[Role]int        `json:"users_by_role"`
}

package models

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipping   OrderStatus = "shipping"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every valid order status.
var OrderStatuses = []OrderStatus{
	OrderPending, OrderConfirmed, OrderProcessing, OrderShipping, OrderShipped, OrderDelivered, OrderCancelled,
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// OrderLine is a single product within an order. Name and price are copied at order time.
type OrderLine struct {
	ProductID   string `json:"product_id" validate:"required"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	Price       int64  `json:"price" validate:"gte=0"`
}

type ShippingAddress struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
}

// Order represents a customer order.
type Order struct {
	Record
	UserID          string          `json:"user_id" validate:"required"`
	UserName        string          `json:"user_name"`
	Products        []OrderLine     `json:"products" gorm:"serializer:json;type:text" validate:"required,min=1,dive"`
	TotalAmount     int64           `json:"total_amount" validate:"gte=0"`
	Status          OrderStatus     `json:"status" validate:"required"`
	ShippingAddress ShippingAddress `json:"shipping_address" gorm:"serializer:json;type:text"`
}

func (Order) TableName() string { return "orders" }

type OrderPatch struct {
	UserName        *string          `json:"user_name,omitempty"`
	Status          *OrderStatus     `json:"status,omitempty"`
	ShippingAddress *ShippingAddress `json:"shipping_address,omitempty"`
}

package models

import "time"

// StockStatus is derived from the current stock level and never set directly.
type StockStatus string

const (
	StockIn  StockStatus = "in-stock"
	StockLow StockStatus = "low-stock"
	StockOut StockStatus = "out-of-stock"
)

// LowStockThreshold is the level below which an item counts as low on stock.
const LowStockThreshold = 50

// DeriveStockStatus maps a stock level to its status.
func DeriveStockStatus(current int) StockStatus {
	switch {
	case current <= 0:
		return StockOut
	case current < LowStockThreshold:
		return StockLow
	default:
		return StockIn
	}
}

// InventoryItem tracks stock for one SKU. ProductName is denormalized from the product.
type InventoryItem struct {
	Record
	SKU          string      `json:"sku" validate:"required,max=64"`
	ProductName  string      `json:"product_name" validate:"required"`
	CurrentStock int         `json:"current_stock" validate:"gte=0"`
	MinStock     int         `json:"min_stock" validate:"gte=0"`
	MaxStock     int         `json:"max_stock" validate:"gte=0,gtefield=MinStock"`
	LastUpdated  time.Time   `json:"last_updated"`
	Status       StockStatus `json:"status"`
}

func (InventoryItem) TableName() string { return "inventory" }

type InventoryPatch struct {
	SKU         *string `json:"sku,omitempty" validate:"omitempty,max=64"`
	ProductName *string `json:"product_name,omitempty"`
	MinStock    *int    `json:"min_stock,omitempty" validate:"omitempty,gte=0"`
	MaxStock    *int    `json:"max_stock,omitempty" validate:"omitempty,gte=0"`
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto vendible de una tienda. Stock nunca es negativo.
type Product struct {
	ID        string
	TenantID  string
	ShopID    string
	SKU       string // único por tienda
	Name      string
	Price     decimal.Decimal // precio de lista
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StockLevel nivel de stock de un producto tras un cambio (para notificaciones en tiempo real).
type StockLevel struct {
	ProductID string `json:"product_id"`
	ShopID    string `json:"shop_id"`
	Stock     int    `json:"stock"`
}

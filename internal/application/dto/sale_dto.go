package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
)

// SaleItemRequest línea de una venta.
type SaleItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid_required"`
	Qty       int             `json:"qty" validate:"gt=0"`
	Price     decimal.Decimal `json:"price"`
}

// CreateSaleRequest entrada para registrar una venta.
// StaffID vacío = el propio usuario. Total, si viene, debe coincidir con Σ price×qty.
type CreateSaleRequest struct {
	StaffID       string            `json:"staff_id" validate:"omitempty,uuid_required"`
	ShopID        string            `json:"shop_id" validate:"required,uuid_required"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,max=200,dive"`
	Latitude      *float64          `json:"latitude" validate:"required,latitude"`
	Longitude     *float64          `json:"longitude" validate:"required,longitude"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=CASH CARD TRANSFER MOBILE"`
	Total         *decimal.Decimal  `json:"total"`
}

// SaleItemResponse línea de venta en la salida.
type SaleItemResponse struct {
	Position  int             `json:"position"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID            string             `json:"id"`
	TenantID      string             `json:"tenant_id"`
	ShopID        string             `json:"shop_id"`
	StaffID       string             `json:"staff_id"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	Latitude      float64            `json:"latitude"`
	Longitude     float64            `json:"longitude"`
	CreatedAt     time.Time          `json:"created_at"`
	Items         []SaleItemResponse `json:"items,omitempty"`
}

// SaleFromEntity mapea entity.Sale a SaleResponse.
func SaleFromEntity(s *entity.Sale) SaleResponse {
	out := SaleResponse{
		ID:            s.ID,
		TenantID:      s.TenantID,
		ShopID:        s.ShopID,
		StaffID:       s.UserID,
		Total:         s.Total,
		PaymentMethod: string(s.PaymentMethod),
		Latitude:      s.Latitude,
		Longitude:     s.Longitude,
		CreatedAt:     s.CreatedAt,
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, SaleItemResponse{
			Position:  it.Position,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	return out
}

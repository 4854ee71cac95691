package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto en una tienda.
type CreateProductRequest struct {
	ShopID       string          `json:"shop_id" validate:"required,uuid_required"`
	SKU          string          `json:"sku" validate:"required,min=1,max=100"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Price        decimal.Decimal `json:"price"`
	InitialStock int             `json:"initial_stock" validate:"gte=0"`
}

// RestockRequest entrada para reponer stock.
type RestockRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        string          `json:"id"`
	TenantID  string          `json:"tenant_id"`
	ShopID    string          `json:"shop_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductFromEntity mapea entity.Product a ProductResponse.
func ProductFromEntity(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		TenantID:  p.TenantID,
		ShopID:    p.ShopID,
		SKU:       p.SKU,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

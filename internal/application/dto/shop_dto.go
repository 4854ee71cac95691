package dto

import (
	"time"

	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
)

// CreateShopRequest entrada para crear una tienda.
// TenantID solo se considera en modo plataforma; en el resto se usa el del usuario.
type CreateShopRequest struct {
	TenantID     string   `json:"tenant_id" validate:"omitempty,uuid_required"`
	Name         string   `json:"name" validate:"required,min=1,max=200"`
	Address      string   `json:"address" validate:"max=300"`
	Latitude     *float64 `json:"latitude" validate:"required_with=Longitude,omitempty,latitude"`
	Longitude    *float64 `json:"longitude" validate:"required_with=Latitude,omitempty,longitude"`
	RadiusMeters *float64 `json:"radius_meters" validate:"omitempty,gte=0"`
}

// ShopResponse salida de una tienda.
type ShopResponse struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenant_id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	RadiusMeters float64   `json:"radius_meters"`
	CreatedAt    time.Time `json:"created_at"`
}

// ShopFromEntity mapea entity.Shop a ShopResponse.
func ShopFromEntity(s *entity.Shop) ShopResponse {
	return ShopResponse{
		ID:           s.ID,
		TenantID:     s.TenantID,
		Name:         s.Name,
		Address:      s.Address,
		Latitude:     s.Latitude,
		Longitude:    s.Longitude,
		RadiusMeters: s.RadiusMeters,
		CreatedAt:    s.CreatedAt,
	}
}

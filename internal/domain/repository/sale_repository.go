package repository

import (
	"context"

	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
)

// SaleRepository ventas visibles dentro del alcance.
type SaleRepository interface {
	// Create persiste cabecera e ítems.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve la venta con sus ítems.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// List devuelve cabeceras (sin ítems), más recientes primero.
	List(ctx context.Context, limit, offset int) ([]*entity.Sale, error)
}

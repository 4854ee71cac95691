package repository

import (
	"context"

	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
)

// ShopRepository tiendas visibles dentro del alcance.
type ShopRepository interface {
	Create(ctx context.Context, shop *entity.Shop) error
	GetByID(ctx context.Context, id string) (*entity.Shop, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Shop, error)
}

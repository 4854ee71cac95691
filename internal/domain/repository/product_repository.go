package repository

import (
	"context"

	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
)

// ProductRepository puerto de persistencia para Product, restringido al alcance del accessor.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// List lista productos visibles; shopID vacío = todas las tiendas del alcance.
	List(ctx context.Context, shopID string, limit, offset int) ([]*entity.Product, error)
	// Restock suma qty (> 0) al stock y devuelve el producto actualizado.
	Restock(ctx context.Context, id string, qty int) (*entity.Product, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE). Solo tiene sentido dentro de una transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// DecrementStock resta qty solo si hay stock suficiente; devuelve el stock resultante.
	DecrementStock(ctx context.Context, id string, qty int) (int, error)
}

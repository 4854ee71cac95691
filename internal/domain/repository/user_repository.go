package repository

import (
	"context"

	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
)

// UserRepository usuarios visibles dentro del alcance.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
}

// IdentityStore búsqueda de usuarios sin alcance. Solo la usan la resolución de identidad y el login.
type IdentityStore interface {
	FindUserByID(ctx context.Context, id string) (*entity.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entity.User, error)
}

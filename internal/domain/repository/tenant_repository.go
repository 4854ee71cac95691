package repository

import (
	"context"
	"time"

	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
	"github.com/jhoicas/RetailOps-api/internal/domain/subscription"
)

// TenantRepository tenants visibles dentro del alcance (el propio, o todos en modo plataforma).
type TenantRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Tenant, error)
	UpdateSubscription(ctx context.Context, id string, status subscription.Status, graceEndsAt *time.Time) (*entity.Tenant, error)
}

// TenantDirectory lectura de tenants sin alcance. La usa el gateway para resolver la suscripción.
type TenantDirectory interface {
	FindTenant(ctx context.Context, id string) (*entity.Tenant, error)
}

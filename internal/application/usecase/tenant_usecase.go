package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/RetailOps-api/internal/application/dto"
	"github.com/jhoicas/RetailOps-api/internal/domain"
	"github.com/jhoicas/RetailOps-api/internal/domain/repository"
	"github.com/jhoicas/RetailOps-api/internal/domain/subscription"
)

// TenantUseCase administración de tenants y de su suscripción.
type TenantUseCase struct {
	now func() time.Time
}

// NewTenantUseCase construye el caso de uso.
func NewTenantUseCase() *TenantUseCase {
	return &TenantUseCase{now: time.Now}
}

// List lista tenants visibles con su estado efectivo.
func (uc *TenantUseCase) List(ctx context.Context, acc repository.ScopedAccessor, page dto.PageRequest) (dto.ListResponse[dto.TenantResponse], error) {
	page.DefaultPage()
	list, err := acc.Tenants().List(ctx, page.Limit, page.Offset)
	if err != nil {
		return dto.ListResponse[dto.TenantResponse]{}, err
	}
	now := uc.now()
	out := make([]dto.TenantResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.TenantFromEntity(t, now))
	}
	return dto.NewList(out, page), nil
}

// UpdateSubscription fija el estado almacenado. GRACE sin fecha abre un periodo de gracia desde ahora;
// ACTIVE y LOCKED limpian la fecha de fin.
func (uc *TenantUseCase) UpdateSubscription(ctx context.Context, acc repository.ScopedAccessor, id string, in dto.UpdateSubscriptionRequest) (*dto.TenantResponse, error) {
	status, err := subscription.ParseStatus(in.Status)
	if err != nil {
		return nil, domain.Invalid("status", err.Error())
	}
	now := uc.now().UTC()

	var graceEndsAt *time.Time
	if status == subscription.StatusGrace {
		end := subscription.GraceEndsAt(now)
		if in.GraceEndsAt != nil {
			if !in.GraceEndsAt.After(now) {
				return nil, domain.Invalid("grace_ends_at", "debe ser futura")
			}
			end = in.GraceEndsAt.UTC()
		}
		graceEndsAt = &end
	}

	t, err := acc.Tenants().UpdateSubscription(ctx, id, status, graceEndsAt)
	if err != nil {
		return nil, err
	}
	out := dto.TenantFromEntity(t, now)
	return &out, nil
}

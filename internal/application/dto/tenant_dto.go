package dto

import (
	"time"

	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
)

// UpdateSubscriptionRequest cambio de estado de suscripción (solo plataforma).
// Para GRACE sin fecha, el fin se calcula desde ahora.
type UpdateSubscriptionRequest struct {
	Status      string     `json:"status" validate:"required,oneof=ACTIVE GRACE LOCKED"`
	GraceEndsAt *time.Time `json:"grace_ends_at"`
}

// TenantResponse salida de un tenant con su estado almacenado y efectivo.
type TenantResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Plan            string     `json:"plan"`
	StoredStatus    string     `json:"stored_status"`
	EffectiveStatus string     `json:"effective_status"`
	GraceEndsAt     *time.Time `json:"grace_ends_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// TenantFromEntity mapea entity.Tenant a TenantResponse resolviendo el estado en now.
func TenantFromEntity(t *entity.Tenant, now time.Time) TenantResponse {
	return TenantResponse{
		ID:              t.ID,
		Name:            t.Name,
		Plan:            t.Plan,
		StoredStatus:    string(t.SubscriptionStatus),
		EffectiveStatus: string(t.EffectiveStatus(now)),
		GraceEndsAt:     t.GraceEndsAt,
		CreatedAt:       t.CreatedAt,
	}
}

package entity

import (
	"time"

	"github.com/jhoicas/RetailOps-api/internal/domain/subscription"
)

// Tenant organización cliente (frontera de aislamiento de datos).
type Tenant struct {
	ID                 string
	Name               string
	Plan               string
	SubscriptionStatus subscription.Status // valor almacenado; el efectivo sale de subscription.Resolve
	GraceEndsAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// EffectiveStatus estado de suscripción efectivo en now.
func (t *Tenant) EffectiveStatus(now time.Time) subscription.Status {
	return subscription.Resolve(t.SubscriptionStatus, t.GraceEndsAt, now)
}

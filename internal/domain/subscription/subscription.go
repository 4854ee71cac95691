// Package subscription resuelve el estado efectivo de la suscripción de un tenant.
package subscription

import (
	"fmt"
	"strings"
	"time"
)

// Status estado de suscripción de un tenant.
type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusGrace  Status = "GRACE"
	StatusLocked Status = "LOCKED"
)

// GracePeriod duración del periodo de gracia tras un fallo de pago.
const GracePeriod = 5 * 24 * time.Hour

// ParseStatus interpreta el valor almacenado (sin distinguir mayúsculas).
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusActive, StatusGrace, StatusLocked:
		return st, nil
	default:
		return "", fmt.Errorf("subscription: estado desconocido %q", s)
	}
}

// Resolve devuelve el estado efectivo en now. Es una función pura.
// GRACE pasa a LOCKED cuando graceEndsAt quedó en el pasado; el instante exacto de fin todavía es GRACE.
// GRACE sin fecha de fin se trata como LOCKED.
func Resolve(stored Status, graceEndsAt *time.Time, now time.Time) Status {
	if stored != StatusGrace {
		return stored
	}
	if graceEndsAt == nil || graceEndsAt.Before(now) {
		return StatusLocked
	}
	return StatusGrace
}

// GraceEndsAt fin del periodo de gracia para un fallo de pago ocurrido en failureAt.
func GraceEndsAt(failureAt time.Time) time.Time {
	return failureAt.Add(GracePeriod)
}

// AllowsWrites indica si el estado admite operaciones de escritura.
func AllowsWrites(s Status) bool {
	return s == StatusActive || s == StatusGrace
}

package entity

import "time"

// AuditEvent registro de una acción sensible (p. ej. acceso entre tenants).
type AuditEvent struct {
	ID            string
	ActorID       string
	Action        string
	Target        string
	CorrelationID string
	CreatedAt     time.Time
}

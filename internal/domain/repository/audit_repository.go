package repository

import (
	"context"

	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
)

// AuditRepository registro de eventos de auditoría.
type AuditRepository interface {
	Record(ctx context.Context, ev *entity.AuditEvent) error
}

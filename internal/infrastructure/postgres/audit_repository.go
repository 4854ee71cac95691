package postgres

import (
	"context"

	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
	"github.com/jhoicas/RetailOps-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*Store)(nil)

// Record inserta un evento de auditoría fuera de cualquier transacción de negocio.
func (st *Store) Record(ctx context.Context, ev *entity.AuditEvent) error {
	_, err := st.pool.Exec(ctx, `
		INSERT INTO audit_events (id, actor_id, action, target, correlation_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		ev.ID, ev.ActorID, ev.Action, ev.Target, ev.CorrelationID, ev.CreatedAt,
	)
	return classify(err, "insert audit event")
}

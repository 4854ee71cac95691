package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
	"github.com/jhoicas/RetailOps-api/internal/domain/repository"
	"github.com/jhoicas/RetailOps-api/internal/domain/scope"
	"github.com/jhoicas/RetailOps-api/internal/domain/subscription"
)

var (
	_ repository.TenantRepository = (*TenantRepo)(nil)
	_ repository.TenantDirectory  = (*Store)(nil)
)

// TenantRepo implementación de TenantRepository sobre PostgreSQL.
type TenantRepo struct {
	q Querier
	s scope.Scope
}

const tenantColumns = `t.id, t.name, t.plan, t.subscription_status, t.grace_ends_at, t.created_at, t.updated_at`

// GetByID obtiene un tenant visible en el alcance.
func (r *TenantRepo) GetByID(ctx context.Context, id string) (*entity.Tenant, error) {
	pred, args := r.s.Predicate(tenantCols, 2)
	t, err := scanTenant(r.q.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants t WHERE t.id = $1 AND `+pred,
		append([]any{id}, args...)...))
	if err != nil {
		return nil, classify(err, "get tenant")
	}
	return t, nil
}

// List lista tenants visibles.
func (r *TenantRepo) List(ctx context.Context, limit, offset int) ([]*entity.Tenant, error) {
	limit, offset = pageArgs(limit, offset)
	pred, args := r.s.Predicate(tenantCols, 3)
	rows, err := r.q.Query(ctx, `SELECT `+tenantColumns+` FROM tenants t WHERE `+pred+
		` ORDER BY t.name, t.id LIMIT $1 OFFSET $2`, append([]any{limit, offset}, args...)...)
	if err != nil {
		return nil, classify(err, "list tenants")
	}
	defer rows.Close()

	var out []*entity.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateSubscription fija el estado almacenado y el fin de gracia.
func (r *TenantRepo) UpdateSubscription(ctx context.Context, id string, status subscription.Status, graceEndsAt *time.Time) (*entity.Tenant, error) {
	pred, args := r.s.Predicate(tenantCols, 4)
	query := `UPDATE tenants t SET subscription_status = $2, grace_ends_at = $3, updated_at = now()
		WHERE t.id = $1 AND ` + pred + ` RETURNING ` + tenantColumns
	t, err := scanTenant(r.q.QueryRow(ctx, query, append([]any{id, string(status), graceEndsAt}, args...)...))
	if err != nil {
		return nil, classify(err, "update tenant subscription")
	}
	return t, nil
}

// FindTenant lectura sin alcance para el gateway.
func (st *Store) FindTenant(ctx context.Context, id string) (*entity.Tenant, error) {
	t, err := scanTenant(st.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants t WHERE t.id = $1`, id))
	if err != nil {
		return nil, classify(err, "find tenant")
	}
	return t, nil
}

func scanTenant(row pgx.Row) (*entity.Tenant, error) {
	var (
		t      entity.Tenant
		status string
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Plan, &status, &t.GraceEndsAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	st, err := subscription.ParseStatus(status)
	if err != nil {
		// estado ilegible: se trata como bloqueado
		st = subscription.StatusLocked
	}
	t.SubscriptionStatus = st
	return &t, nil
}

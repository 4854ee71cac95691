package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
	"github.com/jhoicas/RetailOps-api/internal/domain/repository"
	"github.com/jhoicas/RetailOps-api/internal/domain/scope"
)

var (
	_ repository.UserRepository = (*UserRepo)(nil)
	_ repository.IdentityStore  = (*Store)(nil)
)

// UserRepo implementación de UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
	s scope.Scope
}

const userSelect = `
	SELECT u.id, COALESCE(u.tenant_id::text, ''), COALESCE(u.shop_id::text, ''), u.email, u.password_hash,
	       u.name, u.role, u.status, u.session_version, u.created_at, u.updated_at
	FROM users u`

// GetByID obtiene un usuario visible en el alcance.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	pred, args := r.s.Predicate(userCols, 2)
	u, err := scanUser(r.q.QueryRow(ctx, userSelect+` WHERE u.id = $1 AND `+pred, append([]any{id}, args...)...))
	if err != nil {
		return nil, classify(err, "get user")
	}
	return u, nil
}

// List lista usuarios visibles ordenados por nombre.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	limit, offset = pageArgs(limit, offset)
	pred, args := r.s.Predicate(userCols, 3)
	rows, err := r.q.Query(ctx, userSelect+` WHERE `+pred+` ORDER BY u.name, u.id LIMIT $1 OFFSET $2`,
		append([]any{limit, offset}, args...)...)
	if err != nil {
		return nil, classify(err, "list users")
	}
	defer rows.Close()

	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// FindUserByID busca sin alcance. Solo para resolver la identidad de un token.
func (st *Store) FindUserByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(st.pool.QueryRow(ctx, userSelect+` WHERE u.id = $1`, id))
	if err != nil {
		return nil, classify(err, "find user")
	}
	return u, nil
}

// FindUserByEmail busca sin alcance. Solo para el login.
func (st *Store) FindUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(st.pool.QueryRow(ctx, userSelect+` WHERE lower(u.email) = $1`,
		strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		return nil, classify(err, "find user by email")
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u    entity.User
		role string
	)
	err := row.Scan(&u.ID, &u.TenantID, &u.ShopID, &u.Email, &u.PasswordHash, &u.Name, &role,
		&u.Status, &u.SessionVersion, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r, err := entity.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", u.ID, err)
	}
	u.Role = r
	return &u, nil
}

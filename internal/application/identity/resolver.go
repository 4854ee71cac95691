// Package identity resuelve quién hace una solicitud a partir del token de sesión.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/RetailOps-api/internal/domain"
	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
	"github.com/jhoicas/RetailOps-api/pkg/jwt"
)

// UserLookup búsqueda de usuarios por id sin alcance.
type UserLookup interface {
	FindUserByID(ctx context.Context, id string) (*entity.User, error)
}

// Config parámetros de firma de tokens.
type Config struct {
	Secret     string
	Issuer     string
	ExpMinutes int
}

// Resolver valida tokens y carga la identidad desde el almacén.
type Resolver struct {
	users UserLookup
	cfg   Config
	now   func() time.Time
}

// NewResolver construye el resolver.
func NewResolver(users UserLookup, cfg Config) *Resolver {
	return &Resolver{users: users, cfg: cfg, now: time.Now}
}

// Resolve devuelve la identidad del token. Cualquier falla de credenciales es ErrUnauthenticated;
// los errores de almacenamiento se propagan tal cual.
func (r *Resolver) Resolve(ctx context.Context, token string) (*entity.Identity, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	userID, sv, err := jwt.Parse(r.cfg.Secret, r.cfg.Issuer, token, r.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	u, err := r.users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	if !u.IsActive() || u.SessionVersion != sv {
		return nil, domain.ErrUnauthenticated
	}
	// solo SUPER_ADMIN puede existir sin tenant
	if !u.Role.Valid() || (u.TenantID == "" && u.Role != entity.RoleSuperAdmin) {
		return nil, domain.ErrUnauthenticated
	}

	id := u.Identity()
	return &id, nil
}

// Issue firma un token para u con la versión de sesión vigente.
func (r *Resolver) Issue(u *entity.User) (string, time.Time, error) {
	return jwt.Generate(r.cfg.Secret, u.ID, u.SessionVersion, r.cfg.Issuer, r.cfg.ExpMinutes, r.now())
}

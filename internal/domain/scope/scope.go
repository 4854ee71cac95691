// Package scope define la visibilidad de datos de una identidad y la traduce a filtros de consulta.
package scope

import (
	"fmt"
	"strings"

	"github.com/jhoicas/RetailOps-api/internal/domain"
	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
)

// Mode modo de alcance.
type Mode int

const (
	// ModeTenant todas las filas del tenant (ADMIN, MANAGER, AUDITOR y SUPER_ADMIN con tenant).
	ModeTenant Mode = iota + 1
	// ModeShop roles de campo: filas de su tienda y registros propios.
	ModeShop
	// ModeCrossTenant sin filtro de tenant. Solo SUPER_ADMIN de plataforma, de forma explícita y auditada.
	ModeCrossTenant
)

func (m Mode) String() string {
	switch m {
	case ModeTenant:
		return "tenant"
	case ModeShop:
		return "shop"
	case ModeCrossTenant:
		return "cross_tenant"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Scope alcance de datos de una solicitud. Se construye solo desde una Identity resuelta.
type Scope struct {
	Mode     Mode
	TenantID string
	ShopID   string
	UserID   string
}

// ForIdentity construye el alcance de id.
// allowCrossTenant habilita el modo entre tenants para un SUPER_ADMIN sin tenant;
// sin esa habilitación explícita la solicitud se rechaza.
func ForIdentity(id entity.Identity, allowCrossTenant bool) (Scope, error) {
	if id.UserID == "" || !id.Role.Valid() {
		return Scope{}, domain.ErrUnauthenticated
	}
	switch {
	case id.Role == entity.RoleSuperAdmin && !id.HasTenant():
		if !allowCrossTenant {
			return Scope{}, fmt.Errorf("%w: la ruta no admite acceso entre tenants", domain.ErrForbidden)
		}
		return Scope{Mode: ModeCrossTenant, UserID: id.UserID}, nil
	case !id.HasTenant():
		return Scope{}, fmt.Errorf("%w: identidad sin tenant", domain.ErrForbidden)
	case id.Role.IsFieldClass():
		return Scope{Mode: ModeShop, TenantID: id.TenantID, ShopID: id.ShopID, UserID: id.UserID}, nil
	default:
		return Scope{Mode: ModeTenant, TenantID: id.TenantID, UserID: id.UserID}, nil
	}
}

// IsCrossTenant indica si el alcance no filtra por tenant.
func (s Scope) IsCrossTenant() bool {
	return s.Mode == ModeCrossTenant
}

// Columns columnas (con alias) que identifican al dueño de una fila. Vacío = la tabla no tiene esa columna.
type Columns struct {
	Tenant string
	Shop   string
	Owner  string
}

// Predicate devuelve la condición SQL que restringe filas al alcance y sus argumentos,
// numerados desde $argStart. Nunca devuelve una cadena vacía.
func (s Scope) Predicate(cols Columns, argStart int) (string, []any) {
	switch s.Mode {
	case ModeCrossTenant:
		return "TRUE", nil
	case ModeTenant, ModeShop:
	default:
		return "FALSE", nil
	}
	if cols.Tenant == "" || s.TenantID == "" {
		return "FALSE", nil
	}

	conds := []string{fmt.Sprintf("%s = $%d", cols.Tenant, argStart)}
	args := []any{s.TenantID}
	if s.Mode == ModeShop {
		switch {
		case cols.Owner != "":
			conds = append(conds, fmt.Sprintf("%s = $%d", cols.Owner, argStart+1))
			args = append(args, s.UserID)
		case cols.Shop != "" && s.ShopID != "":
			conds = append(conds, fmt.Sprintf("%s = $%d", cols.Shop, argStart+1))
			args = append(args, s.ShopID)
		default:
			return "FALSE", nil
		}
	}
	return strings.Join(conds, " AND "), args
}

// Owner dueño de una fila ya cargada. Campos vacíos = no aplica (igual que Columns).
type Owner struct {
	TenantID string
	ShopID   string
	UserID   string
}

// Permits es la versión en memoria de Predicate.
func (s Scope) Permits(o Owner) bool {
	switch s.Mode {
	case ModeCrossTenant:
		return true
	case ModeTenant, ModeShop:
	default:
		return false
	}
	if s.TenantID == "" || o.TenantID != s.TenantID {
		return false
	}
	if s.Mode == ModeTenant {
		return true
	}
	switch {
	case o.UserID != "":
		return o.UserID == s.UserID
	case o.ShopID != "":
		return s.ShopID != "" && o.ShopID == s.ShopID
	default:
		return false
	}
}

// StampTenant devuelve el tenant a asignar a una fila nueva.
// Fuera del modo entre tenants el valor pedido se ignora y se usa el del alcance.
func (s Scope) StampTenant(requested string) (string, error) {
	if s.Mode != ModeCrossTenant {
		if s.TenantID == "" {
			return "", domain.ErrForbidden
		}
		return s.TenantID, nil
	}
	if requested == "" {
		return "", domain.Invalid("tenant_id", "es obligatorio en modo plataforma")
	}
	return requested, nil
}

package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/RetailOps-api/internal/domain/repository"
	"github.com/jhoicas/RetailOps-api/internal/domain/scope"
)

var (
	_ repository.ScopedAccessor  = (*Accessor)(nil)
	_ repository.AccessorFactory = (*Store)(nil)
)

// Columnas de dueño por tabla (alias usados en las consultas de cada repo).
var (
	shopCols    = scope.Columns{Tenant: "s.tenant_id", Shop: "s.id"}
	productCols = scope.Columns{Tenant: "p.tenant_id", Shop: "p.shop_id"}
	saleCols    = scope.Columns{Tenant: "sa.tenant_id", Shop: "sa.shop_id", Owner: "sa.user_id"}
	userCols    = scope.Columns{Tenant: "u.tenant_id", Owner: "u.id"}
	tenantCols  = scope.Columns{Tenant: "t.id"}
)

// Accessor agrupa los repos filtrados por un Scope sobre un Querier (pool o tx).
type Accessor struct {
	q Querier
	s scope.Scope
}

func newAccessor(q Querier, s scope.Scope) *Accessor {
	return &Accessor{q: q, s: s}
}

func (a *Accessor) Scope() scope.Scope                      { return a.s }
func (a *Accessor) Shops() repository.ShopRepository       { return &ShopRepo{q: a.q, s: a.s} }
func (a *Accessor) Products() repository.ProductRepository { return &ProductRepo{q: a.q, s: a.s} }
func (a *Accessor) Sales() repository.SaleRepository       { return &SaleRepo{q: a.q, s: a.s} }
func (a *Accessor) Users() repository.UserRepository       { return &UserRepo{q: a.q, s: a.s} }
func (a *Accessor) Tenants() repository.TenantRepository   { return &TenantRepo{q: a.q, s: a.s} }

// Store punto de entrada sobre el pool: fabrica accessors y atiende las lecturas de sistema
// (identidad, tenant del gateway, auditoría) que no pasan por un alcance.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore construye el store con el pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Accessor devuelve un accessor sobre el pool para el alcance s.
func (st *Store) Accessor(s scope.Scope) repository.ScopedAccessor {
	return newAccessor(st.pool, s)
}

// pageArgs normaliza limit/offset.
func pageArgs(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

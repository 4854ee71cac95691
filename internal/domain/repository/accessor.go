package repository

import "github.com/jhoicas/RetailOps-api/internal/domain/scope"

// ScopedAccessor única vía de acceso a datos de tenant desde los handlers.
// Toda consulta queda filtrada por Scope(); un id ajeno al alcance responde ErrNotFound.
type ScopedAccessor interface {
	Scope() scope.Scope
	Shops() ShopRepository
	Products() ProductRepository
	Sales() SaleRepository
	Users() UserRepository
	Tenants() TenantRepository
}

// AccessorFactory construye accessors para un alcance ya resuelto.
type AccessorFactory interface {
	Accessor(s scope.Scope) ScopedAccessor
}

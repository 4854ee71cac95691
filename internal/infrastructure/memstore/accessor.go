package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/RetailOps-api/internal/domain"
	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
	"github.com/jhoicas/RetailOps-api/internal/domain/repository"
	"github.com/jhoicas/RetailOps-api/internal/domain/scope"
	"github.com/jhoicas/RetailOps-api/internal/domain/subscription"
)

// accessor repos filtrados por alcance. Con tx != nil las escrituras quedan pendientes hasta Commit.
type accessor struct {
	st *Store
	s  scope.Scope
	tx *tx
}

func (a *accessor) Scope() scope.Scope                      { return a.s }
func (a *accessor) Shops() repository.ShopRepository       { return shopRepo{a} }
func (a *accessor) Products() repository.ProductRepository { return productRepo{a} }
func (a *accessor) Sales() repository.SaleRepository       { return saleRepo{a} }
func (a *accessor) Users() repository.UserRepository       { return userRepo{a} }
func (a *accessor) Tenants() repository.TenantRepository   { return tenantRepo{a} }

func shopOwner(s *entity.Shop) scope.Owner {
	return scope.Owner{TenantID: s.TenantID, ShopID: s.ID}
}

func productOwner(p *entity.Product) scope.Owner {
	return scope.Owner{TenantID: p.TenantID, ShopID: p.ShopID}
}

func saleOwner(s *entity.Sale) scope.Owner {
	return scope.Owner{TenantID: s.TenantID, ShopID: s.ShopID, UserID: s.UserID}
}

func userOwner(u *entity.User) scope.Owner {
	return scope.Owner{TenantID: u.TenantID, UserID: u.ID}
}

// product copia con el stock pendiente de la transacción aplicado.
func (a *accessor) product(p *entity.Product) *entity.Product {
	cp := *p
	if a.tx != nil {
		if stock, ok := a.tx.stock[p.ID]; ok {
			cp.Stock = stock
		}
	}
	return &cp
}

type shopRepo struct{ a *accessor }

func (r shopRepo) Create(_ context.Context, shop *entity.Shop) error {
	tenantID, err := r.a.s.StampTenant(shop.TenantID)
	if err != nil {
		return err
	}
	st := r.a.st
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.tenants[tenantID]; !ok {
		return domain.Invalid("tenant_id", "tenant inexistente")
	}
	if _, ok := st.shops[shop.ID]; ok {
		return domain.ErrDuplicate
	}
	shop.TenantID = tenantID
	cp := *shop
	st.shops[shop.ID] = &cp
	return nil
}

func (r shopRepo) GetByID(_ context.Context, id string) (*entity.Shop, error) {
	st := r.a.st
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.shops[id]
	if !ok || !r.a.s.Permits(shopOwner(s)) {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r shopRepo) List(_ context.Context, limit, offset int) ([]*entity.Shop, error) {
	st := r.a.st
	st.mu.RLock()
	defer st.mu.RUnlock()
	var out []*entity.Shop
	for _, s := range st.shops {
		if r.a.s.Permits(shopOwner(s)) {
			cp := *s
			out = append(out, &cp)
		}
	}
	sortByName(out, func(s *entity.Shop) string { return s.Name }, func(s *entity.Shop) string { return s.ID })
	return page(out, limit, offset), nil
}

type productRepo struct{ a *accessor }

func (r productRepo) Create(_ context.Context, product *entity.Product) error {
	st := r.a.st
	st.mu.Lock()
	defer st.mu.Unlock()
	shop, ok := st.shops[product.ShopID]
	if !ok || !r.a.s.Permits(shopOwner(shop)) {
		return domain.ErrNotFound
	}
	for _, p := range st.products {
		if p.ShopID == product.ShopID && p.SKU == product.SKU {
			return domain.ErrDuplicate
		}
	}
	if product.Stock < 0 {
		return domain.Invalid("stock", "no puede ser negativo")
	}
	product.TenantID = shop.TenantID
	cp := *product
	st.products[product.ID] = &cp
	return nil
}

func (r productRepo) get(id string) (*entity.Product, error) {
	p, ok := r.a.st.products[id]
	if !ok || !r.a.s.Permits(productOwner(p)) {
		return nil, domain.ErrNotFound
	}
	return r.a.product(p), nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.a.st.mu.RLock()
	defer r.a.st.mu.RUnlock()
	return r.get(id)
}

func (r productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r productRepo) List(_ context.Context, shopID string, limit, offset int) ([]*entity.Product, error) {
	st := r.a.st
	st.mu.RLock()
	defer st.mu.RUnlock()
	var out []*entity.Product
	for _, p := range st.products {
		if (shopID == "" || p.ShopID == shopID) && r.a.s.Permits(productOwner(p)) {
			out = append(out, r.a.product(p))
		}
	}
	sortByName(out, func(p *entity.Product) string { return p.Name }, func(p *entity.Product) string { return p.ID })
	return page(out, limit, offset), nil
}

func (r productRepo) Restock(_ context.Context, id string, qty int) (*entity.Product, error) {
	if qty <= 0 {
		return nil, domain.Invalid("quantity", "debe ser mayor que 0")
	}
	st := r.a.st
	st.mu.Lock()
	defer st.mu.Unlock()
	p, err := r.get(id)
	if err != nil {
		return nil, err
	}
	p.Stock += qty
	p.UpdatedAt = time.Now().UTC()
	if r.a.tx != nil {
		r.a.tx.stock[id] = p.Stock
	} else {
		st.products[id].Stock = p.Stock
		st.products[id].UpdatedAt = p.UpdatedAt
	}
	return p, nil
}

func (r productRepo) DecrementStock(_ context.Context, id string, qty int) (int, error) {
	st := r.a.st
	st.mu.Lock()
	defer st.mu.Unlock()
	if err := st.failDecrement[id]; err != nil {
		return 0, err
	}
	p, err := r.get(id)
	if err != nil {
		return 0, err
	}
	if p.Stock < qty {
		return 0, &domain.InsufficientStockError{ProductID: id, Requested: qty, Available: p.Stock}
	}
	left := p.Stock - qty
	if r.a.tx != nil {
		r.a.tx.stock[id] = left
	} else {
		st.products[id].Stock = left
	}
	return left, nil
}

type saleRepo struct{ a *accessor }

func (r saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	st := r.a.st
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.failSaleCreate != nil {
		return st.failSaleCreate
	}
	if !r.a.s.Permits(scope.Owner{TenantID: sale.TenantID, ShopID: sale.ShopID}) {
		return domain.ErrNotFound
	}
	cp := *sale
	cp.Items = append([]entity.SaleItem(nil), sale.Items...)
	if r.a.tx != nil {
		r.a.tx.sales = append(r.a.tx.sales, &cp)
		return nil
	}
	st.sales[sale.ID] = &cp
	return nil
}

func (r saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	st := r.a.st
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sales[id]
	if !ok || !r.a.s.Permits(saleOwner(s)) {
		return nil, domain.ErrNotFound
	}
	cp := *s
	cp.Items = append([]entity.SaleItem(nil), s.Items...)
	return &cp, nil
}

func (r saleRepo) List(_ context.Context, limit, offset int) ([]*entity.Sale, error) {
	st := r.a.st
	st.mu.RLock()
	defer st.mu.RUnlock()
	var out []*entity.Sale
	for _, s := range st.sales {
		if r.a.s.Permits(saleOwner(s)) {
			cp := *s
			cp.Items = nil
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, limit, offset), nil
}

type userRepo struct{ a *accessor }

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	st := r.a.st
	st.mu.RLock()
	defer st.mu.RUnlock()
	u, ok := st.users[id]
	if !ok || !r.a.s.Permits(userOwner(u)) {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r userRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	st := r.a.st
	st.mu.RLock()
	defer st.mu.RUnlock()
	var out []*entity.User
	for _, u := range st.users {
		if r.a.s.Permits(userOwner(u)) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sortByName(out, func(u *entity.User) string { return u.Name }, func(u *entity.User) string { return u.ID })
	return page(out, limit, offset), nil
}

type tenantRepo struct{ a *accessor }

func (r tenantRepo) GetByID(_ context.Context, id string) (*entity.Tenant, error) {
	st := r.a.st
	st.mu.RLock()
	defer st.mu.RUnlock()
	t, ok := st.tenants[id]
	if !ok || !r.a.s.Permits(scope.Owner{TenantID: t.ID}) {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r tenantRepo) List(_ context.Context, limit, offset int) ([]*entity.Tenant, error) {
	st := r.a.st
	st.mu.RLock()
	defer st.mu.RUnlock()
	var out []*entity.Tenant
	for _, t := range st.tenants {
		if r.a.s.Permits(scope.Owner{TenantID: t.ID}) {
			cp := *t
			out = append(out, &cp)
		}
	}
	sortByName(out, func(t *entity.Tenant) string { return t.Name }, func(t *entity.Tenant) string { return t.ID })
	return page(out, limit, offset), nil
}

func (r tenantRepo) UpdateSubscription(_ context.Context, id string, status subscription.Status, graceEndsAt *time.Time) (*entity.Tenant, error) {
	st := r.a.st
	st.mu.Lock()
	defer st.mu.Unlock()
	t, ok := st.tenants[id]
	if !ok || !r.a.s.Permits(scope.Owner{TenantID: t.ID}) {
		return nil, domain.ErrNotFound
	}
	t.SubscriptionStatus = status
	t.GraceEndsAt = graceEndsAt
	t.UpdatedAt = time.Now().UTC()
	cp := *t
	return &cp, nil
}

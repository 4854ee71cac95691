// Package memstore implementa los puertos de persistencia en memoria con la misma
// semántica de alcance que el store PostgreSQL. Lo usan las pruebas de aplicación y del gateway.
package memstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/RetailOps-api/internal/application/sales"
	"github.com/jhoicas/RetailOps-api/internal/domain"
	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
	"github.com/jhoicas/RetailOps-api/internal/domain/repository"
	"github.com/jhoicas/RetailOps-api/internal/domain/scope"
)

var (
	_ repository.AccessorFactory = (*Store)(nil)
	_ repository.IdentityStore   = (*Store)(nil)
	_ repository.TenantDirectory = (*Store)(nil)
	_ repository.AuditRepository = (*Store)(nil)
	_ sales.UnitOfWork           = (*Store)(nil)
)

// Store datos en memoria. Las transacciones se serializan entre sí con el semáforo txSem,
// el equivalente a los bloqueos de fila de la versión PostgreSQL.
type Store struct {
	txSem chan struct{}
	mu    sync.RWMutex

	tenants  map[string]*entity.Tenant
	shops    map[string]*entity.Shop
	products map[string]*entity.Product
	users    map[string]*entity.User
	sales    map[string]*entity.Sale
	audit    []entity.AuditEvent

	// Inyección de fallos para pruebas.
	failDecrement   map[string]error
	failSaleCreate  error
	commitConflicts int
	failAudit       error
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		txSem:         make(chan struct{}, 1),
		tenants:       make(map[string]*entity.Tenant),
		shops:         make(map[string]*entity.Shop),
		products:      make(map[string]*entity.Product),
		users:         make(map[string]*entity.User),
		sales:         make(map[string]*entity.Sale),
		failDecrement: make(map[string]error),
	}
}

// AddTenant, AddShop, AddProduct y AddUser cargan datos sin pasar por el alcance.

func (st *Store) AddTenant(t entity.Tenant) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.tenants[t.ID] = &t
}

func (st *Store) AddShop(s entity.Shop) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.shops[s.ID] = &s
}

func (st *Store) AddProduct(p entity.Product) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.products[p.ID] = &p
}

func (st *Store) AddUser(u entity.User) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.users[u.ID] = &u
}

// Stock stock confirmado de un producto (-1 si no existe).
func (st *Store) Stock(productID string) int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if p, ok := st.products[productID]; ok {
		return p.Stock
	}
	return -1
}

// SaleCount ventas confirmadas.
func (st *Store) SaleCount() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sales)
}

// AuditEvents copia de los eventos registrados.
func (st *Store) AuditEvents() []entity.AuditEvent {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return append([]entity.AuditEvent(nil), st.audit...)
}

// FailDecrement hace fallar el descuento de stock de productID.
func (st *Store) FailDecrement(productID string, err error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.failDecrement[productID] = err
}

// FailSaleCreate hace fallar la inserción de ventas.
func (st *Store) FailSaleCreate(err error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.failSaleCreate = err
}

// CommitConflicts hace que los próximos n commits devuelvan domain.ErrTxConflict.
func (st *Store) CommitConflicts(n int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.commitConflicts = n
}

// FailAudit hace fallar el registro de auditoría.
func (st *Store) FailAudit(err error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.failAudit = err
}

// Accessor devuelve un accessor sin transacción para el alcance s.
func (st *Store) Accessor(s scope.Scope) repository.ScopedAccessor {
	return &accessor{st: st, s: s}
}

// Begin abre una transacción. Bloquea hasta que termine la anterior o ctx se cancele.
func (st *Store) Begin(ctx context.Context, s scope.Scope) (sales.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case st.txSem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	t := &tx{stock: make(map[string]int)}
	return &scopedTx{accessor: &accessor{st: st, s: s, tx: t}, t: t}, nil
}

// FindUserByID usuario por id sin alcance.
func (st *Store) FindUserByID(_ context.Context, id string) (*entity.User, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	u, ok := st.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// FindUserByEmail usuario por email (sin distinguir mayúsculas).
func (st *Store) FindUserByEmail(_ context.Context, email string) (*entity.User, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, u := range st.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// FindTenant tenant por id sin alcance.
func (st *Store) FindTenant(_ context.Context, id string) (*entity.Tenant, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	t, ok := st.tenants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

// Record guarda un evento de auditoría.
func (st *Store) Record(_ context.Context, ev *entity.AuditEvent) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.failAudit != nil {
		return st.failAudit
	}
	st.audit = append(st.audit, *ev)
	return nil
}

// tx cambios pendientes de una transacción.
type tx struct {
	stock map[string]int // stock resultante por producto
	sales []*entity.Sale
	done  bool
}

type scopedTx struct {
	*accessor
	t *tx
}

func (s *scopedTx) Commit(_ context.Context) error {
	if s.t.done {
		return errors.New("memstore: transacción cerrada")
	}
	st := s.st
	st.mu.Lock()
	if st.commitConflicts > 0 {
		st.commitConflicts--
		st.mu.Unlock()
		s.finish()
		return domain.ErrTxConflict
	}
	for id, stock := range s.t.stock {
		st.products[id].Stock = stock
	}
	for _, sale := range s.t.sales {
		st.sales[sale.ID] = sale
	}
	st.mu.Unlock()
	s.finish()
	return nil
}

func (s *scopedTx) Rollback(_ context.Context) error {
	if !s.t.done {
		s.finish()
	}
	return nil
}

func (s *scopedTx) finish() {
	s.t.done = true
	<-s.st.txSem
}

// page aplica limit/offset sobre un listado ya ordenado.
func page[T any](items []T, limit, offset int) []T {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func sortByName[T any](items []T, name func(T) string, id func(T) string) {
	sort.Slice(items, func(i, j int) bool {
		if ni, nj := name(items[i]), name(items[j]); ni != nj {
			return ni < nj
		}
		return id(items[i]) < id(items[j])
	})
}

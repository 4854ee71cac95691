package memstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/RetailOps-api/internal/domain"
	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
	"github.com/jhoicas/RetailOps-api/internal/domain/scope"
	"github.com/jhoicas/RetailOps-api/internal/infrastructure/memstore"
)

func fixture() *memstore.Store {
	st := memstore.New()
	st.AddTenant(entity.Tenant{ID: "t1"})
	st.AddTenant(entity.Tenant{ID: "t2"})
	st.AddShop(entity.Shop{ID: "s1", TenantID: "t1", Name: "Norte"})
	st.AddShop(entity.Shop{ID: "s2", TenantID: "t1", Name: "Sur"})
	st.AddShop(entity.Shop{ID: "s3", TenantID: "t2", Name: "Otra"})
	st.AddProduct(entity.Product{ID: "p1", TenantID: "t1", ShopID: "s1", SKU: "A", Name: "Agua", Stock: 5})
	st.AddProduct(entity.Product{ID: "p2", TenantID: "t1", ShopID: "s2", SKU: "B", Name: "Bebida", Stock: 5})
	st.AddProduct(entity.Product{ID: "p3", TenantID: "t2", ShopID: "s3", SKU: "C", Name: "Café", Stock: 5})
	return st
}

func TestAccessor_FiltraPorAlcance(t *testing.T) {
	st := fixture()
	ctx := context.Background()

	tenant := st.Accessor(scope.Scope{Mode: scope.ModeTenant, TenantID: "t1", UserID: "u"})
	shops, err := tenant.Shops().List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, shops, 2)

	shop := st.Accessor(scope.Scope{Mode: scope.ModeShop, TenantID: "t1", ShopID: "s1", UserID: "u"})
	products, err := shop.Products().List(ctx, "", 0, 0)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)

	_, err = shop.Products().GetByID(ctx, "p2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = tenant.Products().GetByID(ctx, "p3")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	cross := st.Accessor(scope.Scope{Mode: scope.ModeCrossTenant, UserID: "root"})
	products, err = cross.Products().List(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, products, 3)
}

func TestTx_RollbackDescartaCambios(t *testing.T) {
	st := fixture()
	ctx := context.Background()
	s := scope.Scope{Mode: scope.ModeTenant, TenantID: "t1", UserID: "u"}

	tx, err := st.Begin(ctx, s)
	require.NoError(t, err)
	left, err := tx.Products().DecrementStock(ctx, "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, left)

	// dentro de la transacción se ve el stock pendiente
	p, err := tx.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stock)
	_, err = tx.Products().DecrementStock(ctx, "p1", 3)
	var ise *domain.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, 2, ise.Available)

	assert.Equal(t, 5, st.Stock("p1"))
	require.NoError(t, tx.Rollback(ctx))
	assert.Equal(t, 5, st.Stock("p1"))

	// la siguiente transacción puede abrirse y confirmar
	tx, err = st.Begin(ctx, s)
	require.NoError(t, err)
	_, err = tx.Products().DecrementStock(ctx, "p1", 5)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))
	assert.Equal(t, 0, st.Stock("p1"))
	assert.Error(t, tx.Commit(ctx))
}

func TestTx_BeginRespetaCancelacion(t *testing.T) {
	st := fixture()
	s := scope.Scope{Mode: scope.ModeTenant, TenantID: "t1", UserID: "u"}

	held, err := st.Begin(context.Background(), s)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = st.Begin(ctx, s)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, held.Rollback(context.Background()))
	tx, err := st.Begin(context.Background(), s)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(context.Background()))
}

func TestTx_ConflictoEnCommit(t *testing.T) {
	st := fixture()
	ctx := context.Background()
	st.CommitConflicts(1)

	tx, err := st.Begin(ctx, scope.Scope{Mode: scope.ModeTenant, TenantID: "t1", UserID: "u"})
	require.NoError(t, err)
	_, err = tx.Products().DecrementStock(ctx, "p1", 1)
	require.NoError(t, err)
	assert.ErrorIs(t, tx.Commit(ctx), domain.ErrTxConflict)
	require.NoError(t, tx.Rollback(ctx))
	assert.Equal(t, 5, st.Stock("p1"))
}

func TestProductCreate_SKUUnicoPorTienda(t *testing.T) {
	st := fixture()
	ctx := context.Background()
	acc := st.Accessor(scope.Scope{Mode: scope.ModeTenant, TenantID: "t1", UserID: "u"})

	err := acc.Products().Create(ctx, &entity.Product{ID: "p9", ShopID: "s1", SKU: "A"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	p := &entity.Product{ID: "p9", ShopID: "s2", SKU: "A", TenantID: "t2"}
	require.NoError(t, acc.Products().Create(ctx, p))
	assert.Equal(t, "t1", p.TenantID)

	err = acc.Products().Create(ctx, &entity.Product{ID: "p10", ShopID: "s3", SKU: "Z"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

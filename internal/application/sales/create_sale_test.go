package sales_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/RetailOps-api/internal/application/sales"
	"github.com/jhoicas/RetailOps-api/internal/domain"
	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
	"github.com/jhoicas/RetailOps-api/internal/domain/scope"
	"github.com/jhoicas/RetailOps-api/internal/infrastructure/memstore"
)

const (
	shopLat = 4.6097
	shopLng = -74.0817
	// grados de latitud por metro (aprox.)
	degPerMeter = 1.0 / 111195.0
)

type recordingNotifier struct {
	mu     sync.Mutex
	events [][]entity.StockLevel
}

func (n *recordingNotifier) StockChanged(_ string, levels []entity.StockLevel) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, levels)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

func ptr[T any](v T) *T { return &v }

// fixture: tenant t1 con tienda s1 (geocerca 100 m) y s2 (sin coordenadas); tenant t2 con s3.
func newFixture() *memstore.Store {
	st := memstore.New()
	st.AddTenant(entity.Tenant{ID: "t1", Name: "Uno"})
	st.AddTenant(entity.Tenant{ID: "t2", Name: "Dos"})
	st.AddShop(entity.Shop{ID: "s1", TenantID: "t1", Name: "Centro", Latitude: ptr(shopLat), Longitude: ptr(shopLng), RadiusMeters: 100})
	st.AddShop(entity.Shop{ID: "s2", TenantID: "t1", Name: "Norte"})
	st.AddShop(entity.Shop{ID: "s3", TenantID: "t2", Name: "Ajena", Latitude: ptr(shopLat), Longitude: ptr(shopLng), RadiusMeters: 100})

	st.AddUser(entity.User{ID: "field", TenantID: "t1", ShopID: "s1", Role: entity.RoleFieldWorker, Status: entity.UserStatusActive, Name: "Ana"})
	st.AddUser(entity.User{ID: "field2", TenantID: "t1", ShopID: "s1", Role: entity.RoleFieldAgent, Status: entity.UserStatusActive, Name: "Luis"})
	st.AddUser(entity.User{ID: "mgr", TenantID: "t1", Role: entity.RoleManager, Status: entity.UserStatusActive, Name: "Marta"})
	st.AddUser(entity.User{ID: "other", TenantID: "t2", ShopID: "s3", Role: entity.RoleFieldWorker, Status: entity.UserStatusActive})

	st.AddProduct(entity.Product{ID: "p1", TenantID: "t1", ShopID: "s1", SKU: "A", Name: "Arroz", Price: decimal.NewFromInt(2500), Stock: 10})
	st.AddProduct(entity.Product{ID: "p2", TenantID: "t1", ShopID: "s1", SKU: "B", Name: "Café", Price: decimal.NewFromInt(12000), Stock: 5})
	st.AddProduct(entity.Product{ID: "p3", TenantID: "t1", ShopID: "s1", SKU: "C", Name: "Panela", Price: decimal.NewFromInt(3000), Stock: 1})
	st.AddProduct(entity.Product{ID: "p4", TenantID: "t2", ShopID: "s3", SKU: "A", Name: "Ajeno", Price: decimal.NewFromInt(1), Stock: 50})
	st.AddProduct(entity.Product{ID: "p5", TenantID: "t1", ShopID: "s2", SKU: "A", Name: "Norte", Price: decimal.NewFromInt(1), Stock: 50})
	return st
}

func identityOf(t *testing.T, st *memstore.Store, userID string) (entity.Identity, scope.Scope) {
	t.Helper()
	u, err := st.FindUserByID(context.Background(), userID)
	require.NoError(t, err)
	id := u.Identity()
	s, err := scope.ForIdentity(id, false)
	require.NoError(t, err)
	return id, s
}

func atShop(metersNorth float64) *sales.Location {
	return &sales.Location{Lat: shopLat + metersNorth*degPerMeter, Lng: shopLng}
}

func item(productID string, qty int, price int64) sales.ItemInput {
	return sales.ItemInput{ProductID: productID, Qty: qty, Price: decimal.NewFromInt(price)}
}

func newUseCase(st *memstore.Store, n sales.StockNotifier) *sales.CreateSaleUseCase {
	return sales.NewCreateSaleUseCase(st, n, sales.DefaultMaxRetries, zerolog.Nop())
}

func TestCreateSale_Exitosa(t *testing.T) {
	st := newFixture()
	n := &recordingNotifier{}
	id, s := identityOf(t, st, "field")

	sale, err := newUseCase(st, n).Execute(context.Background(), id, s, sales.SaleInput{
		ShopID:        "s1",
		Items:         []sales.ItemInput{item("p2", 1, 12000), item("p1", 2, 2500)},
		Location:      atShop(50),
		PaymentMethod: "cash",
		ClientTotal:   ptr(decimal.NewFromInt(17000)),
	})
	require.NoError(t, err)

	assert.Equal(t, "t1", sale.TenantID)
	assert.Equal(t, "field", sale.UserID)
	assert.Equal(t, entity.PaymentCash, sale.PaymentMethod)
	assert.True(t, decimal.NewFromInt(17000).Equal(sale.Total))
	require.Len(t, sale.Items, 2)
	assert.Equal(t, 1, sale.Items[0].Position)
	assert.Equal(t, "p2", sale.Items[0].ProductID)
	assert.Equal(t, 2, sale.Items[1].Position)
	assert.True(t, decimal.NewFromInt(5000).Equal(sale.Items[1].Subtotal))

	assert.Equal(t, 8, st.Stock("p1"))
	assert.Equal(t, 4, st.Stock("p2"))
	assert.Equal(t, 1, st.SaleCount())
	require.Equal(t, 1, n.count())
	assert.ElementsMatch(t, []entity.StockLevel{
		{ProductID: "p1", ShopID: "s1", Stock: 8},
		{ProductID: "p2", ShopID: "s1", Stock: 4},
	}, n.events[0])
}

func TestCreateSale_FalloEnTercerItemNoDejaRastro(t *testing.T) {
	st := newFixture()
	st.AddProduct(entity.Product{ID: "p9", TenantID: "t1", ShopID: "s1", SKU: "Z", Name: "Zanahoria", Stock: 9})
	st.FailDecrement("p9", errors.New("disk full"))
	n := &recordingNotifier{}
	id, s := identityOf(t, st, "field")

	_, err := newUseCase(st, n).Execute(context.Background(), id, s, sales.SaleInput{
		ShopID:        "s1",
		Items:         []sales.ItemInput{item("p1", 1, 2500), item("p2", 1, 12000), item("p9", 1, 800)},
		Location:      atShop(0),
		PaymentMethod: "CARD",
	})
	require.Error(t, err)
	assert.Equal(t, domain.CodeInternal, domain.CodeOf(err))

	assert.Equal(t, 10, st.Stock("p1"))
	assert.Equal(t, 5, st.Stock("p2"))
	assert.Equal(t, 9, st.Stock("p9"))
	assert.Zero(t, st.SaleCount())
	assert.Zero(t, n.count())
}

func TestCreateSale_FalloAlGuardarVentaRevierteStock(t *testing.T) {
	st := newFixture()
	st.FailSaleCreate(errors.New("insert sale: timeout"))
	id, s := identityOf(t, st, "field")

	_, err := newUseCase(st, nil).Execute(context.Background(), id, s, sales.SaleInput{
		ShopID:        "s1",
		Items:         []sales.ItemInput{item("p1", 3, 2500)},
		Location:      atShop(0),
		PaymentMethod: "CASH",
	})
	require.Error(t, err)
	assert.Equal(t, 10, st.Stock("p1"))
	assert.Zero(t, st.SaleCount())
}

func TestCreateSale_StockInsuficiente(t *testing.T) {
	st := newFixture()
	id, s := identityOf(t, st, "field")

	_, err := newUseCase(st, nil).Execute(context.Background(), id, s, sales.SaleInput{
		ShopID:        "s1",
		Items:         []sales.ItemInput{item("p1", 1, 2500), item("p3", 2, 3000)},
		Location:      atShop(0),
		PaymentMethod: "CASH",
	})

	var ise *domain.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, "p3", ise.ProductID)
	assert.Equal(t, 2, ise.Requested)
	assert.Equal(t, 1, ise.Available)
	assert.Equal(t, domain.CodeInsufficientStock, domain.CodeOf(err))
	assert.Equal(t, 10, st.Stock("p1"))
	assert.Equal(t, 1, st.Stock("p3"))
}

func TestCreateSale_LineasRepetidasSeSuman(t *testing.T) {
	st := newFixture()
	id, s := identityOf(t, st, "field")

	_, err := newUseCase(st, nil).Execute(context.Background(), id, s, sales.SaleInput{
		ShopID:        "s1",
		Items:         []sales.ItemInput{item("p1", 6, 2500), item("p1", 6, 2500)},
		Location:      atShop(0),
		PaymentMethod: "CASH",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, st.Stock("p1"))
}

func TestCreateSale_FueraDeGeocerca(t *testing.T) {
	st := newFixture()
	id, s := identityOf(t, st, "field")

	_, err := newUseCase(st, nil).Execute(context.Background(), id, s, sales.SaleInput{
		ShopID:        "s1",
		Items:         []sales.ItemInput{item("p1", 1, 2500)},
		Location:      atShop(500),
		PaymentMethod: "CASH",
	})
	assert.ErrorIs(t, err, domain.ErrGeofenceViolation)
	assert.Equal(t, domain.CodeGeofenceViolation, domain.CodeOf(err))
	assert.Equal(t, 10, st.Stock("p1"))
	assert.Zero(t, st.SaleCount())
}

func TestCreateSale_TiendaSinCoordenadasNoValidaGeocerca(t *testing.T) {
	st := newFixture()
	id, s := identityOf(t, st, "mgr")

	sale, err := newUseCase(st, nil).Execute(context.Background(), id, s, sales.SaleInput{
		ShopID:        "s2",
		Items:         []sales.ItemInput{item("p5", 1, 1)},
		Location:      &sales.Location{Lat: -33.45, Lng: -70.66},
		PaymentMethod: "TRANSFER",
	})
	require.NoError(t, err)
	assert.Equal(t, "s2", sale.ShopID)
	assert.Equal(t, 49, st.Stock("p5"))
}

func TestCreateSale_UbicacionObligatoria(t *testing.T) {
	st := newFixture()
	id, s := identityOf(t, st, "mgr")

	_, err := newUseCase(st, nil).Execute(context.Background(), id, s, sales.SaleInput{
		ShopID:        "s2",
		Items:         []sales.ItemInput{item("p5", 1, 1)},
		PaymentMethod: "CASH",
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "location", ve.Field)
}

func TestCreateSale_RecursosFueraDelAlcance(t *testing.T) {
	cases := []struct {
		name   string
		shopID string
		items  []sales.ItemInput
	}{
		{"tienda de otro tenant", "s3", []sales.ItemInput{item("p4", 1, 1)}},
		{"producto de otro tenant", "s1", []sales.ItemInput{item("p4", 1, 1)}},
		{"producto de otra tienda", "s1", []sales.ItemInput{item("p5", 1, 1)}},
		{"producto inexistente", "s1", []sales.ItemInput{item("nope", 1, 1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := newFixture()
			id, s := identityOf(t, st, "field")

			_, err := newUseCase(st, nil).Execute(context.Background(), id, s, sales.SaleInput{
				ShopID:        tc.shopID,
				Items:         tc.items,
				Location:      atShop(0),
				PaymentMethod: "CASH",
			})
			assert.ErrorIs(t, err, domain.ErrNotFound)
			assert.Equal(t, 50, st.Stock("p4"))
			assert.Equal(t, 50, st.Stock("p5"))
			assert.Zero(t, st.SaleCount())
		})
	}
}

func TestCreateSale_RolDeCampoNoVendePorOtro(t *testing.T) {
	st := newFixture()
	id, s := identityOf(t, st, "field")

	_, err := newUseCase(st, nil).Execute(context.Background(), id, s, sales.SaleInput{
		StaffID:       "field2",
		ShopID:        "s1",
		Items:         []sales.ItemInput{item("p1", 1, 2500)},
		Location:      atShop(0),
		PaymentMethod: "CASH",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 10, st.Stock("p1"))
}

func TestCreateSale_ManagerVendePorVendedor(t *testing.T) {
	st := newFixture()
	id, s := identityOf(t, st, "mgr")

	sale, err := newUseCase(st, nil).Execute(context.Background(), id, s, sales.SaleInput{
		StaffID:       "field2",
		ShopID:        "s1",
		Items:         []sales.ItemInput{item("p1", 1, 2500)},
		Location:      atShop(0),
		PaymentMethod: "MOBILE",
	})
	require.NoError(t, err)
	assert.Equal(t, "field2", sale.UserID)
}

func TestCreateSale_VendedorDeOtroTenant(t *testing.T) {
	st := newFixture()
	id, s := identityOf(t, st, "mgr")

	_, err := newUseCase(st, nil).Execute(context.Background(), id, s, sales.SaleInput{
		StaffID:       "other",
		ShopID:        "s1",
		Items:         []sales.ItemInput{item("p1", 1, 2500)},
		Location:      atShop(0),
		PaymentMethod: "CASH",
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "staff_id", ve.Field)
}

func TestCreateSale_TotalNoCoincide(t *testing.T) {
	st := newFixture()
	id, s := identityOf(t, st, "field")

	_, err := newUseCase(st, nil).Execute(context.Background(), id, s, sales.SaleInput{
		ShopID:        "s1",
		Items:         []sales.ItemInput{item("p1", 2, 2500)},
		Location:      atShop(0),
		PaymentMethod: "CASH",
		ClientTotal:   ptr(decimal.NewFromInt(4000)),
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "total", ve.Field)
	assert.Equal(t, 10, st.Stock("p1"))
}

func TestCreateSale_EntradasInvalidas(t *testing.T) {
	st := newFixture()
	id, s := identityOf(t, st, "field")
	uc := newUseCase(st, nil)

	cases := map[string]sales.SaleInput{
		"items":          {ShopID: "s1", Location: atShop(0), PaymentMethod: "CASH"},
		"items[0].qty":   {ShopID: "s1", Items: []sales.ItemInput{item("p1", 0, 1)}, Location: atShop(0), PaymentMethod: "CASH"},
		"items[0].price": {ShopID: "s1", Items: []sales.ItemInput{item("p1", 1, -1)}, Location: atShop(0), PaymentMethod: "CASH"},
		"payment_method": {ShopID: "s1", Items: []sales.ItemInput{item("p1", 1, 1)}, Location: atShop(0), PaymentMethod: "BITCOIN"},
		"location":       {ShopID: "s1", Items: []sales.ItemInput{item("p1", 1, 1)}, Location: &sales.Location{Lat: 91}, PaymentMethod: "CASH"},
	}
	for field, in := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), id, s, in)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, field, ve.Field)
		})
	}
}

func TestCreateSale_MontosFueraDeEscala(t *testing.T) {
	st := newFixture()
	id, s := identityOf(t, st, "field")
	uc := newUseCase(st, nil)
	priced := func(price string, qty int) sales.ItemInput {
		return sales.ItemInput{ProductID: "p1", Qty: qty, Price: decimal.RequireFromString(price)}
	}

	cases := []struct {
		name  string
		field string
		items []sales.ItemInput
	}{
		{"tres decimales", "items[1].price", []sales.ItemInput{priced("0.01", 1), priced("0.005", 1)}},
		{"precio al tope", "items[0].price", []sales.ItemInput{priced("1000000000000", 1)}},
		{"total desborda", "total", []sales.ItemInput{priced("999999999999.99", 2)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), id, s, sales.SaleInput{
				ShopID: "s1", Items: tc.items, Location: atShop(0), PaymentMethod: "CASH",
			})
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
			assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
		})
	}
	assert.Equal(t, 10, st.Stock("p1"))
	assert.Zero(t, st.SaleCount())
}

func TestCreateSale_ReintentaConflictos(t *testing.T) {
	st := newFixture()
	st.CommitConflicts(2)
	id, s := identityOf(t, st, "field")

	_, err := newUseCase(st, nil).Execute(context.Background(), id, s, sales.SaleInput{
		ShopID:        "s1",
		Items:         []sales.ItemInput{item("p1", 1, 2500)},
		Location:      atShop(0),
		PaymentMethod: "CASH",
	})
	require.NoError(t, err)
	assert.Equal(t, 9, st.Stock("p1"))
	assert.Equal(t, 1, st.SaleCount())
}

func TestCreateSale_ConflictoPersistente(t *testing.T) {
	st := newFixture()
	st.CommitConflicts(10)
	id, s := identityOf(t, st, "field")

	_, err := newUseCase(st, nil).Execute(context.Background(), id, s, sales.SaleInput{
		ShopID:        "s1",
		Items:         []sales.ItemInput{item("p1", 1, 2500)},
		Location:      atShop(0),
		PaymentMethod: "CASH",
	})
	assert.ErrorIs(t, err, domain.ErrTxConflict)
	assert.Equal(t, domain.CodeConflict, domain.CodeOf(err))
	assert.Equal(t, 10, st.Stock("p1"))
	assert.Zero(t, st.SaleCount())
}

// memstore serializa transacciones completas; el camino FOR UPDATE de PostgreSQL
// lo cubre TestCreateSale_PostgresConcurrenciaRespetaStock (tag integration).
func TestCreateSale_ConcurrenciaNuncaDejaStockNegativo(t *testing.T) {
	st := newFixture()
	id, s := identityOf(t, st, "field")
	uc := newUseCase(st, nil)

	var ok, rejected atomic.Int32
	var g errgroup.Group
	for i := 0; i < 25; i++ {
		g.Go(func() error {
			_, err := uc.Execute(context.Background(), id, s, sales.SaleInput{
				ShopID:        "s1",
				Items:         []sales.ItemInput{item("p1", 1, 2500)},
				Location:      atShop(10),
				PaymentMethod: "CASH",
			})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(10), ok.Load())
	assert.Equal(t, int32(15), rejected.Load())
	assert.Equal(t, 0, st.Stock("p1"))
	assert.Equal(t, 10, st.SaleCount())
}

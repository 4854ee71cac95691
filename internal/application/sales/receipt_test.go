package sales_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/RetailOps-api/internal/application/dto"
	"github.com/jhoicas/RetailOps-api/internal/application/sales"
	"github.com/jhoicas/RetailOps-api/internal/domain"
	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
)

type captureRenderer struct {
	got *sales.Receipt
}

func (c *captureRenderer) RenderSaleReceipt(_ context.Context, r *sales.Receipt) ([]byte, error) {
	c.got = r
	return []byte("%PDF-"), nil
}

func TestReceipt_ArmaDatosDelComprobante(t *testing.T) {
	st := newFixture()
	id, s := identityOf(t, st, "field")
	sale, err := newUseCase(st, nil).Execute(context.Background(), id, s, sales.SaleInput{
		ShopID:        "s1",
		Items:         []sales.ItemInput{item("p1", 1, 2500), item("p2", 1, 12000)},
		Location:      atShop(0),
		PaymentMethod: "CASH",
	})
	require.NoError(t, err)

	r := &captureRenderer{}
	pdf, err := sales.NewReceiptUseCase(r).Render(context.Background(), st.Accessor(s), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-"), pdf)
	require.NotNil(t, r.got)
	assert.Equal(t, "Centro", r.got.Shop.Name)
	assert.Equal(t, "Ana", r.got.StaffName)
	assert.Equal(t, map[string]string{"p1": "Arroz", "p2": "Café"}, r.got.ProductNames)
	assert.Len(t, r.got.Sale.Items, 2)
}

func TestReceipt_VendedorTrasladadoConservaSusComprobantes(t *testing.T) {
	st := newFixture()
	id, s := identityOf(t, st, "field")
	sale, err := newUseCase(st, nil).Execute(context.Background(), id, s, sales.SaleInput{
		ShopID:        "s1",
		Items:         []sales.ItemInput{item("p1", 1, 2500)},
		Location:      atShop(0),
		PaymentMethod: "CASH",
	})
	require.NoError(t, err)

	st.AddUser(entity.User{ID: "field", TenantID: "t1", ShopID: "s2", Role: entity.RoleFieldWorker, Status: entity.UserStatusActive, Name: "Ana"})
	_, moved := identityOf(t, st, "field")
	require.Equal(t, "s2", moved.ShopID)

	r := &captureRenderer{}
	_, err = sales.NewReceiptUseCase(r).Render(context.Background(), st.Accessor(moved), sale.ID)
	require.NoError(t, err)
	require.NotNil(t, r.got.Shop)
	assert.Equal(t, "s1", r.got.Shop.ID)
	assert.Equal(t, "s1", r.got.Shop.Name)
	assert.Empty(t, r.got.Shop.Address)
	assert.Equal(t, "p1", r.got.ProductNames["p1"])
}

func TestReceipt_VentaAjenaNoEncontrada(t *testing.T) {
	st := newFixture()
	id, s := identityOf(t, st, "field")
	sale, err := newUseCase(st, nil).Execute(context.Background(), id, s, sales.SaleInput{
		ShopID:        "s1",
		Items:         []sales.ItemInput{item("p1", 1, 2500)},
		Location:      atShop(0),
		PaymentMethod: "CASH",
	})
	require.NoError(t, err)

	// otro vendedor de la misma tienda no ve ventas ajenas
	_, s2 := identityOf(t, st, "field2")
	_, err = sales.NewReceiptUseCase(&captureRenderer{}).Render(context.Background(), st.Accessor(s2), sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// de otro tenant tampoco
	_, s3 := identityOf(t, st, "other")
	_, err = sales.GetSale(context.Background(), st.Accessor(s3), sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListSales_FiltraPorAlcance(t *testing.T) {
	st := newFixture()
	uc := newUseCase(st, nil)
	for _, user := range []string{"field", "field2", "field"} {
		id, s := identityOf(t, st, user)
		_, err := uc.Execute(context.Background(), id, s, sales.SaleInput{
			ShopID:        "s1",
			Items:         []sales.ItemInput{item("p1", 1, 2500)},
			Location:      atShop(0),
			PaymentMethod: "CASH",
		})
		require.NoError(t, err)
	}

	_, fieldScope := identityOf(t, st, "field")
	list, err := sales.ListSales(context.Background(), st.Accessor(fieldScope), dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, list.Page.Count)
	for _, it := range list.Items {
		assert.Equal(t, "field", it.StaffID)
	}

	_, mgrScope := identityOf(t, st, "mgr")
	list, err = sales.ListSales(context.Background(), st.Accessor(mgrScope), dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, list.Page.Count)
	assert.Equal(t, 2, list.Page.Limit)
}

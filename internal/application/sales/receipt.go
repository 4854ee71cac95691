package sales

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/RetailOps-api/internal/domain"
	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
	"github.com/jhoicas/RetailOps-api/internal/domain/repository"
)

// Receipt datos que necesita el comprobante de una venta.
type Receipt struct {
	Sale         *entity.Sale
	Shop         *entity.Shop
	StaffName    string
	ProductNames map[string]string
	IssuedAt     time.Time
}

// ReceiptUseCase arma y renderiza el comprobante de una venta visible en el alcance.
type ReceiptUseCase struct {
	renderer ReceiptRenderer
	now      func() time.Time
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(renderer ReceiptRenderer) *ReceiptUseCase {
	return &ReceiptUseCase{renderer: renderer, now: time.Now}
}

// Render devuelve el PDF del comprobante de saleID.
func (uc *ReceiptUseCase) Render(ctx context.Context, acc repository.ScopedAccessor, saleID string) ([]byte, error) {
	sale, err := acc.Sales().GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	// un vendedor trasladado sigue viendo sus ventas pero no la tienda anterior
	shop, err := acc.Shops().GetByID(ctx, sale.ShopID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		shop = &entity.Shop{ID: sale.ShopID, TenantID: sale.TenantID, Name: sale.ShopID}
	case err != nil:
		return nil, err
	}

	r := &Receipt{
		Sale:         sale,
		Shop:         shop,
		ProductNames: make(map[string]string, len(sale.Items)),
		IssuedAt:     uc.now(),
	}
	// el vendedor puede no ser visible para el alcance; el comprobante sale sin nombre
	if staff, err := acc.Users().GetByID(ctx, sale.UserID); err == nil {
		r.StaffName = staff.Name
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	for _, it := range sale.Items {
		if _, ok := r.ProductNames[it.ProductID]; ok {
			continue
		}
		p, err := acc.Products().GetByID(ctx, it.ProductID)
		switch {
		case err == nil:
			r.ProductNames[it.ProductID] = p.Name
		case errors.Is(err, domain.ErrNotFound):
			r.ProductNames[it.ProductID] = it.ProductID
		default:
			return nil, err
		}
	}
	return uc.renderer.RenderSaleReceipt(ctx, r)
}

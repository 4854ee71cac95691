package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/RetailOps-api/internal/domain"
	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
	"github.com/jhoicas/RetailOps-api/internal/domain/geofence"
	"github.com/jhoicas/RetailOps-api/internal/domain/scope"
)

// DefaultMaxRetries reintentos ante conflictos de serialización o deadlock.
const DefaultMaxRetries = 3

// ItemInput línea solicitada.
type ItemInput struct {
	ProductID string
	Qty       int
	Price     decimal.Decimal
}

// Location ubicación reportada por el dispositivo.
type Location struct {
	Lat float64
	Lng float64
}

// SaleInput solicitud de venta ya decodificada.
type SaleInput struct {
	StaffID       string // vacío = el propio usuario
	ShopID        string
	Items         []ItemInput
	Location      *Location
	PaymentMethod string
	ClientTotal   *decimal.Decimal
}

// CreateSaleUseCase registra una venta: geocerca, reserva de stock y persistencia en una sola transacción.
type CreateSaleUseCase struct {
	uow        UnitOfWork
	notifier   StockNotifier
	maxRetries int
	now        func() time.Time
	log        zerolog.Logger
}

// NewCreateSaleUseCase construye el caso de uso. notifier puede ser nil.
func NewCreateSaleUseCase(uow UnitOfWork, notifier StockNotifier, maxRetries int, log zerolog.Logger) *CreateSaleUseCase {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &CreateSaleUseCase{
		uow:        uow,
		notifier:   notifier,
		maxRetries: maxRetries,
		now:        time.Now,
		log:        log,
	}
}

// validated entrada normalizada lista para la transacción.
type validated struct {
	staffID  string
	shopID   string
	items    []ItemInput
	loc      Location
	method   entity.PaymentMethod
	total    decimal.Decimal
	perItem  map[string]int // cantidad total por producto
	sortedID []string       // orden de bloqueo
}

// Execute registra la venta para la identidad id dentro del alcance s.
// Ante cualquier error no queda rastro: ni venta ni cambios de stock.
func (uc *CreateSaleUseCase) Execute(ctx context.Context, id entity.Identity, s scope.Scope, in SaleInput) (*entity.Sale, error) {
	v, err := uc.validate(id, in)
	if err != nil {
		return nil, err
	}

	var (
		sale   *entity.Sale
		levels []entity.StockLevel
	)
	for attempt := 0; ; attempt++ {
		sale, levels, err = uc.run(ctx, s, v)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrTxConflict) || attempt >= uc.maxRetries || ctx.Err() != nil {
			return nil, err
		}
		uc.log.Warn().Err(err).Int("attempt", attempt+1).Str("shop_id", v.shopID).Msg("venta: conflicto de concurrencia, reintentando")
	}

	if uc.notifier != nil && len(levels) > 0 {
		uc.notifier.StockChanged(sale.TenantID, levels)
	}
	return sale, nil
}

func (uc *CreateSaleUseCase) validate(id entity.Identity, in SaleInput) (*validated, error) {
	if in.ShopID == "" {
		return nil, domain.Invalid("shop_id", "es obligatorio")
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalid("items", "debe tener al menos un ítem")
	}
	if in.Location == nil {
		return nil, domain.Invalid("location", "es obligatoria")
	}
	if !geofence.ValidCoordinates(in.Location.Lat, in.Location.Lng) {
		return nil, domain.Invalid("location", "coordenadas fuera de rango")
	}
	method, err := entity.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, domain.Invalid("payment_method", err.Error())
	}

	staffID := in.StaffID
	if staffID == "" {
		staffID = id.UserID
	}
	// los roles de campo solo venden a su nombre
	if id.Role.IsFieldClass() && staffID != id.UserID {
		return nil, fmt.Errorf("%w: un rol de campo no puede registrar ventas de otro usuario", domain.ErrForbidden)
	}

	v := &validated{
		staffID: staffID,
		shopID:  in.ShopID,
		items:   in.Items,
		loc:     *in.Location,
		method:  method,
		perItem: make(map[string]int, len(in.Items)),
	}
	for i, it := range in.Items {
		if it.ProductID == "" {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].product_id", i), "es obligatorio")
		}
		if it.Qty <= 0 {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].qty", i), "debe ser mayor que 0")
		}
		if err := entity.CheckAmount(it.Price); err != nil {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].price", i), err.Error())
		}
		v.total = v.total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Qty))))
		v.perItem[it.ProductID] += it.Qty
	}
	if err := entity.CheckAmount(v.total); err != nil {
		return nil, domain.Invalid("total", err.Error())
	}
	if in.ClientTotal != nil && !in.ClientTotal.Equal(v.total) {
		return nil, domain.Invalid("total", fmt.Sprintf("no coincide con la suma de los ítems (%s)", v.total.StringFixed(2)))
	}

	v.sortedID = make([]string, 0, len(v.perItem))
	for pid := range v.perItem {
		v.sortedID = append(v.sortedID, pid)
	}
	sort.Strings(v.sortedID)
	return v, nil
}

// run un intento completo dentro de una transacción.
func (uc *CreateSaleUseCase) run(ctx context.Context, s scope.Scope, v *validated) (*entity.Sale, []entity.StockLevel, error) {
	tx, err := uc.uow.Begin(ctx, s)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	shop, err := uc.checkGeofence(ctx, tx, v)
	if err != nil {
		return nil, nil, err
	}
	if err := uc.checkStaff(ctx, tx, v, shop); err != nil {
		return nil, nil, err
	}
	levels, err := uc.reserveStock(ctx, tx, shop, v)
	if err != nil {
		return nil, nil, err
	}
	sale, err := uc.persistSale(ctx, tx, shop, v)
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return sale, levels, nil
}

// checkGeofence carga la tienda dentro del alcance y valida la ubicación.
// Una tienda sin coordenadas no tiene geocerca.
func (uc *CreateSaleUseCase) checkGeofence(ctx context.Context, tx Tx, v *validated) (*entity.Shop, error) {
	shop, err := tx.Shops().GetByID(ctx, v.shopID)
	if err != nil {
		return nil, err
	}
	if !shop.HasGeofence() {
		return shop, nil
	}
	if !geofence.WithinRadius(v.loc.Lat, v.loc.Lng, *shop.Latitude, *shop.Longitude, shop.RadiusMeters) {
		return nil, domain.ErrGeofenceViolation
	}
	return shop, nil
}

// checkStaff valida que el vendedor exista en el alcance y pertenezca al tenant de la tienda.
func (uc *CreateSaleUseCase) checkStaff(ctx context.Context, tx Tx, v *validated, shop *entity.Shop) error {
	staff, err := tx.Users().GetByID(ctx, v.staffID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Invalid("staff_id", "vendedor inexistente")
		}
		return err
	}
	if staff.TenantID != shop.TenantID || !staff.IsActive() {
		return domain.Invalid("staff_id", "vendedor no habilitado para esta tienda")
	}
	return nil
}

// reserveStock bloquea los productos en orden de id, verifica el stock completo y luego descuenta.
// Nada se descuenta si algún producto no alcanza.
func (uc *CreateSaleUseCase) reserveStock(ctx context.Context, tx Tx, shop *entity.Shop, v *validated) ([]entity.StockLevel, error) {
	products := make(map[string]*entity.Product, len(v.sortedID))
	for _, pid := range v.sortedID {
		p, err := tx.Products().GetForUpdate(ctx, pid)
		if err != nil {
			return nil, err
		}
		if p.ShopID != shop.ID {
			return nil, domain.ErrNotFound
		}
		if want := v.perItem[pid]; p.Stock < want {
			return nil, &domain.InsufficientStockError{ProductID: pid, Requested: want, Available: p.Stock}
		}
		products[pid] = p
	}

	levels := make([]entity.StockLevel, 0, len(v.sortedID))
	for _, pid := range v.sortedID {
		left, err := tx.Products().DecrementStock(ctx, pid, v.perItem[pid])
		if err != nil {
			var ise *domain.InsufficientStockError
			if errors.As(err, &ise) {
				ise.Available = products[pid].Stock
			}
			return nil, err
		}
		levels = append(levels, entity.StockLevel{ProductID: pid, ShopID: shop.ID, Stock: left})
	}
	return levels, nil
}

// persistSale construye la venta con ítems en el orden recibido y la guarda.
func (uc *CreateSaleUseCase) persistSale(ctx context.Context, tx Tx, shop *entity.Shop, v *validated) (*entity.Sale, error) {
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		TenantID:      shop.TenantID,
		ShopID:        shop.ID,
		UserID:        v.staffID,
		Total:         v.total,
		PaymentMethod: v.method,
		Latitude:      v.loc.Lat,
		Longitude:     v.loc.Lng,
		CreatedAt:     uc.now().UTC(),
		Items:         make([]entity.SaleItem, 0, len(v.items)),
	}
	for i, it := range v.items {
		sale.Items = append(sale.Items, entity.SaleItem{
			SaleID:    sale.ID,
			Position:  i + 1,
			ProductID: it.ProductID,
			Quantity:  it.Qty,
			UnitPrice: it.Price,
			Subtotal:  it.Price.Mul(decimal.NewFromInt(int64(it.Qty))),
		})
	}
	if err := tx.Sales().Create(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

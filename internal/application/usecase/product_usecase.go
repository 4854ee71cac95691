package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/RetailOps-api/internal/application/dto"
	"github.com/jhoicas/RetailOps-api/internal/domain"
	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
	"github.com/jhoicas/RetailOps-api/internal/domain/repository"
)

// StockNotifier recibe niveles de stock tras una reposición.
type StockNotifier interface {
	StockChanged(tenantID string, levels []entity.StockLevel)
}

// ProductUseCase alta, consulta y reposición de productos. El stock solo baja por ventas.
type ProductUseCase struct {
	notifier StockNotifier
	now      func() time.Time
}

// NewProductUseCase construye el caso de uso. notifier puede ser nil.
func NewProductUseCase(notifier StockNotifier) *ProductUseCase {
	return &ProductUseCase{notifier: notifier, now: time.Now}
}

// Create crea un producto en una tienda visible del alcance.
func (uc *ProductUseCase) Create(ctx context.Context, acc repository.ScopedAccessor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := entity.CheckAmount(in.Price); err != nil {
		return nil, domain.Invalid("price", err.Error())
	}
	if in.InitialStock < 0 {
		return nil, domain.Invalid("initial_stock", "no puede ser negativo")
	}
	now := uc.now().UTC()
	product := &entity.Product{
		ID:        uuid.New().String(),
		ShopID:    in.ShopID,
		SKU:       in.SKU,
		Name:      in.Name,
		Price:     in.Price,
		Stock:     in.InitialStock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := acc.Products().Create(ctx, product); err != nil {
		return nil, err
	}
	out := dto.ProductFromEntity(product)
	return &out, nil
}

// Get obtiene un producto.
func (uc *ProductUseCase) Get(ctx context.Context, acc repository.ScopedAccessor, id string) (*dto.ProductResponse, error) {
	p, err := acc.Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.ProductFromEntity(p)
	return &out, nil
}

// List lista productos; shopID opcional.
func (uc *ProductUseCase) List(ctx context.Context, acc repository.ScopedAccessor, shopID string, page dto.PageRequest) (dto.ListResponse[dto.ProductResponse], error) {
	page.DefaultPage()
	list, err := acc.Products().List(ctx, shopID, page.Limit, page.Offset)
	if err != nil {
		return dto.ListResponse[dto.ProductResponse]{}, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ProductFromEntity(p))
	}
	return dto.NewList(out, page), nil
}

// Restock suma stock y publica el nuevo nivel.
func (uc *ProductUseCase) Restock(ctx context.Context, acc repository.ScopedAccessor, id string, in dto.RestockRequest) (*dto.ProductResponse, error) {
	if in.Quantity <= 0 {
		return nil, domain.Invalid("quantity", "debe ser mayor que 0")
	}
	p, err := acc.Products().Restock(ctx, id, in.Quantity)
	if err != nil {
		return nil, err
	}
	if uc.notifier != nil {
		uc.notifier.StockChanged(p.TenantID, []entity.StockLevel{{ProductID: p.ID, ShopID: p.ShopID, Stock: p.Stock}})
	}
	out := dto.ProductFromEntity(p)
	return &out, nil
}

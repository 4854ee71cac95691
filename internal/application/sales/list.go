package sales

import (
	"context"

	"github.com/jhoicas/RetailOps-api/internal/application/dto"
	"github.com/jhoicas/RetailOps-api/internal/domain/repository"
)

// ListSales ventas visibles en el alcance (cabeceras).
func ListSales(ctx context.Context, acc repository.ScopedAccessor, page dto.PageRequest) (dto.ListResponse[dto.SaleResponse], error) {
	page.DefaultPage()
	list, err := acc.Sales().List(ctx, page.Limit, page.Offset)
	if err != nil {
		return dto.ListResponse[dto.SaleResponse]{}, err
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.SaleFromEntity(s))
	}
	return dto.NewList(out, page), nil
}

// GetSale venta con ítems.
func GetSale(ctx context.Context, acc repository.ScopedAccessor, id string) (*dto.SaleResponse, error) {
	s, err := acc.Sales().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.SaleFromEntity(s)
	return &out, nil
}

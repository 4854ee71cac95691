package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/RetailOps-api/internal/application/dto"
	"github.com/jhoicas/RetailOps-api/internal/domain"
	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
	"github.com/jhoicas/RetailOps-api/internal/domain/geofence"
	"github.com/jhoicas/RetailOps-api/internal/domain/repository"
)

// DefaultShopRadiusMeters radio de geocerca cuando no se indica.
const DefaultShopRadiusMeters = 100.0

// ShopUseCase alta y consulta de tiendas.
type ShopUseCase struct {
	now func() time.Time
}

// NewShopUseCase construye el caso de uso.
func NewShopUseCase() *ShopUseCase {
	return &ShopUseCase{now: time.Now}
}

// Create crea una tienda. El tenant lo decide el alcance.
func (uc *ShopUseCase) Create(ctx context.Context, acc repository.ScopedAccessor, in dto.CreateShopRequest) (*dto.ShopResponse, error) {
	if (in.Latitude == nil) != (in.Longitude == nil) {
		return nil, domain.Invalid("latitude", "latitud y longitud van juntas")
	}
	if in.Latitude != nil && !geofence.ValidCoordinates(*in.Latitude, *in.Longitude) {
		return nil, domain.Invalid("latitude", "coordenadas fuera de rango")
	}
	radius := DefaultShopRadiusMeters
	if in.RadiusMeters != nil {
		if *in.RadiusMeters < 0 {
			return nil, domain.Invalid("radius_meters", "no puede ser negativo")
		}
		radius = *in.RadiusMeters
	}
	now := uc.now().UTC()
	shop := &entity.Shop{
		ID:           uuid.New().String(),
		TenantID:     in.TenantID,
		Name:         strings.TrimSpace(in.Name),
		Address:      strings.TrimSpace(in.Address),
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		RadiusMeters: radius,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := acc.Shops().Create(ctx, shop); err != nil {
		return nil, err
	}
	out := dto.ShopFromEntity(shop)
	return &out, nil
}

// Get obtiene una tienda.
func (uc *ShopUseCase) Get(ctx context.Context, acc repository.ScopedAccessor, id string) (*dto.ShopResponse, error) {
	s, err := acc.Shops().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.ShopFromEntity(s)
	return &out, nil
}

// List lista tiendas.
func (uc *ShopUseCase) List(ctx context.Context, acc repository.ScopedAccessor, page dto.PageRequest) (dto.ListResponse[dto.ShopResponse], error) {
	page.DefaultPage()
	list, err := acc.Shops().List(ctx, page.Limit, page.Offset)
	if err != nil {
		return dto.ListResponse[dto.ShopResponse]{}, err
	}
	out := make([]dto.ShopResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.ShopFromEntity(s))
	}
	return dto.NewList(out, page), nil
}

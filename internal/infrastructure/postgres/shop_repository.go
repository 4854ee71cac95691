package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
	"github.com/jhoicas/RetailOps-api/internal/domain/repository"
	"github.com/jhoicas/RetailOps-api/internal/domain/scope"
)

var _ repository.ShopRepository = (*ShopRepo)(nil)

// ShopRepo implementación de ShopRepository sobre PostgreSQL.
type ShopRepo struct {
	q Querier
	s scope.Scope
}

const shopSelect = `
	SELECT s.id, s.tenant_id, s.name, s.address, s.latitude, s.longitude, s.radius_meters, s.created_at, s.updated_at
	FROM shops s`

// Create persiste una tienda. El tenant lo fija el alcance.
func (r *ShopRepo) Create(ctx context.Context, shop *entity.Shop) error {
	tenantID, err := r.s.StampTenant(shop.TenantID)
	if err != nil {
		return err
	}
	shop.TenantID = tenantID
	query := `
		INSERT INTO shops (id, tenant_id, name, address, latitude, longitude, radius_meters, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.q.Exec(ctx, query,
		shop.ID, shop.TenantID, shop.Name, shop.Address, shop.Latitude, shop.Longitude,
		shop.RadiusMeters, shop.CreatedAt, shop.UpdatedAt,
	)
	return classify(err, "insert shop")
}

// GetByID obtiene una tienda visible en el alcance.
func (r *ShopRepo) GetByID(ctx context.Context, id string) (*entity.Shop, error) {
	pred, args := r.s.Predicate(shopCols, 2)
	query := shopSelect + ` WHERE s.id = $1 AND ` + pred
	shop, err := scanShop(r.q.QueryRow(ctx, query, append([]any{id}, args...)...))
	if err != nil {
		return nil, classify(err, "get shop")
	}
	return shop, nil
}

// List lista tiendas visibles ordenadas por nombre.
func (r *ShopRepo) List(ctx context.Context, limit, offset int) ([]*entity.Shop, error) {
	limit, offset = pageArgs(limit, offset)
	pred, args := r.s.Predicate(shopCols, 3)
	query := shopSelect + ` WHERE ` + pred + ` ORDER BY s.name, s.id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, append([]any{limit, offset}, args...)...)
	if err != nil {
		return nil, classify(err, "list shops")
	}
	defer rows.Close()

	var out []*entity.Shop
	for rows.Next() {
		shop, err := scanShop(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shop: %w", err)
		}
		out = append(out, shop)
	}
	return out, rows.Err()
}

func scanShop(row pgx.Row) (*entity.Shop, error) {
	var s entity.Shop
	err := row.Scan(&s.ID, &s.TenantID, &s.Name, &s.Address, &s.Latitude, &s.Longitude,
		&s.RadiusMeters, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

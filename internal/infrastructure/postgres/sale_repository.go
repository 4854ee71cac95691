package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
	"github.com/jhoicas/RetailOps-api/internal/domain/repository"
	"github.com/jhoicas/RetailOps-api/internal/domain/scope"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
	s scope.Scope
}

const saleSelect = `
	SELECT sa.id, sa.tenant_id, sa.shop_id, sa.user_id, sa.total, sa.payment_method,
	       sa.latitude, sa.longitude, sa.created_at
	FROM sales sa`

// Create persiste cabecera e ítems. Debe ejecutarse dentro de la transacción de la venta.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	tenantID, err := r.s.StampTenant(sale.TenantID)
	if err != nil {
		return err
	}
	sale.TenantID = tenantID

	_, err = r.q.Exec(ctx, `
		INSERT INTO sales (id, tenant_id, shop_id, user_id, total, payment_method, latitude, longitude, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sale.ID, sale.TenantID, sale.ShopID, sale.UserID, sale.Total, string(sale.PaymentMethod),
		sale.Latitude, sale.Longitude, sale.CreatedAt,
	)
	if err != nil {
		return classify(err, "insert sale")
	}

	for _, it := range sale.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (sale_id, position, product_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			sale.ID, it.Position, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal,
		)
		if err != nil {
			return classify(err, fmt.Sprintf("insert sale item %d", it.Position))
		}
	}
	return nil
}

// GetByID obtiene una venta visible en el alcance con sus ítems.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	pred, args := r.s.Predicate(saleCols, 2)
	query := saleSelect + ` WHERE sa.id = $1 AND ` + pred
	sale, err := scanSale(r.q.QueryRow(ctx, query, append([]any{id}, args...)...))
	if err != nil {
		return nil, classify(err, "get sale")
	}

	rows, err := r.q.Query(ctx, `
		SELECT sale_id, position, product_id, quantity, unit_price, subtotal
		FROM sale_items WHERE sale_id = $1 ORDER BY position`, sale.ID)
	if err != nil {
		return nil, classify(err, "list sale items")
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.SaleID, &it.Position, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		sale.Items = append(sale.Items, it)
	}
	return sale, rows.Err()
}

// List lista ventas visibles, más recientes primero.
func (r *SaleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Sale, error) {
	limit, offset = pageArgs(limit, offset)
	pred, args := r.s.Predicate(saleCols, 3)
	query := saleSelect + ` WHERE ` + pred + ` ORDER BY sa.created_at DESC, sa.id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, append([]any{limit, offset}, args...)...)
	if err != nil {
		return nil, classify(err, "list sales")
	}
	defer rows.Close()

	var out []*entity.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, sale)
	}
	return out, rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var (
		s  entity.Sale
		pm string
	)
	err := row.Scan(&s.ID, &s.TenantID, &s.ShopID, &s.UserID, &s.Total, &pm, &s.Latitude, &s.Longitude, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.PaymentMethod = entity.PaymentMethod(pm)
	return &s, nil
}

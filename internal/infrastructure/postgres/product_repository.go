package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/RetailOps-api/internal/domain"
	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
	"github.com/jhoicas/RetailOps-api/internal/domain/repository"
	"github.com/jhoicas/RetailOps-api/internal/domain/scope"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
	s scope.Scope
}

const productColumns = `p.id, p.tenant_id, p.shop_id, p.sku, p.name, p.price, p.stock, p.created_at, p.updated_at`

// Create persiste un producto. Tenant y tienda salen de la fila de la tienda, que debe ser visible en el alcance.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	pred, args := r.s.Predicate(shopCols, 8)
	query := `
		INSERT INTO products (id, tenant_id, shop_id, sku, name, price, stock, created_at, updated_at)
		SELECT $1, s.tenant_id, s.id, $3, $4, $5, $6, $7, $7
		FROM shops s
		WHERE s.id = $2 AND ` + pred + `
		RETURNING tenant_id`
	params := append([]any{
		product.ID, product.ShopID, product.SKU, product.Name, product.Price, product.Stock, product.CreatedAt,
	}, args...)
	if err := r.q.QueryRow(ctx, query, params...).Scan(&product.TenantID); err != nil {
		// sin filas = la tienda no existe o no es visible
		return classify(err, "insert product")
	}
	product.UpdatedAt = product.CreatedAt
	return nil
}

// GetByID obtiene un producto visible en el alcance.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	pred, args := r.s.Predicate(productCols, 2)
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1 AND ` + pred
	p, err := scanProduct(r.q.QueryRow(ctx, query, append([]any{id}, args...)...))
	if err != nil {
		return nil, classify(err, "get product")
	}
	return p, nil
}

// GetForUpdate obtiene el producto y bloquea la fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	pred, args := r.s.Predicate(productCols, 2)
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1 AND ` + pred + ` FOR UPDATE`
	p, err := scanProduct(r.q.QueryRow(ctx, query, append([]any{id}, args...)...))
	if err != nil {
		return nil, classify(err, "get product for update")
	}
	return p, nil
}

// List lista productos visibles; shopID vacío = todas las tiendas del alcance.
func (r *ProductRepo) List(ctx context.Context, shopID string, limit, offset int) ([]*entity.Product, error) {
	limit, offset = pageArgs(limit, offset)
	pred, args := r.s.Predicate(productCols, 4)
	query := `SELECT ` + productColumns + ` FROM products p
		WHERE ($3::text = '' OR p.shop_id::text = $3::text) AND ` + pred + `
		ORDER BY p.name, p.id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, append([]any{limit, offset, shopID}, args...)...)
	if err != nil {
		return nil, classify(err, "list products")
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Restock suma qty al stock.
func (r *ProductRepo) Restock(ctx context.Context, id string, qty int) (*entity.Product, error) {
	if qty <= 0 {
		return nil, domain.Invalid("quantity", "debe ser mayor que 0")
	}
	pred, args := r.s.Predicate(productCols, 3)
	query := `UPDATE products p SET stock = p.stock + $2, updated_at = now()
		WHERE p.id = $1 AND ` + pred + `
		RETURNING ` + productColumns
	p, err := scanProduct(r.q.QueryRow(ctx, query, append([]any{id, qty}, args...)...))
	if err != nil {
		return nil, classify(err, "restock product")
	}
	return p, nil
}

// DecrementStock resta qty solo si el stock alcanza. La condición stock >= qty va en el propio UPDATE.
func (r *ProductRepo) DecrementStock(ctx context.Context, id string, qty int) (int, error) {
	if qty <= 0 {
		return 0, domain.Invalid("quantity", "debe ser mayor que 0")
	}
	pred, args := r.s.Predicate(productCols, 3)
	query := `UPDATE products p SET stock = p.stock - $2, updated_at = now()
		WHERE p.id = $1 AND p.stock >= $2 AND ` + pred + `
		RETURNING p.stock`
	var stock int
	err := r.q.QueryRow(ctx, query, append([]any{id, qty}, args...)...).Scan(&stock)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.Is(err, pgx.ErrNoRows) ||
			(errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation) {
			return 0, &domain.InsufficientStockError{ProductID: id, Requested: qty}
		}
		return 0, classify(err, "decrement stock")
	}
	return stock, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.TenantID, &p.ShopID, &p.SKU, &p.Name, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

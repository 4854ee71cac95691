package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/RetailOps-api/internal/application/sales"
	"github.com/jhoicas/RetailOps-api/internal/domain/scope"
)

var _ sales.UnitOfWork = (*UnitOfWork)(nil)

// UnitOfWork abre transacciones PostgreSQL con los repos del alcance atados a la tx.
type UnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork construye la unidad de trabajo con el pool.
func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

// Begin inicia una transacción READ COMMITTED. Los bloqueos de fila (FOR UPDATE) serializan el stock.
func (u *UnitOfWork) Begin(ctx context.Context, s scope.Scope) (sales.Tx, error) {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &scopedTx{Accessor: newAccessor(tx, s), tx: tx}, nil
}

type scopedTx struct {
	*Accessor
	tx pgx.Tx
}

func (t *scopedTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return classify(err, "commit transaction")
	}
	return nil
}

func (t *scopedTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

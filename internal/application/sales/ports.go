package sales

import (
	"context"

	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
	"github.com/jhoicas/RetailOps-api/internal/domain/repository"
	"github.com/jhoicas/RetailOps-api/internal/domain/scope"
)

// Tx transacción con los repos filtrados por alcance atados a ella.
// Rollback después de Commit no hace nada.
type Tx interface {
	repository.ScopedAccessor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UnitOfWork abre transacciones para un alcance.
type UnitOfWork interface {
	Begin(ctx context.Context, s scope.Scope) (Tx, error)
}

// StockNotifier recibe los niveles de stock tras un commit.
type StockNotifier interface {
	StockChanged(tenantID string, levels []entity.StockLevel)
}

// ReceiptRenderer genera el comprobante de una venta.
type ReceiptRenderer interface {
	RenderSaleReceipt(ctx context.Context, r *Receipt) ([]byte, error)
}

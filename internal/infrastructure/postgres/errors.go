package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/RetailOps-api/internal/domain"
)

// classify traduce errores de pgx/PostgreSQL a errores de dominio. op etiqueta la operación.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
			return fmt.Errorf("%s: %w", op, domain.ErrTxConflict)
		case pgerrcode.InvalidTextRepresentation:
			// un id que no es UUID no puede existir
			return domain.ErrNotFound
		case pgerrcode.ForeignKeyViolation:
			return domain.Invalid(pgErr.ConstraintName, "referencia inexistente")
		case pgerrcode.CheckViolation:
			return domain.Invalid(pgErr.ConstraintName, "viola una restricción")
		case pgerrcode.NumericValueOutOfRange:
			return domain.Invalid(pgErr.ColumnName, "valor numérico fuera de rango")
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

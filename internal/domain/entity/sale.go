package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod medio de pago de una venta.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentCard     PaymentMethod = "CARD"
	PaymentTransfer PaymentMethod = "TRANSFER"
	PaymentMobile   PaymentMethod = "MOBILE"
)

// ParsePaymentMethod interpreta el medio de pago recibido.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch pm := PaymentMethod(strings.ToUpper(strings.TrimSpace(s))); pm {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentMobile:
		return pm, nil
	default:
		return "", fmt.Errorf("medio de pago desconocido %q", s)
	}
}

// maxAmount cota exclusiva de los montos persistidos como NUMERIC(14,2).
var maxAmount = decimal.New(1, 12)

// CheckAmount valida que d quepa en una columna monetaria: no negativo, a lo sumo dos decimales y menor que 10^12.
func CheckAmount(d decimal.Decimal) error {
	switch {
	case d.IsNegative():
		return errors.New("no puede ser negativo")
	case !d.Equal(d.Round(2)):
		return errors.New("admite como máximo dos decimales")
	case d.GreaterThanOrEqual(maxAmount):
		return errors.New("excede el máximo permitido")
	}
	return nil
}

// Sale venta registrada. Total = Σ subtotales de Items.
type Sale struct {
	ID            string
	TenantID      string
	ShopID        string
	UserID        string // vendedor
	Total         decimal.Decimal
	PaymentMethod PaymentMethod
	Latitude      float64
	Longitude     float64
	CreatedAt     time.Time
	Items         []SaleItem
}

// SaleItem línea de una venta.
type SaleItem struct {
	SaleID    string
	Position  int
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

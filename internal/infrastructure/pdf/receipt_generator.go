// Package pdf genera el comprobante de venta en PDF.
//
// Layout (ticket A5):
//
//	TIENDA + dirección        │  N° venta + fecha
//	vendedor / medio de pago
//	Cant │ Producto │ P.Unit │ Subtotal
//	TOTAL
//	QR de verificación
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/RetailOps-api/internal/application/sales"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ sales.ReceiptRenderer = (*ReceiptGenerator)(nil)

// ReceiptGenerator implementa sales.ReceiptRenderer usando Maroto v2.
type ReceiptGenerator struct {
	appName string
}

// NewReceiptGenerator construye el generador. appName aparece como autor del documento.
func NewReceiptGenerator(appName string) *ReceiptGenerator {
	return &ReceiptGenerator{appName: appName}
}

// RenderSaleReceipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) RenderSaleReceipt(_ context.Context, r *sales.Receipt) ([]byte, error) {
	if r == nil || r.Sale == nil || r.Shop == nil {
		return nil, fmt.Errorf("pdf: comprobante incompleto")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de venta", true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(detailsRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(r)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(r.Sale.Total))
	m.AddRows(line.NewRow(3))
	m.AddRows(qrRow(r))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(r *sales.Receipt) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(r.Shop.Name, props.Text{Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(r.Shop.Address, "—"), props.Text{Size: 8, Top: 8, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("VENTA N° "+shortID(r.Sale.ID), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1}),
			text.New("Fecha: "+r.Sale.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func detailsRow(r *sales.Receipt) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Vendedor: %s   |   Pago: %s",
				nonEmpty(r.StaffName, "—"), string(r.Sale.PaymentMethod),
			), props.Text{Size: 8, Top: 2, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 1,
		}))
	}
	return row.New(6).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 6, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

func itemRows(r *sales.Receipt) []core.Row {
	rows := make([]core.Row, 0, len(r.Sale.Items))
	for _, it := range r.Sale.Items {
		rows = append(rows, row.New(6).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(nonEmpty(r.ProductNames[it.ProductID], it.ProductID), props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(formatMoney(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(3).Add(text.New(formatMoney(it.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return rows
}

func totalRow(total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(7),
		col.New(2).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
		col.New(3).Add(text.New(formatMoney(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
	)
}

func qrRow(r *sales.Receipt) core.Row {
	return row.New(34).Add(
		col.New(4).Add(code.NewQr(verificationPayload(r), props.Rect{Percent: 95, Center: true})),
		col.New(8).Add(
			text.New("Escanea el código para verificar\neste comprobante.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Emitido: "+r.IssuedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 7, Top: 18, Left: 3, Color: colorGray,
			}),
		),
	)
}

// verificationPayload contenido del QR: id de venta, tienda y total.
func verificationPayload(r *sales.Receipt) string {
	return fmt.Sprintf("retailops:sale:%s;shop:%s;total:%s", r.Sale.ID, r.Shop.ID, r.Sale.Total.StringFixed(2))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

// formatMoney formatea con puntos de miles y coma decimal. Ej: 1234567.5 -> "$1.234.567,50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "$" + string(buf) + "," + frac
}

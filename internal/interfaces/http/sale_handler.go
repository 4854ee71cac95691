package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/RetailOps-api/internal/application/dto"
	"github.com/jhoicas/RetailOps-api/internal/application/sales"
)

// SaleHandler ventas y comprobantes.
type SaleHandler struct {
	create  *sales.CreateSaleUseCase
	receipt *sales.ReceiptUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(create *sales.CreateSaleUseCase, receipt *sales.ReceiptUseCase) *SaleHandler {
	return &SaleHandler{create: create, receipt: receipt}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Valida geocerca y stock, descuenta y persiste la venta en una sola transacción.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Venta"
// @Success      201   {object}  dto.Envelope{data=dto.SaleResponse}
// @Failure      400   {object}  dto.Envelope
// @Failure      403   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx, rc *RequestContext) (int, any, error) {
	var in dto.CreateSaleRequest
	if err := bind(c, &in); err != nil {
		return 0, nil, err
	}
	items := make([]sales.ItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, sales.ItemInput{ProductID: it.ProductID, Qty: it.Qty, Price: it.Price})
	}
	var loc *sales.Location
	if in.Latitude != nil && in.Longitude != nil {
		loc = &sales.Location{Lat: *in.Latitude, Lng: *in.Longitude}
	}

	sale, err := h.create.Execute(c.UserContext(), rc.Identity, rc.Scope, sales.SaleInput{
		StaffID:       in.StaffID,
		ShopID:        in.ShopID,
		Items:         items,
		Location:      loc,
		PaymentMethod: in.PaymentMethod,
		ClientTotal:   in.Total,
	})
	if err != nil {
		return 0, nil, err
	}
	return fiber.StatusCreated, dto.SaleFromEntity(sale), nil
}

// GetByID godoc
// @Summary      Obtener venta con ítems
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.Envelope{data=dto.SaleResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx, rc *RequestContext) (int, any, error) {
	out, err := sales.GetSale(c.UserContext(), rc.Accessor, c.Params("id"))
	if err != nil {
		return 0, nil, err
	}
	return fiber.StatusOK, out, nil
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.Envelope
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx, rc *RequestContext) (int, any, error) {
	page, err := pageOf(c)
	if err != nil {
		return 0, nil, err
	}
	out, err := sales.ListSales(c.UserContext(), rc.Accessor, page)
	if err != nil {
		return 0, nil, err
	}
	return fiber.StatusOK, out, nil
}

// Receipt godoc
// @Summary      Comprobante PDF de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.Envelope
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx, rc *RequestContext) (int, any, error) {
	id := c.Params("id")
	pdf, err := h.receipt.Render(c.UserContext(), rc.Accessor, id)
	if err != nil {
		return 0, nil, err
	}
	return fiber.StatusOK, &Attachment{
		ContentType: "application/pdf",
		Filename:    "venta-" + id + ".pdf",
		Body:        pdf,
	}, nil
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/RetailOps-api/internal/application/dto"
	"github.com/jhoicas/RetailOps-api/internal/application/usecase"
)

// ProductHandler productos y reposición de stock.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.Envelope{data=dto.ProductResponse}
// @Failure      400   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx, rc *RequestContext) (int, any, error) {
	var in dto.CreateProductRequest
	if err := bind(c, &in); err != nil {
		return 0, nil, err
	}
	out, err := h.uc.Create(c.UserContext(), rc.Accessor, in)
	if err != nil {
		return 0, nil, err
	}
	return fiber.StatusCreated, out, nil
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.Envelope{data=dto.ProductResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx, rc *RequestContext) (int, any, error) {
	out, err := h.uc.Get(c.UserContext(), rc.Accessor, c.Params("id"))
	if err != nil {
		return 0, nil, err
	}
	return fiber.StatusOK, out, nil
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        shop_id  query  string  false  "Filtrar por tienda"
// @Param        limit    query  int     false  "Límite"  default(20)
// @Param        offset   query  int     false  "Offset"  default(0)
// @Success      200      {object}  dto.Envelope
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx, rc *RequestContext) (int, any, error) {
	page, err := pageOf(c)
	if err != nil {
		return 0, nil, err
	}
	out, err := h.uc.List(c.UserContext(), rc.Accessor, c.Query("shop_id"), page)
	if err != nil {
		return 0, nil, err
	}
	return fiber.StatusOK, out, nil
}

// Restock godoc
// @Summary      Reponer stock
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del producto"
// @Param        body  body  dto.RestockRequest  true  "Cantidad a sumar"
// @Success      200   {object}  dto.Envelope{data=dto.ProductResponse}
// @Failure      404   {object}  dto.Envelope
// @Router       /api/products/{id}/restock [post]
func (h *ProductHandler) Restock(c *fiber.Ctx, rc *RequestContext) (int, any, error) {
	var in dto.RestockRequest
	if err := bind(c, &in); err != nil {
		return 0, nil, err
	}
	out, err := h.uc.Restock(c.UserContext(), rc.Accessor, c.Params("id"), in)
	if err != nil {
		return 0, nil, err
	}
	return fiber.StatusOK, out, nil
}

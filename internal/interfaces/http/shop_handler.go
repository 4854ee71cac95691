package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/RetailOps-api/internal/application/dto"
	"github.com/jhoicas/RetailOps-api/internal/application/usecase"
)

// ShopHandler tiendas.
type ShopHandler struct {
	uc *usecase.ShopUseCase
}

// NewShopHandler construye el handler.
func NewShopHandler(uc *usecase.ShopUseCase) *ShopHandler {
	return &ShopHandler{uc: uc}
}

// Create godoc
// @Summary      Crear tienda
// @Tags         shops
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateShopRequest  true  "Datos de la tienda"
// @Success      201   {object}  dto.Envelope{data=dto.ShopResponse}
// @Failure      400   {object}  dto.Envelope
// @Failure      403   {object}  dto.Envelope
// @Router       /api/shops [post]
func (h *ShopHandler) Create(c *fiber.Ctx, rc *RequestContext) (int, any, error) {
	var in dto.CreateShopRequest
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
// @Summary      Obtener tienda
// @Tags         shops
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tienda"
// @Success      200  {object}  dto.Envelope{data=dto.ShopResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/shops/{id} [get]
func (h *ShopHandler) GetByID(c *fiber.Ctx, rc *RequestContext) (int, any, error) {
	out, err := h.uc.Get(c.UserContext(), rc.Accessor, c.Params("id"))
	if err != nil {
		return 0, nil, err
	}
	return fiber.StatusOK, out, nil
}

// List godoc
// @Summary      Listar tiendas
// @Tags         shops
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.Envelope
// @Router       /api/shops [get]
func (h *ShopHandler) List(c *fiber.Ctx, rc *RequestContext) (int, any, error) {
	page, err := pageOf(c)
	if err != nil {
		return 0, nil, err
	}
	out, err := h.uc.List(c.UserContext(), rc.Accessor, page)
	if err != nil {
		return 0, nil, err
	}
	return fiber.StatusOK, out, nil
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/RetailOps-api/internal/application/dto"
	"github.com/jhoicas/RetailOps-api/internal/application/usecase"
)

// TenantHandler administración de tenants (plataforma).
type TenantHandler struct {
	uc *usecase.TenantUseCase
}

// NewTenantHandler construye el handler.
func NewTenantHandler(uc *usecase.TenantUseCase) *TenantHandler {
	return &TenantHandler{uc: uc}
}

// List godoc
// @Summary      Listar tenants
// @Tags         tenants
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.Envelope
// @Failure      403     {object}  dto.Envelope
// @Router       /api/tenants [get]
func (h *TenantHandler) List(c *fiber.Ctx, rc *RequestContext) (int, any, error) {
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

// UpdateSubscription godoc
// @Summary      Cambiar estado de suscripción
// @Tags         tenants
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID del tenant"
// @Param        body  body  dto.UpdateSubscriptionRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.Envelope{data=dto.TenantResponse}
// @Failure      400   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Router       /api/tenants/{id}/subscription [put]
func (h *TenantHandler) UpdateSubscription(c *fiber.Ctx, rc *RequestContext) (int, any, error) {
	var in dto.UpdateSubscriptionRequest
	if err := bind(c, &in); err != nil {
		return 0, nil, err
	}
	out, err := h.uc.UpdateSubscription(c.UserContext(), rc.Accessor, c.Params("id"), in)
	if err != nil {
		return 0, nil, err
	}
	return fiber.StatusOK, out, nil
}

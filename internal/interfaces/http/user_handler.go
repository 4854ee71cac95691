package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/RetailOps-api/internal/application/usecase"
)

// UserHandler usuarios del tenant.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// GetByID godoc
// @Summary      Obtener usuario
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.Envelope{data=dto.UserResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx, rc *RequestContext) (int, any, error) {
	out, err := h.uc.Get(c.UserContext(), rc.Accessor, c.Params("id"))
	if err != nil {
		return 0, nil, err
	}
	return fiber.StatusOK, out, nil
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.Envelope
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx, rc *RequestContext) (int, any, error) {
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

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/RetailOps-api/internal/application/auth"
	"github.com/jhoicas/RetailOps-api/internal/application/dto"
	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
)

// AuthHandler login y datos de la sesión actual.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.Envelope{data=dto.LoginResponse}
// @Failure      401   {object}  dto.Envelope
// @Failure      429   {object}  dto.Envelope
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx, _ *RequestContext) (int, any, error) {
	var in dto.LoginRequest
	if err := bind(c, &in); err != nil {
		return 0, nil, err
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return 0, nil, err
	}
	return fiber.StatusOK, out, nil
}

// Me godoc
// @Summary      Identidad y suscripción de la sesión
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Envelope{data=dto.MeResponse}
// @Failure      401  {object}  dto.Envelope
// @Router       /api/me [get]
func (h *AuthHandler) Me(_ *fiber.Ctx, rc *RequestContext) (int, any, error) {
	id := rc.Identity
	return fiber.StatusOK, dto.MeResponse{
		User: dto.UserResponse{
			ID:       id.UserID,
			TenantID: id.TenantID,
			ShopID:   id.ShopID,
			Email:    id.Email,
			Name:     id.Name,
			Role:     string(id.Role),
			Status:   entity.UserStatusActive,
		},
		Subscription: string(rc.Subscription),
		Scope:        rc.Scope.Mode.String(),
	}, nil
}

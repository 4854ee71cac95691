package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger comprueba la base de datos (*pgxpool.Pool lo cumple).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler liveness con ping a la base.
type HealthHandler struct {
	db      Pinger
	service string
}

// NewHealthHandler construye el handler.
func NewHealthHandler(db Pinger, service string) *HealthHandler {
	return &HealthHandler{db: db, service: service}
}

// Health godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.Envelope
// @Failure      500  {object}  dto.Envelope
// @Router       /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx, _ *RequestContext) (int, any, error) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			return 0, nil, err
		}
	}
	return fiber.StatusOK, fiber.Map{"status": "ok", "service": h.service}, nil
}

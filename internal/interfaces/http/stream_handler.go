package http

import (
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/RetailOps-api/internal/domain/scope"
	"github.com/jhoicas/RetailOps-api/internal/infrastructure/realtime"
)

// hubTimeout espera máxima para altas y bajas en el hub.
const hubTimeout = 5 * time.Second

// StockSubscriber registro de conexiones con el alcance de cada una.
type StockSubscriber interface {
	Subscribe(ctx context.Context, sc scope.Scope, c realtime.Conn) error
	Unsubscribe(ctx context.Context, sc scope.Scope, c realtime.Conn)
}

// StreamHandler feed websocket de cambios de stock dentro del alcance del usuario.
type StreamHandler struct {
	hub StockSubscriber
	log zerolog.Logger
}

// NewStreamHandler construye el handler.
func NewStreamHandler(hub StockSubscriber, log zerolog.Logger) *StreamHandler {
	return &StreamHandler{hub: hub, log: log}
}

// RequireUpgrade rechaza solicitudes que no piden websocket.
func RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Stream godoc
// @Summary      Feed de stock en tiempo real (websocket)
// @Tags         stock
// @Security     Bearer
// @Router       /api/stock/stream [get]
func (h *StreamHandler) Stream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		rc, _ := conn.Locals(localRequestContext).(*RequestContext)
		if rc == nil || rc.Scope.TenantID == "" {
			_ = conn.Close()
			return
		}
		sc := rc.Scope
		subCtx, cancel := context.WithTimeout(context.Background(), hubTimeout)
		err := h.hub.Subscribe(subCtx, sc, conn)
		cancel()
		if err != nil {
			_ = conn.Close()
			return
		}
		defer func() {
			// si el hub ya se detuvo, la baja no debe bloquear la goroutine
			ctx, cancel := context.WithTimeout(context.Background(), hubTimeout)
			defer cancel()
			h.hub.Unsubscribe(ctx, sc, conn)
		}()

		h.log.Debug().Str("tenant_id", sc.TenantID).Str("scope", sc.Mode.String()).Str("correlation_id", rc.CorrelationID).Msg("stream conectado")
		// el cliente solo escucha; leer detecta el cierre
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}

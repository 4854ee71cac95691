// Package realtime difunde cambios de stock a los clientes websocket de cada tenant.
package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog"

	"github.com/jhoicas/RetailOps-api/internal/domain"
	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
	"github.com/jhoicas/RetailOps-api/internal/domain/scope"
)

// Conn lo que el hub necesita de una conexión (*websocket.Conn lo cumple).
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// StockEvent mensaje enviado a los clientes.
type StockEvent struct {
	Type   string              `json:"type"`
	Levels []entity.StockLevel `json:"levels"`
	At     time.Time           `json:"at"`
}

type subscription struct {
	scope scope.Scope
	conn  Conn
}

type broadcast struct {
	tenantID string
	event    StockEvent
}

// Hub registro de clientes por tenant. Cada cliente conserva su alcance y solo
// recibe niveles de las tiendas que ese alcance permite. Todo el estado vive en la goroutine de Run.
type Hub struct {
	register   chan subscription
	unregister chan subscription
	broadcast  chan broadcast
	log        zerolog.Logger
	clients    map[string]map[Conn]scope.Scope
}

// NewHub construye el hub. buffer es la capacidad de la cola de difusión.
func NewHub(buffer int, log zerolog.Logger) *Hub {
	if buffer <= 0 {
		buffer = 256
	}
	return &Hub{
		register:   make(chan subscription),
		unregister: make(chan subscription),
		broadcast:  make(chan broadcast, buffer),
		log:        log,
		clients:    make(map[string]map[Conn]scope.Scope),
	}
}

// Run procesa altas, bajas y difusiones hasta que ctx se cancela; al salir cierra todas las conexiones.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			for _, conns := range h.clients {
				for c := range conns {
					_ = c.Close()
				}
			}
			h.clients = make(map[string]map[Conn]scope.Scope)
			return nil

		case s := <-h.register:
			tenantID := s.scope.TenantID
			conns, ok := h.clients[tenantID]
			if !ok {
				conns = make(map[Conn]scope.Scope)
				h.clients[tenantID] = conns
			}
			conns[s.conn] = s.scope
			h.log.Debug().Str("tenant_id", tenantID).Str("scope", s.scope.Mode.String()).Int("clients", len(conns)).Msg("ws: cliente conectado")

		case s := <-h.unregister:
			h.remove(s.scope.TenantID, s.conn)

		case b := <-h.broadcast:
			h.deliver(b)
		}
	}
}

func (h *Hub) deliver(b broadcast) {
	for c, sc := range h.clients[b.tenantID] {
		ev := b.event
		ev.Levels = visibleLevels(sc, b.tenantID, b.event.Levels)
		if len(ev.Levels) == 0 && len(b.event.Levels) > 0 {
			continue
		}
		payload, err := json.Marshal(ev)
		if err != nil {
			h.log.Error().Err(err).Msg("ws: serializar evento de stock")
			return
		}
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.log.Debug().Err(err).Str("tenant_id", b.tenantID).Msg("ws: cliente descartado")
			h.remove(b.tenantID, c)
		}
	}
}

// visibleLevels filtra los niveles que sc puede ver.
func visibleLevels(sc scope.Scope, tenantID string, levels []entity.StockLevel) []entity.StockLevel {
	if len(levels) == 0 {
		return levels
	}
	out := make([]entity.StockLevel, 0, len(levels))
	for _, lvl := range levels {
		if sc.Permits(scope.Owner{TenantID: tenantID, ShopID: lvl.ShopID}) {
			out = append(out, lvl)
		}
	}
	return out
}

func (h *Hub) remove(tenantID string, c Conn) {
	conns := h.clients[tenantID]
	if _, ok := conns[c]; !ok {
		return
	}
	delete(conns, c)
	_ = c.Close()
	if len(conns) == 0 {
		delete(h.clients, tenantID)
	}
}

// Subscribe registra c con el alcance sc. Bloquea hasta que Run lo atiende o ctx vence.
// Solo se aceptan alcances ligados a un tenant.
func (h *Hub) Subscribe(ctx context.Context, sc scope.Scope, c Conn) error {
	if sc.IsCrossTenant() || sc.TenantID == "" {
		return domain.ErrForbidden
	}
	select {
	case h.register <- subscription{scope: sc, conn: c}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unsubscribe da de baja c y la cierra.
func (h *Hub) Unsubscribe(ctx context.Context, sc scope.Scope, c Conn) {
	select {
	case h.unregister <- subscription{scope: sc, conn: c}:
	case <-ctx.Done():
	}
}

// StockChanged encola el evento para los clientes del tenant. No bloquea: si la cola está llena, se descarta.
func (h *Hub) StockChanged(tenantID string, levels []entity.StockLevel) {
	ev := StockEvent{Type: "stock.changed", Levels: levels, At: time.Now().UTC()}
	select {
	case h.broadcast <- broadcast{tenantID: tenantID, event: ev}:
	default:
		h.log.Warn().Str("tenant_id", tenantID).Msg("ws: cola de difusión llena, evento descartado")
	}
}

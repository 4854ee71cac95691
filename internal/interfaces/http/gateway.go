package http

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/RetailOps-api/internal/domain"
	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
	"github.com/jhoicas/RetailOps-api/internal/domain/repository"
	"github.com/jhoicas/RetailOps-api/internal/domain/scope"
	"github.com/jhoicas/RetailOps-api/internal/domain/subscription"
	"github.com/jhoicas/RetailOps-api/internal/infrastructure/ratelimit"
)

// localRequestContext clave en Locals donde Guard deja el RequestContext.
const localRequestContext = "request_context"

const (
	headerRateLimit     = "X-RateLimit-Limit"
	headerRateRemaining = "X-RateLimit-Remaining"
)

// IdentityResolver resuelve el token a la identidad vigente.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*entity.Identity, error)
}

// Limiter decide si una solicitud entra en la ventana de (route, identity).
type Limiter interface {
	Allow(route, identity string, max int, window time.Duration) ratelimit.Decision
}

// RateLimit límite de un endpoint. Max <= 0 = sin límite.
type RateLimit struct {
	KeyPrefix string
	Max       int
	Window    time.Duration
}

// Endpoint política de acceso de una ruta.
type Endpoint struct {
	Route        string
	AllowedRoles []entity.Role // vacío = cualquier rol válido
	RateLimit    RateLimit
	Write        *bool // nil = según el método HTTP
	CrossTenant  bool  // admite SUPER_ADMIN de plataforma sin tenant (auditado)
}

// Writes fuerza la clase de escritura de un endpoint.
func Writes(v bool) *bool { return &v }

func (ep Endpoint) isWrite(method string) bool {
	if ep.Write != nil {
		return *ep.Write
	}
	switch method {
	case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
		return true
	}
	return false
}

func (ep Endpoint) allows(r entity.Role) bool {
	if len(ep.AllowedRoles) == 0 {
		return true
	}
	for _, allowed := range ep.AllowedRoles {
		if allowed == r {
			return true
		}
	}
	return false
}

// RequestContext lo que recibe un handler tras pasar el gateway.
type RequestContext struct {
	Identity      entity.Identity
	Scope         scope.Scope
	Accessor      repository.ScopedAccessor
	Subscription  subscription.Status // vacío para SUPER_ADMIN sin tenant
	CorrelationID string
}

// HandlerFunc handler de negocio. data puede ser un *Attachment.
type HandlerFunc func(c *fiber.Ctx, rc *RequestContext) (status int, data any, err error)

// GatewayDeps dependencias del gateway.
type GatewayDeps struct {
	Resolver  IdentityResolver
	Tenants   repository.TenantDirectory
	Limiter   Limiter
	Accessors repository.AccessorFactory
	Audit     repository.AuditRepository
	Log       zerolog.Logger
}

// Gateway punto único de autorización: identidad, suscripción, límite, rol y alcance, en ese orden.
type Gateway struct {
	resolver  IdentityResolver
	tenants   repository.TenantDirectory
	limiter   Limiter
	accessors repository.AccessorFactory
	audit     repository.AuditRepository
	log       zerolog.Logger
	now       func() time.Time
}

// NewGateway construye el gateway.
func NewGateway(deps GatewayDeps) *Gateway {
	return &Gateway{
		resolver:  deps.Resolver,
		tenants:   deps.Tenants,
		limiter:   deps.Limiter,
		accessors: deps.Accessors,
		audit:     deps.Audit,
		log:       deps.Log,
		now:       time.Now,
	}
}

// Handle envuelve fn con la autorización del endpoint y responde siempre con el envelope.
// Un panic en fn se responde como INTERNAL.
func (g *Gateway) Handle(ep Endpoint, fn HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				g.log.Error().
					Str("correlation_id", CorrelationID(c)).
					Str("route", ep.Route).
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("panic en handler")
				err = writeError(c, fmt.Errorf("panic: %v", r))
			}
		}()

		rc, err := g.authorize(c, ep)
		if err != nil {
			return g.fail(c, ep, err)
		}
		return g.run(c, ep, rc, fn)
	}
}

// Guard forma middleware de Handle para rutas que no responden con envelope (websocket).
// Deja el RequestContext en Locals; ver FromContext.
func (g *Gateway) Guard(ep Endpoint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, err := g.authorize(c, ep)
		if err != nil {
			return g.fail(c, ep, err)
		}
		c.Locals(localRequestContext, rc)
		return c.Next()
	}
}

// Public endpoint sin autenticación; el límite se aplica por IP.
func (g *Gateway) Public(ep Endpoint, fn HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				g.log.Error().
					Str("correlation_id", CorrelationID(c)).
					Str("route", ep.Route).
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("panic en handler")
				err = writeError(c, fmt.Errorf("panic: %v", r))
			}
		}()

		if err := g.limit(c, ep, "ip:"+c.IP()); err != nil {
			return g.fail(c, ep, err)
		}
		return g.run(c, ep, &RequestContext{CorrelationID: CorrelationID(c)}, fn)
	}
}

// FromContext RequestContext dejado por Guard (nil si no pasó por Guard).
func FromContext(c *fiber.Ctx) *RequestContext {
	rc, _ := c.Locals(localRequestContext).(*RequestContext)
	return rc
}

func (g *Gateway) run(c *fiber.Ctx, ep Endpoint, rc *RequestContext, fn HandlerFunc) error {
	status, data, err := fn(c, rc)
	if err != nil {
		return g.fail(c, ep, err)
	}
	return writeSuccess(c, status, data)
}

func (g *Gateway) authorize(c *fiber.Ctx, ep Endpoint) (*RequestContext, error) {
	ctx := c.UserContext()
	cid := CorrelationID(c)

	token := bearerToken(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	id, err := g.resolver.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	var status subscription.Status
	if id.HasTenant() {
		t, err := g.tenants.FindTenant(ctx, id.TenantID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: tenant inexistente", domain.ErrUnauthenticated)
			}
			return nil, fmt.Errorf("resolver suscripción: %w", err)
		}
		status = t.EffectiveStatus(g.now())
		if !subscription.AllowsWrites(status) && ep.isWrite(c.Method()) {
			return nil, domain.ErrTenantLocked
		}
	}

	if err := g.limit(c, ep, id.UserID); err != nil {
		return nil, err
	}

	if !ep.allows(id.Role) {
		return nil, fmt.Errorf("%w: rol %s no habilitado en %s", domain.ErrForbidden, id.Role, ep.Route)
	}

	s, err := scope.ForIdentity(*id, ep.CrossTenant)
	if err != nil {
		return nil, err
	}
	if s.IsCrossTenant() {
		if err := g.recordCrossTenant(ctx, ep, id, cid); err != nil {
			return nil, err
		}
	}

	return &RequestContext{
		Identity:      *id,
		Scope:         s,
		Accessor:      g.accessors.Accessor(s),
		Subscription:  status,
		CorrelationID: cid,
	}, nil
}

// limit consulta el limitador y publica el cupo en X-RateLimit-Limit / X-RateLimit-Remaining.
func (g *Gateway) limit(c *fiber.Ctx, ep Endpoint, identity string) error {
	if g.limiter == nil || ep.RateLimit.Max <= 0 {
		return nil
	}
	prefix := ep.RateLimit.KeyPrefix
	if prefix == "" {
		prefix = ep.Route
	}
	d := g.limiter.Allow(prefix, identity, ep.RateLimit.Max, ep.RateLimit.Window)
	if d.Remaining >= 0 {
		c.Set(headerRateLimit, strconv.Itoa(ep.RateLimit.Max))
		c.Set(headerRateRemaining, strconv.Itoa(d.Remaining))
	}
	if !d.Allowed {
		return &domain.RateLimitError{RetryAfter: d.RetryAfter}
	}
	return nil
}

// recordCrossTenant audita cada uso del modo plataforma. Sin auditoría no hay acceso.
func (g *Gateway) recordCrossTenant(ctx context.Context, ep Endpoint, id *entity.Identity, cid string) error {
	ev := &entity.AuditEvent{
		ID:            uuid.NewString(),
		ActorID:       id.UserID,
		Action:        "cross_tenant_access",
		Target:        ep.Route,
		CorrelationID: cid,
		CreatedAt:     g.now().UTC(),
	}
	g.log.Info().
		Str("audit", ev.Action).
		Str("actor_id", ev.ActorID).
		Str("route", ev.Target).
		Str("correlation_id", cid).
		Msg("acceso entre tenants")
	if g.audit == nil {
		return nil
	}
	if err := g.audit.Record(ctx, ev); err != nil {
		return fmt.Errorf("registrar auditoría: %w", err)
	}
	return nil
}

// fail registra los errores INTERNAL (con su detalle) y responde el envelope.
func (g *Gateway) fail(c *fiber.Ctx, ep Endpoint, err error) error {
	if domain.CodeOf(err) == domain.CodeInternal {
		g.log.Error().Err(err).
			Str("correlation_id", CorrelationID(c)).
			Str("route", ep.Route).
			Msg("error interno")
	}
	return writeError(c, err)
}

// bearerToken extrae el token de "Bearer <token>".
func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

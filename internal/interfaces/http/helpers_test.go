package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/RetailOps-api/internal/application/identity"
	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
	"github.com/jhoicas/RetailOps-api/internal/domain/subscription"
	"github.com/jhoicas/RetailOps-api/internal/infrastructure/memstore"
	"github.com/jhoicas/RetailOps-api/internal/infrastructure/ratelimit"
	apphttp "github.com/jhoicas/RetailOps-api/internal/interfaces/http"
)

var tokenCfg = identity.Config{Secret: "test-secret", Issuer: "retailops-test", ExpMinutes: 30}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Status        int    `json:"status"`
	CorrelationID string `json:"correlation_id"`
}

func ptr[T any](v T) *T { return &v }

// seed: t1 activo, t2 bloqueado, t3 con gracia vencida, t4 en gracia vigente.
func seed(t *testing.T) *memstore.Store {
	t.Helper()
	now := time.Now()
	st := memstore.New()
	st.AddTenant(entity.Tenant{ID: "t1", Name: "Activo", SubscriptionStatus: subscription.StatusActive})
	st.AddTenant(entity.Tenant{ID: "t2", Name: "Bloqueado", SubscriptionStatus: subscription.StatusLocked})
	st.AddTenant(entity.Tenant{ID: "t3", Name: "Vencido", SubscriptionStatus: subscription.StatusGrace, GraceEndsAt: ptr(now.Add(-time.Minute))})
	st.AddTenant(entity.Tenant{ID: "t4", Name: "Gracia", SubscriptionStatus: subscription.StatusGrace, GraceEndsAt: ptr(now.Add(48 * time.Hour))})

	st.AddShop(entity.Shop{ID: "s1", TenantID: "t1", Name: "Centro", Latitude: ptr(4.6097), Longitude: ptr(-74.0817), RadiusMeters: 100})
	st.AddShop(entity.Shop{ID: "s2", TenantID: "t2", Name: "Ajena"})

	active := entity.UserStatusActive
	st.AddUser(entity.User{ID: "admin", TenantID: "t1", Email: "admin@t1.co", Role: entity.RoleAdmin, Status: active, Name: "Admin"})
	st.AddUser(entity.User{ID: "field", TenantID: "t1", ShopID: "s1", Email: "field@t1.co", Role: entity.RoleFieldWorker, Status: active, Name: "Ana"})
	st.AddUser(entity.User{ID: "locked", TenantID: "t2", Email: "a@t2.co", Role: entity.RoleAdmin, Status: active})
	st.AddUser(entity.User{ID: "expired", TenantID: "t3", Email: "a@t3.co", Role: entity.RoleAdmin, Status: active})
	st.AddUser(entity.User{ID: "grace", TenantID: "t4", Email: "a@t4.co", Role: entity.RoleAdmin, Status: active})
	st.AddUser(entity.User{ID: "root", Email: "root@platform.co", Role: entity.RoleSuperAdmin, Status: active, Name: "Root"})
	return st
}

func newGateway(st *memstore.Store, lim apphttp.Limiter) (*apphttp.Gateway, *identity.Resolver) {
	resolver := identity.NewResolver(st, tokenCfg)
	if lim == nil {
		lim = ratelimit.NewMemory()
	}
	gw := apphttp.NewGateway(apphttp.GatewayDeps{
		Resolver:  resolver,
		Tenants:   st,
		Limiter:   lim,
		Accessors: st,
		Audit:     st,
		Log:       zerolog.Nop(),
	})
	return gw, resolver
}

func newApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: apphttp.NewErrorHandler(zerolog.Nop())})
}

func bearer(t *testing.T, st *memstore.Store, r *identity.Resolver, userID string) string {
	t.Helper()
	u, err := st.FindUserByID(t.Context(), userID)
	require.NoError(t, err)
	tok, _, err := r.Issue(u)
	require.NoError(t, err)
	return "Bearer " + tok
}

func do(t *testing.T, app *fiber.App, method, path, auth string, body any, headers ...string) (*http.Response, envelope) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if auth != "" {
		req.Header.Set(fiber.HeaderAuthorization, auth)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	if resp.Header.Get(fiber.HeaderContentType) == fiber.MIMEApplicationJSON ||
		resp.Header.Get(fiber.HeaderContentType) == fiber.MIMEApplicationJSONCharsetUTF8 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

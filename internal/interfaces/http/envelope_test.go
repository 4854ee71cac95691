package http_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/RetailOps-api/internal/domain"
	apphttp "github.com/jhoicas/RetailOps-api/internal/interfaces/http"
)

func TestStatusOf(t *testing.T) {
	cases := map[domain.Code]int{
		domain.CodeUnauthenticated:   http.StatusUnauthorized,
		domain.CodeForbidden:         http.StatusForbidden,
		domain.CodeTenantLocked:      http.StatusForbidden,
		domain.CodeGeofenceViolation: http.StatusForbidden,
		domain.CodeValidation:        http.StatusBadRequest,
		domain.CodeNotFound:          http.StatusNotFound,
		domain.CodeRateLimited:       http.StatusTooManyRequests,
		domain.CodeInsufficientStock: http.StatusConflict,
		domain.CodeConflict:          http.StatusConflict,
		domain.CodeInternal:          http.StatusInternalServerError,
		domain.Code("OTRO"):          http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, apphttp.StatusOf(code), code)
	}
}

// failing publica un endpoint que devuelve err tal cual.
func failing(t *testing.T, err error) *fiber.App {
	t.Helper()
	gw, _ := newGateway(seed(t), nil)
	app := newApp()
	app.Get("/x", gw.Public(apphttp.Endpoint{Route: "GET /x"}, func(*fiber.Ctx, *apphttp.RequestContext) (int, any, error) {
		return 0, nil, err
	}))
	return app
}

func TestWriteError_MensajesSeguros(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"validacion expone campo", domain.Invalid("qty", "debe ser mayor que 0"), 400, "VALIDATION_ERROR", "qty: debe ser mayor que 0"},
		{"stock expone detalle", fmt.Errorf("venta: %w", &domain.InsufficientStockError{ProductID: "p1", Requested: 3, Available: 1}), 409, "INSUFFICIENT_STOCK", "stock insuficiente para el producto p1: solicitado 3, disponible 1"},
		{"not found envuelto", fmt.Errorf("repo: sale abc: %w", domain.ErrNotFound), 404, "NOT_FOUND", "recurso no encontrado"},
		{"duplicado", fmt.Errorf("sku A-1: %w", domain.ErrDuplicate), 409, "CONFLICT", "el recurso ya existe"},
		{"conflicto de tx", domain.ErrTxConflict, 409, "CONFLICT", "conflicto de concurrencia, reintente la operación"},
		{"geocerca", fmt.Errorf("%w: 523m", domain.ErrGeofenceViolation), 403, "GEOFENCE_VIOLATION", "la ubicación está fuera del radio permitido de la tienda"},
		{"desconocido", errors.New("pgx: password authentication failed for user app"), 500, "INTERNAL", "error interno"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, env := do(t, failing(t, tc.err), http.MethodGet, "/x", "", nil)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.status, env.Status)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
			assert.Equal(t, tc.message, env.Error.Message)
			assert.Empty(t, resp.Header.Get(fiber.HeaderRetryAfter))
		})
	}
}

func TestWriteError_RetryAfterRedondeaHaciaArriba(t *testing.T) {
	cases := map[time.Duration]string{
		1500 * time.Millisecond: "2",
		30 * time.Second:        "30",
		10 * time.Millisecond:   "1",
		0:                       "1",
	}
	for d, want := range cases {
		resp, env := do(t, failing(t, &domain.RateLimitError{RetryAfter: d}), http.MethodGet, "/x", "", nil)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		assert.Equal(t, "RATE_LIMITED", env.Error.Code)
		assert.Equal(t, want, resp.Header.Get(fiber.HeaderRetryAfter), d.String())
	}
}

func TestErrorHandler_ErroresDeFiber(t *testing.T) {
	app := newApp()
	app.Get("/big", func(*fiber.Ctx) error { return fiber.ErrRequestEntityTooLarge })
	app.Get("/teapot", func(*fiber.Ctx) error { return fiber.ErrTeapot })

	resp, env := do(t, app, http.MethodGet, "/big", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	resp, env = do(t, app, http.MethodPost, "/big", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	resp, env = do(t, app, http.MethodGet, "/teapot", "", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL", env.Error.Code)
}

func TestWriteSuccess_SiempreIncluyeData(t *testing.T) {
	gw, _ := newGateway(seed(t), nil)
	app := newApp()
	app.Delete("/x", gw.Public(apphttp.Endpoint{Route: "DELETE /x"}, func(*fiber.Ctx, *apphttp.RequestContext) (int, any, error) {
		return http.StatusOK, nil, nil
	}))

	resp, env := do(t, app, http.MethodDelete, "/x", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
	assert.JSONEq(t, "null", string(env.Data))
	assert.Nil(t, env.Error)

	_, env = do(t, failing(t, domain.ErrNotFound), http.MethodGet, "/x", "", nil)
	assert.Empty(t, env.Data)
}

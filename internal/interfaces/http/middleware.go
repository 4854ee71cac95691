package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/RetailOps-api/internal/domain"
	"github.com/jhoicas/RetailOps-api/pkg/config"
)

// Setup registra los middlewares comunes. El límite global por IP es solo contra inundaciones;
// los límites por identidad los aplica el gateway.
func Setup(app *fiber.App, cfg *config.Config, log zerolog.Logger) {
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.App.IsDev()}))

	app.Use(requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: localCorrelationID,
	}))

	app.Use(RequestLogger(log))

	app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	origins := cfg.HTTP.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		ExposeHeaders:    "X-Request-ID,Retry-After,X-RateLimit-Limit,X-RateLimit-Remaining",
		AllowCredentials: false,
	}))

	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))

	if cfg.RateLimit.GlobalMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit.GlobalMax,
			Expiration: cfg.RateLimit.GlobalWindow,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			// Retry-After ya lo fija el limiter
			LimitReached: func(c *fiber.Ctx) error {
				return writeError(c, domain.ErrRateLimited)
			},
		}))
	}
}

// RequestLogger registra método, ruta, estado, latencia y correlation id de cada solicitud.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if chainErr := c.Next(); chainErr != nil {
			// el estado final lo decide el ErrorHandler
			if err := c.App().Config().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Str("correlation_id", CorrelationID(c)).
			Msg("http")
		return nil
	}
}

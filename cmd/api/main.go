package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/RetailOps-api/internal/application/auth"
	"github.com/jhoicas/RetailOps-api/internal/application/identity"
	"github.com/jhoicas/RetailOps-api/internal/application/sales"
	"github.com/jhoicas/RetailOps-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/RetailOps-api/internal/infrastructure/pdf"
	"github.com/jhoicas/RetailOps-api/internal/infrastructure/postgres"
	"github.com/jhoicas/RetailOps-api/internal/infrastructure/ratelimit"
	"github.com/jhoicas/RetailOps-api/internal/infrastructure/realtime"
	httpRouter "github.com/jhoicas/RetailOps-api/internal/interfaces/http"
	"github.com/jhoicas/RetailOps-api/pkg/config"
	"github.com/jhoicas/RetailOps-api/pkg/logger"

	_ "github.com/jhoicas/RetailOps-api/docs"
)

// @title						RetailOps API
// @version					1.0
// @description				Núcleo multi-tenant de operación de tiendas: ventas atómicas con geocerca, stock y suscripciones.
// @BasePath					/
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	store := postgres.NewStore(pool)
	uow := postgres.NewUnitOfWork(pool)

	resolver := identity.NewResolver(store, identity.Config{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		ExpMinutes: cfg.JWT.Expiration,
	})
	authUC := auth.NewAuthUseCase(store, resolver)

	hub := realtime.NewHub(0, log.Component("realtime").Zerolog())

	createSaleUC := sales.NewCreateSaleUseCase(uow, hub, cfg.Sales.MaxRetries, log.Component("sales").Zerolog())
	receiptUC := sales.NewReceiptUseCase(infrapdf.NewReceiptGenerator(cfg.App.Name))

	gateway := httpRouter.NewGateway(httpRouter.GatewayDeps{
		Resolver:  resolver,
		Tenants:   store,
		Limiter:   ratelimit.NewMemory(),
		Accessors: store,
		Audit:     store,
		Log:       log.Component("gateway").Zerolog(),
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.HTTP.BodyLimit,
		ErrorHandler: httpRouter.NewErrorHandler(log.Zerolog()),
	})
	httpRouter.Setup(app, cfg, log.Component("http").Zerolog())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "RetailOps API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Gateway:    gateway,
		Limits:     cfg.RateLimit,
		AuthUC:     authUC,
		ShopUC:     usecase.NewShopUseCase(),
		ProductUC:  usecase.NewProductUseCase(hub),
		UserUC:     usecase.NewUserUseCase(),
		TenantUC:   usecase.NewTenantUseCase(),
		CreateSale: createSaleUC,
		Receipt:    receiptUC,
		Stock:      hub,
		DB:         pool,
		AppName:    cfg.App.Name,
		Log:        log.Component("stream").Zerolog(),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.Run(gctx)
	})
	g.Go(func() error {
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("servidor finalizado con error")
	}
	log.Info().Msg("aplicación detenida")
}

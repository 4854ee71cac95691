package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/RetailOps-api/internal/application/auth"
	"github.com/jhoicas/RetailOps-api/internal/application/sales"
	"github.com/jhoicas/RetailOps-api/internal/application/usecase"
	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
	"github.com/jhoicas/RetailOps-api/pkg/config"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Gateway    *Gateway
	Limits     config.RateLimitConfig
	AuthUC     *auth.AuthUseCase
	ShopUC     *usecase.ShopUseCase
	ProductUC  *usecase.ProductUseCase
	UserUC     *usecase.UserUseCase
	TenantUC   *usecase.TenantUseCase
	CreateSale *sales.CreateSaleUseCase
	Receipt    *sales.ReceiptUseCase
	Stock      StockSubscriber
	DB         Pinger
	AppName    string
	Log        zerolog.Logger
}

// Roles por grupo de endpoints.
var (
	rolesManage = []entity.Role{entity.RoleAdmin, entity.RoleManager, entity.RoleSuperAdmin}
	rolesSell   = []entity.Role{
		entity.RoleFieldWorker, entity.RoleFieldAgent, entity.RoleFieldAssistant,
		entity.RoleManager, entity.RoleAdmin,
	}
	rolesRestock    = []entity.Role{entity.RoleAdmin, entity.RoleManager}
	rolesUserReader = []entity.Role{entity.RoleAdmin, entity.RoleManager, entity.RoleAuditor, entity.RoleSuperAdmin}
	rolesPlatform   = []entity.Role{entity.RoleSuperAdmin}
)

// Router registra las rutas de la API. Toda ruta de negocio pasa por el gateway.
func Router(app *fiber.App, deps RouterDeps) {
	g := deps.Gateway
	read := RateLimit{KeyPrefix: "read", Max: deps.Limits.ReadMax, Window: deps.Limits.Window}
	write := RateLimit{KeyPrefix: "write", Max: deps.Limits.WriteMax, Window: deps.Limits.Window}
	login := RateLimit{KeyPrefix: "login", Max: deps.Limits.LoginMax, Window: deps.Limits.Window}

	health := NewHealthHandler(deps.DB, deps.AppName)
	app.Get("/health", g.Public(Endpoint{Route: "GET /health"}, health.Health))

	api := app.Group("/api")

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", g.Public(Endpoint{Route: "POST /api/auth/login", RateLimit: login}, authHandler.Login))
	api.Get("/me", g.Handle(Endpoint{Route: "GET /api/me", RateLimit: read, CrossTenant: true}, authHandler.Me))

	// Shops
	shopHandler := NewShopHandler(deps.ShopUC)
	api.Get("/shops", g.Handle(Endpoint{Route: "GET /api/shops", RateLimit: read, CrossTenant: true}, shopHandler.List))
	api.Get("/shops/:id", g.Handle(Endpoint{Route: "GET /api/shops/:id", RateLimit: read, CrossTenant: true}, shopHandler.GetByID))
	api.Post("/shops", g.Handle(Endpoint{
		Route: "POST /api/shops", AllowedRoles: rolesManage, RateLimit: write, CrossTenant: true,
	}, shopHandler.Create))

	// Products
	productHandler := NewProductHandler(deps.ProductUC)
	api.Get("/products", g.Handle(Endpoint{Route: "GET /api/products", RateLimit: read, CrossTenant: true}, productHandler.List))
	api.Get("/products/:id", g.Handle(Endpoint{Route: "GET /api/products/:id", RateLimit: read, CrossTenant: true}, productHandler.GetByID))
	api.Post("/products", g.Handle(Endpoint{
		Route: "POST /api/products", AllowedRoles: rolesManage, RateLimit: write, CrossTenant: true,
	}, productHandler.Create))
	api.Post("/products/:id/restock", g.Handle(Endpoint{
		Route: "POST /api/products/:id/restock", AllowedRoles: rolesRestock, RateLimit: write,
	}, productHandler.Restock))

	// Sales
	saleHandler := NewSaleHandler(deps.CreateSale, deps.Receipt)
	api.Post("/sales", g.Handle(Endpoint{Route: "POST /api/sales", AllowedRoles: rolesSell, RateLimit: write}, saleHandler.Create))
	api.Get("/sales", g.Handle(Endpoint{Route: "GET /api/sales", RateLimit: read, CrossTenant: true}, saleHandler.List))
	api.Get("/sales/:id", g.Handle(Endpoint{Route: "GET /api/sales/:id", RateLimit: read, CrossTenant: true}, saleHandler.GetByID))
	api.Get("/sales/:id/receipt", g.Handle(Endpoint{Route: "GET /api/sales/:id/receipt", RateLimit: read, CrossTenant: true}, saleHandler.Receipt))

	// Users
	userHandler := NewUserHandler(deps.UserUC)
	api.Get("/users", g.Handle(Endpoint{
		Route: "GET /api/users", AllowedRoles: rolesUserReader, RateLimit: read, CrossTenant: true,
	}, userHandler.List))
	api.Get("/users/:id", g.Handle(Endpoint{Route: "GET /api/users/:id", RateLimit: read, CrossTenant: true}, userHandler.GetByID))

	// Tenants (plataforma)
	tenantHandler := NewTenantHandler(deps.TenantUC)
	api.Get("/tenants", g.Handle(Endpoint{
		Route: "GET /api/tenants", AllowedRoles: rolesPlatform, RateLimit: read, CrossTenant: true,
	}, tenantHandler.List))
	api.Put("/tenants/:id/subscription", g.Handle(Endpoint{
		Route: "PUT /api/tenants/:id/subscription", AllowedRoles: rolesPlatform, RateLimit: write, CrossTenant: true,
	}, tenantHandler.UpdateSubscription))

	// Stock en tiempo real
	if deps.Stock != nil {
		stream := NewStreamHandler(deps.Stock, deps.Log)
		api.Get("/stock/stream",
			g.Guard(Endpoint{Route: "GET /api/stock/stream", RateLimit: read}),
			RequireUpgrade,
			stream.Stream(),
		)
	}
}

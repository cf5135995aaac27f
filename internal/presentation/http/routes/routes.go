package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/procura-api/internal/config"
	domainRepo "github.com/sangkips/procura-api/internal/domain/repository"
	"github.com/sangkips/procura-api/internal/presentation/http/handler"
	"github.com/sangkips/procura-api/internal/presentation/http/middleware"
	"github.com/sangkips/procura-api/pkg/metrics"
	"github.com/sangkips/procura-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Product       *handler.ProductHandler
	Settings      *handler.SettingsHandler
	Supplier      *handler.SupplierHandler
	Branch        *handler.BranchHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	Stock         *handler.StockHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Metrics         *metrics.Metrics
	// Gatherer backs /metrics; the default registry when nil
	Gatherer    prometheus.Gatherer
	RateLimiter *middleware.TenantRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(deps.Metrics.GinMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.RequireTenant())

		rateLimiter := deps.RateLimiter
		if rateLimiter == nil {
			rateLimiter = middleware.NewTenantRateLimiter(RateLimiterConfig(&deps.Cfg.RateLimit))
		}
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

// RateLimiterConfig converts the configured request budget into limiter settings
func RateLimiterConfig(cfg *config.RateLimitConfig) middleware.RateLimiterConfig {
	rlc := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rlc.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rlc.BurstSize = cfg.Requests
	}
	rlc.CleanupInterval = 5 * time.Minute
	rlc.EntryTTL = 10 * time.Minute
	return rlc
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
		TTL:  deps.Cfg.Idempotency.TTL,
	})

	registerProductRoutes(protected, h)
	registerSettingsRoutes(protected, h)
	registerSupplierRoutes(protected, h)
	registerBranchRoutes(protected, h)
	registerPurchaseOrderRoutes(protected, h, idempotent)
	registerStockRoutes(protected, h, idempotent)
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	products.Use(middleware.RequirePermission("manage-products"))
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
		products.GET("/:id/stock", h.Product.Stock)
	}
}

func registerSettingsRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Tax rates are readable by anyone who can raise purchase orders
	protected.GET("/tax-rates", h.Settings.ListTaxRates)
	protected.GET("/bank-accounts", h.Settings.ListBankAccounts)

	settings := protected.Group("")
	settings.Use(middleware.RequirePermission("manage-settings"))
	{
		settings.POST("/tax-rates", h.Settings.CreateTaxRate)
		settings.PUT("/tax-rates/:id", h.Settings.UpdateTaxRate)
		settings.DELETE("/tax-rates/:id", h.Settings.DeleteTaxRate)
		settings.POST("/bank-accounts", h.Settings.CreateBankAccount)
		settings.PUT("/bank-accounts/:id", h.Settings.UpdateBankAccount)
		settings.DELETE("/bank-accounts/:id", h.Settings.DeleteBankAccount)
	}
}

func registerSupplierRoutes(protected *gin.RouterGroup, h *Handlers) {
	suppliers := protected.Group("/suppliers")
	suppliers.Use(middleware.RequirePermission("manage-suppliers"))
	{
		suppliers.GET("", h.Supplier.List)
		suppliers.POST("", h.Supplier.Create)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.DELETE("/:id", h.Supplier.Delete)
	}
}

func registerBranchRoutes(protected *gin.RouterGroup, h *Handlers) {
	branches := protected.Group("/branches")
	branches.Use(middleware.RequirePermission("manage-branches"))
	{
		branches.GET("", h.Branch.List)
		branches.POST("", h.Branch.Create)
		branches.GET("/:id", h.Branch.Get)
		branches.PUT("/:id", h.Branch.Update)
		branches.DELETE("/:id", h.Branch.Delete)
	}
}

func registerPurchaseOrderRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	orders := protected.Group("/purchase-orders")
	orders.Use(middleware.RequirePermission("manage-purchases"))
	{
		orders.POST("/preview", h.PurchaseOrder.Preview)
		orders.POST("/draft/edit", h.PurchaseOrder.EditDraft)
		orders.GET("", h.PurchaseOrder.List)
		orders.POST("", idempotent, h.PurchaseOrder.Create)
		orders.GET("/:id", h.PurchaseOrder.Get)
		orders.PUT("/:id", h.PurchaseOrder.Update)
		orders.DELETE("/:id", h.PurchaseOrder.Delete)
		orders.POST("/:id/receive", idempotent, h.PurchaseOrder.Receive)
	}
}

func registerStockRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	stock := protected.Group("/stock")
	stock.Use(middleware.RequirePermission("manage-stock"))
	{
		stock.POST("/adjustments", idempotent, h.Stock.Adjust)
		stock.POST("/transfers", idempotent, h.Stock.Transfer)
		stock.GET("/movements", h.Stock.Movements)
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sangkips/procura-api/internal/application/service"
	"github.com/sangkips/procura-api/internal/config"
	"github.com/sangkips/procura-api/internal/infrastructure/database"
	"github.com/sangkips/procura-api/internal/infrastructure/repository"
	"github.com/sangkips/procura-api/internal/presentation/http/handler"
	"github.com/sangkips/procura-api/internal/presentation/http/middleware"
	"github.com/sangkips/procura-api/internal/presentation/http/routes"
	"github.com/sangkips/procura-api/pkg/logger"
	"github.com/sangkips/procura-api/pkg/metrics"
	"github.com/sangkips/procura-api/pkg/utils"
	"go.uber.org/zap"
)

const idempotencySweepInterval = time.Hour

func main() {
	cfg := config.Load()

	zlog, err := logger.New(logger.Config{
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Env,
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
	})
	if err != nil {
		log.Fatalf("Failed to initialise logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.AutoMigrate(db); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.App.SeedTenant != "" {
		tenantID, err := uuid.Parse(cfg.App.SeedTenant)
		if err != nil {
			zlog.Fatal("invalid APP_SEED_TENANT", zap.Error(err))
		}
		if err := database.SeedTenantDefaults(ctx, db, tenantID); err != nil {
			zlog.Warn("failed to seed tenant defaults", zap.Error(err))
		}
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer)
	m := metrics.New("procura", prometheus.DefaultRegisterer)

	// Repositories
	productRepo := repository.NewProductRepository(db)
	taxRateRepo := repository.NewTaxRateRepository(db)
	bankRepo := repository.NewBankAccountRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	stockRepo := repository.NewBranchStockRepository(db)
	orderRepo := repository.NewPurchaseOrderRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Services
	productService := service.NewProductService(productRepo, taxRateRepo)
	settingsService := service.NewSettingsService(taxRateRepo, bankRepo)
	supplierService := service.NewSupplierService(supplierRepo)
	branchService := service.NewBranchService(branchRepo)
	stockService := service.NewStockService(stockRepo, productRepo, branchRepo, m)
	orderService := service.NewPurchaseOrderService(orderRepo, productRepo, taxRateRepo, supplierRepo, bankRepo, branchRepo, stockRepo, m)

	handlers := &routes.Handlers{
		Product:       handler.NewProductHandler(productService, stockService),
		Settings:      handler.NewSettingsHandler(settingsService),
		Supplier:      handler.NewSupplierHandler(supplierService),
		Branch:        handler.NewBranchHandler(branchService),
		PurchaseOrder: handler.NewPurchaseOrderHandler(orderService),
		Stock:         handler.NewStockHandler(stockService),
	}

	rateLimiter := middleware.NewTenantRateLimiter(routes.RateLimiterConfig(&cfg.RateLimit))
	defer rateLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Metrics:         m,
		RateLimiter:     rateLimiter,
	})

	go sweepIdempotencyKeys(ctx, idempotencyRepo.DeleteExpired)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("starting server", zap.String("port", port), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// sweepIdempotencyKeys deletes expired idempotency keys until ctx is done
func sweepIdempotencyKeys(ctx context.Context, deleteExpired func(context.Context) (int64, error)) {
	ticker := time.NewTicker(idempotencySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := deleteExpired(ctx)
			if err != nil {
				logger.FromContext(ctx).Warn("idempotency sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.FromContext(ctx).Info("expired idempotency keys removed", zap.Int64("count", n))
			}
		}
	}
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"fieldtrack/internal/caching"
	"fieldtrack/internal/config"
	"fieldtrack/internal/handlers"
	"fieldtrack/internal/jobs"
	"fieldtrack/internal/jobs/background"
	"fieldtrack/internal/middleware"
	"fieldtrack/internal/models"
	"fieldtrack/internal/repositories"
	"fieldtrack/internal/services"
	"fieldtrack/pkg/database"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.DB.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	cacheService := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	storage, err := services.NewMinioStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL, cfg.Minio.Bucket)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create object storage client")
	}
	if err := storage.EnsureBucketExists(ctx); err != nil {
		log.Warn().Err(err).Msg("could not ensure report bucket exists")
	}

	// Repositories over the shared pool; transactional flows get their own
	// tx-bound set through the TxManager.
	txManager := repositories.NewTxManager(pool)
	productRepo := repositories.NewProductRepo(pool)
	inventoryRepo := repositories.NewInventoryRepo(pool)
	storeRepo := repositories.NewStoreRepo(pool)
	positionRepo := repositories.NewStockPositionRepo(pool)
	adjustmentRepo := repositories.NewStockAdjustmentRepo(pool)
	visitRepo := repositories.NewVisitRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	reportRepo := repositories.NewReportRepo(pool)
	userRepo := repositories.NewUserRepo(pool)

	productService := services.NewProductService(productRepo, cacheService)
	inventoryService := services.NewInventoryService(inventoryRepo, productRepo, cacheService)
	storeService := services.NewStoreService(storeRepo)
	orderService := services.NewOrderService(txManager, orderRepo, storeRepo, productRepo)
	fulfillmentService := services.NewFulfillmentService(txManager, cacheService)
	visitService := services.NewVisitService(txManager, storeRepo, visitRepo, adjustmentRepo, cfg.Geofence.RadiusMeters)
	reportService := services.NewReportService(reportRepo, storage)
	userService := services.NewUserService(userRepo)

	authenticator, err := middleware.NewAuthenticator(userService, cfg.Auth.JWTSecret, cfg.Auth.JWKSURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create authenticator")
	}
	defer authenticator.Shutdown(ctx)

	var scheduler *background.JobScheduler
	if cfg.Jobs.Enabled {
		alertService := jobs.NewStockAlertService(inventoryRepo, positionRepo, productRepo)
		expiryWindow := time.Duration(cfg.Jobs.ExpiryWindowDays) * 24 * time.Hour
		scheduler, err = background.NewJobScheduler(alertService, cfg.Jobs.Interval, expiryWindow)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create job scheduler")
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				log.Error().Err(err).Msg("failed to stop job scheduler")
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewRequestValidator()
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestLogger())

	registerRoutes(e, pool, redisClient, authenticator, handlersSet{
		products:  handlers.NewProductHandlers(productService),
		stores:    handlers.NewStoreHandlers(storeService),
		inventory: handlers.NewInventoryHandlers(inventoryService),
		orders:    handlers.NewOrderHandlers(orderService, fulfillmentService),
		visits:    handlers.NewVisitHandlers(visitService),
		reports:   handlers.NewReportHandlers(reportService),
		users:     handlers.NewUserHandlers(userService),
	})

	go func() {
		if err := e.Start(":" + cfg.App.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

type handlersSet struct {
	products  *handlers.ProductHandlers
	stores    *handlers.StoreHandlers
	inventory *handlers.InventoryHandlers
	orders    *handlers.OrderHandlers
	visits    *handlers.VisitHandlers
	reports   *handlers.ReportHandlers
	users     *handlers.UserHandlers
}

func registerRoutes(e *echo.Echo, pool *pgxpool.Pool, redisClient *redis.Client, auth *middleware.Authenticator, h handlersSet) {
	health := handlers.NewHealthHandlers(pool, redisClient)
	e.GET("/health", health.HealthCheck)
	e.GET("/health/live", health.LivenessCheck)
	e.GET("/health/ready", health.ReadinessCheck)

	api := e.Group("/api/v1", auth.Middleware())

	adminOnly := middleware.RequireRole(models.RoleAdmin)
	stockOps := middleware.RequireRole(models.RoleAdmin, models.RoleStockManager)

	// Catalog
	api.GET("/products", h.products.ListProducts)
	api.GET("/products/search", h.products.SearchProducts)
	api.GET("/products/:id", h.products.GetProduct)
	api.POST("/products", h.products.CreateProduct, adminOnly)
	api.PUT("/products/:id", h.products.UpdateProduct, adminOnly)
	api.DELETE("/products/:id", h.products.DeleteProduct, adminOnly)

	// Central inventory
	api.GET("/inventory", h.inventory.ListInventory)
	api.GET("/inventory/low-stock", h.inventory.ListLowStock, stockOps)
	api.GET("/inventory/:productId", h.inventory.GetInventory)
	api.PUT("/inventory/:productId", h.inventory.SetInventory, stockOps)

	// Stores
	api.GET("/stores", h.stores.ListStores)
	api.GET("/stores/:id", h.stores.GetStore)
	api.POST("/stores", h.stores.CreateStore, adminOnly)
	api.PUT("/stores/:id", h.stores.UpdateStore, adminOnly)
	api.DELETE("/stores/:id", h.stores.DeleteStore, adminOnly)
	api.GET("/stores/:id/orders", h.orders.ListOrdersByStore)
	api.GET("/stores/:id/visits", h.visits.ListVisitsByStore)

	// Orders and fulfillment
	api.POST("/orders", h.orders.CreateOrder)
	api.GET("/orders/:id", h.orders.GetOrder)
	api.GET("/orders/:id/unfulfilled", h.orders.ListUnfulfilledItems)
	api.POST("/orders/:id/fulfill", h.orders.FulfillOrder, stockOps)
	api.PATCH("/orders/:id/status", h.orders.ChangeOrderStatus, stockOps)

	// Visits and reconciliation
	api.POST("/visits/check-in", h.visits.CheckIn)
	api.POST("/visits/reconcile", h.visits.Reconcile)
	api.POST("/visits/restock", h.visits.RestockNewBatch)
	api.GET("/visits/:id", h.visits.GetVisit)
	api.GET("/visits/:id/adjustments", h.visits.ListVisitAdjustments)

	// Reports
	api.GET("/reports/store-shortfalls", h.reports.StoreShortfalls, stockOps)
	api.GET("/reports/product-shortages", h.reports.ProductShortages, stockOps)
	api.GET("/reports/fulfillment-stats", h.reports.FulfillmentStats, stockOps)
	api.GET("/reports/demand-trends", h.reports.DemandTrends, stockOps)
	api.GET("/reports/dashboard", h.reports.Dashboard)
	api.GET("/reports/activity", h.reports.RecentActivity)
	api.POST("/reports/shortage-export", h.reports.ExportShortageReport, stockOps)

	// Users
	api.GET("/users/me", h.users.Me)
	api.GET("/users", h.users.ListUsers, adminOnly)
	api.PATCH("/users/:id/role", h.users.UpdateUserRole, adminOnly)
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.App.IsDev() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditapp "github.com/envio/backend/internal/application/audit"
	paymentapp "github.com/envio/backend/internal/application/payment"
	remitapp "github.com/envio/backend/internal/application/remittance"
	tierapp "github.com/envio/backend/internal/application/tier"
	tradeapp "github.com/envio/backend/internal/application/trade"
	"github.com/envio/backend/internal/domain/shared"
	"github.com/envio/backend/internal/domain/tier"
	"github.com/envio/backend/internal/infrastructure/auth"
	"github.com/envio/backend/internal/infrastructure/cache"
	"github.com/envio/backend/internal/infrastructure/config"
	"github.com/envio/backend/internal/infrastructure/event"
	"github.com/envio/backend/internal/infrastructure/logger"
	"github.com/envio/backend/internal/infrastructure/notification"
	"github.com/envio/backend/internal/infrastructure/persistence"
	"github.com/envio/backend/internal/infrastructure/scheduler"
	"github.com/envio/backend/internal/interfaces/http/handler"
	"github.com/envio/backend/internal/interfaces/http/middleware"
	"github.com/envio/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Envio Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	accountRepo := persistence.NewGormPaymentAccountRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	remitRepo := persistence.NewGormRemittanceRepository(db.DB)
	assignmentRepo := persistence.NewGormTierAssignmentRepository(db.DB)
	auditLog := persistence.NewGormAuditLogRepository(db.DB)
	uow := persistence.NewGormUnitOfWork(db.DB)

	// Initialize application services
	accountService := paymentapp.NewAccountService(accountRepo, auditLog, uow, log)
	allocationService := paymentapp.NewAllocationService(accountRepo)
	ledgerService := paymentapp.NewLedgerService(accountRepo, auditLog, uow, log)
	orderService := tradeapp.NewOrderService(orderRepo, allocationService, ledgerService, auditLog, uow, log)
	remitService := remitapp.NewRemittanceService(remitRepo, allocationService, ledgerService, auditLog, uow, log)
	tierService := tierapp.NewTierService(assignmentRepo, orderRepo, remitRepo,
		tier.Thresholds{Pro: cfg.Tier.ProThreshold, Vip: cfg.Tier.VipThreshold}, uow, log)
	auditService := auditapp.NewAuditService(auditLog, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Idempotency store for event handlers: Redis when configured,
	// in-process otherwise
	var idemStore shared.IdempotencyStore
	if cfg.Redis.Host != "" {
		redisStore, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("Redis unavailable, falling back to in-memory idempotency store", zap.Error(err))
			idemStore = cache.NewInMemoryIdempotencyStore()
		} else {
			idemStore = redisStore
			log.Info("Redis idempotency store connected",
				zap.String("host", cfg.Redis.Host),
				zap.Int("port", cfg.Redis.Port),
			)
		}
	} else {
		idemStore = cache.NewInMemoryIdempotencyStore()
	}
	defer func() {
		if err := idemStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Initialize event bus and tier recomputation handlers
	eventBus := event.NewInMemoryEventBus(log, event.WithHandlerTimeout(cfg.Event.HandlerTimeout))

	orderCompletedHandler := tierapp.NewOrderCompletedHandler(tierService, log)
	eventBus.Subscribe(event.NewIdempotentHandler(orderCompletedHandler, idemStore, log))

	remitDeliveredHandler := tierapp.NewRemittanceDeliveredHandler(tierService, log)
	eventBus.Subscribe(event.NewIdempotentHandler(remitDeliveredHandler, idemStore, log))

	log.Info("Event handlers registered",
		zap.Strings("order_completed_events", orderCompletedHandler.EventTypes()),
		zap.Strings("remittance_delivered_events", remitDeliveredHandler.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	orderService.SetEventPublisher(eventBus)
	remitService.SetEventPublisher(eventBus)
	accountService.SetEventPublisher(eventBus)
	ledgerService.SetEventPublisher(eventBus)

	// Outbound notifications on lifecycle milestones
	notifier := notification.NewLogDispatcher(log)
	orderService.SetNotificationDispatcher(notifier)
	remitService.SetNotificationDispatcher(notifier)

	// Daily usage counter sweep (if enabled)
	if cfg.Scheduler.Enabled {
		schedulerConfig := scheduler.UsageResetSchedulerConfig{
			Enabled:       cfg.Scheduler.Enabled,
			ResetHour:     cfg.Scheduler.ResetHour,
			ResetMinute:   cfg.Scheduler.ResetMinute,
			CheckInterval: time.Minute,
			JobTimeout:    cfg.Scheduler.JobTimeout,
		}
		usageScheduler := scheduler.NewUsageResetScheduler(schedulerConfig, ledgerService, log)
		if err := usageScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start usage reset scheduler", zap.Error(err))
		}
		defer func() {
			if err := usageScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping usage reset scheduler", zap.Error(err))
			}
		}()
		log.Info("Usage reset scheduler started",
			zap.Int("reset_hour", cfg.Scheduler.ResetHour),
			zap.Int("reset_minute", cfg.Scheduler.ResetMinute),
		)
	}

	// Initialize HTTP handlers
	accountHandler := handler.NewPaymentAccountHandler(accountService)
	orderHandler := handler.NewOrderHandler(orderService)
	remitHandler := handler.NewRemittanceHandler(remitService)
	tierHandler := handler.NewTierHandler(tierService)
	auditHandler := handler.NewAuditHandler(auditService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}))

	// Payment account administration
	accountRoutes := router.NewDomainGroup("payment", "/payment-accounts")
	accountRoutes.POST("", accountHandler.Create)
	accountRoutes.GET("", accountHandler.List)
	accountRoutes.GET("/:id", accountHandler.GetByID)
	accountRoutes.PUT("/:id", accountHandler.Update)
	accountRoutes.POST("/:id/enable", accountHandler.Enable)
	accountRoutes.POST("/:id/disable", accountHandler.Disable)

	// Goods order lifecycle
	orderRoutes := router.NewDomainGroup("trade", "/orders")
	orderRoutes.POST("", orderHandler.Create)
	orderRoutes.GET("", orderHandler.List)
	orderRoutes.GET("/:id", orderHandler.GetByID)
	orderRoutes.POST("/:id/validate-payment", orderHandler.ValidatePayment)
	orderRoutes.POST("/:id/reject-payment", orderHandler.RejectPayment)
	orderRoutes.POST("/:id/process", orderHandler.Process)
	orderRoutes.POST("/:id/ship", orderHandler.Ship)
	orderRoutes.POST("/:id/deliver", orderHandler.Deliver)
	orderRoutes.POST("/:id/complete", orderHandler.Complete)
	orderRoutes.POST("/:id/cancel", orderHandler.Cancel)

	// Remittance lifecycle
	remitRoutes := router.NewDomainGroup("remittance", "/remittances")
	remitRoutes.POST("", remitHandler.Create)
	remitRoutes.GET("", remitHandler.List)
	remitRoutes.GET("/:id", remitHandler.GetByID)
	remitRoutes.POST("/:id/validate-payment", remitHandler.ValidatePayment)
	remitRoutes.POST("/:id/reject-payment", remitHandler.RejectPayment)
	remitRoutes.POST("/:id/process", remitHandler.Process)
	remitRoutes.POST("/:id/ship", remitHandler.Ship)
	remitRoutes.POST("/:id/deliver", remitHandler.Deliver)
	remitRoutes.POST("/:id/complete", remitHandler.Complete)
	remitRoutes.POST("/:id/cancel", remitHandler.Cancel)

	// Customer tier assignment
	tierRoutes := router.NewDomainGroup("tier", "/users")
	tierRoutes.GET("/:id/tier", tierHandler.GetByUser)
	tierRoutes.PUT("/:id/tier", tierHandler.ManualAssign)
	tierRoutes.POST("/:id/tier/recompute", tierHandler.Recompute)
	tierRoutes.GET("/:id/tier/history", tierHandler.History)

	// Audit trail queries
	auditRoutes := router.NewDomainGroup("audit", "/audit")
	auditRoutes.GET("/actor/:userId", auditHandler.ByActor)
	auditRoutes.GET("/:table/:id", auditHandler.History)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(accountRoutes).
		Register(orderRoutes).
		Register(remitRoutes).
		Register(tierRoutes).
		Register(auditRoutes).
		Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}

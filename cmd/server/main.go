package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditapp "github.com/bizsuite/backend/internal/application/audit"
	crmapp "github.com/bizsuite/backend/internal/application/crm"
	financeapp "github.com/bizsuite/backend/internal/application/finance"
	hrapp "github.com/bizsuite/backend/internal/application/hr"
	identityapp "github.com/bizsuite/backend/internal/application/identity"
	insightapp "github.com/bizsuite/backend/internal/application/insight"
	projectapp "github.com/bizsuite/backend/internal/application/project"
	reportapp "github.com/bizsuite/backend/internal/application/report"
	"github.com/bizsuite/backend/internal/domain/hr"
	"github.com/bizsuite/backend/internal/domain/identity"
	"github.com/bizsuite/backend/internal/domain/insight"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/auth"
	"github.com/bizsuite/backend/internal/infrastructure/cache"
	"github.com/bizsuite/backend/internal/infrastructure/config"
	"github.com/bizsuite/backend/internal/infrastructure/event"
	"github.com/bizsuite/backend/internal/infrastructure/logger"
	"github.com/bizsuite/backend/internal/infrastructure/persistence"
	"github.com/bizsuite/backend/internal/infrastructure/scheduler"
	"github.com/bizsuite/backend/internal/infrastructure/storage"
	"github.com/bizsuite/backend/internal/infrastructure/telemetry"
	"github.com/bizsuite/backend/internal/interfaces/http/handler"
	"github.com/bizsuite/backend/internal/interfaces/http/middleware"
	"github.com/bizsuite/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	_ "github.com/bizsuite/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			BizSuite Backend API
//	@version		1.0
//	@description	Multi-tenant business suite backend covering CRM, HR, finance, projects and AI insights

//	@contact.name	API Support
//	@contact.url	https://github.com/bizsuite/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

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

	log.Info("Starting BizSuite Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize OpenTelemetry tracing and metrics
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Bridge application logs to the OTEL Collector alongside local output
	logsProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logs provider", zap.Error(err))
	}
	defer func() {
		if err := logsProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logs provider", zap.Error(err))
		}
	}()
	if logsProvider.IsEnabled() {
		bridged, err := telemetry.CreateBridgedLoggerFromConfig(&telemetry.BaseLoggerConfig{
			Level:      cfg.Log.Level,
			Format:     cfg.Log.Format,
			Output:     cfg.Log.Output,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		}, logsProvider, cfg.Telemetry.ServiceName)
		if err != nil {
			log.Warn("Failed to create OTEL log bridge, keeping local logger", zap.Error(err))
		} else {
			log = bridged
		}
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Register database query tracing
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        "postgresql",
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	// Initialize repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	dealRepo := persistence.NewGormDealRepository(db.DB)
	opportunityRepo := persistence.NewGormOpportunityRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	leaveRepo := persistence.NewGormLeaveRequestRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)
	insightRepo := persistence.NewGormInsightRepository(db.DB)
	decisionRepo := persistence.NewGormDecisionRepository(db.DB)
	metricRepo := persistence.NewGormMetricRepository(db.DB)
	alertRepo := persistence.NewGormAlertRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)

	// Report cache: Redis preferred, in-memory fallback for local runs
	cacheFactory := cache.NewReportCacheFactory(cfg.Redis, cache.WithLogger(log))
	reportCache, err := cacheFactory.CreateCache()
	if err != nil {
		log.Fatal("Failed to create report cache", zap.Error(err))
	}

	// Token blacklist backs logout and forced session invalidation
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable for token blacklist, using in-memory fallback", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
	}

	// Receipt object storage (S3-compatible, presigned URLs only)
	var receiptStorage financeapp.ReceiptStorageService
	s3Storage, err := storage.NewS3ReceiptStorage(&cfg.Storage, log)
	if err != nil {
		log.Warn("Receipt storage unavailable, using stub presigner", zap.Error(err))
		receiptStorage = storage.NewStubReceiptStorage()
	} else {
		receiptStorage = s3Storage
	}

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(tenantRepo, userRepo, jwtService, blacklist,
		identityapp.AuthServiceConfig{
			MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
			LockDuration:     cfg.Auth.LockDuration,
		}, log)
	tenantService := identityapp.NewTenantService(tenantRepo, userRepo, log)
	userService := identityapp.NewUserService(tenantRepo, userRepo, log)

	// Business module services
	dealService := crmapp.NewDealService(dealRepo, log)
	opportunityService := crmapp.NewOpportunityService(opportunityRepo, dealRepo, log)
	employeeService := hrapp.NewEmployeeService(employeeRepo, log)
	leaveService := hrapp.NewLeaveService(leaveRepo, employeeRepo, log)
	invoiceService := financeapp.NewInvoiceService(invoiceRepo, log)
	expenseService := financeapp.NewExpenseService(expenseRepo, receiptStorage, log)
	taskService := projectapp.NewTaskService(taskRepo, log)

	// Insight and decision engine services
	insightService := insightapp.NewInsightService(insightRepo, dealRepo, opportunityRepo, invoiceRepo, leaveRepo, taskRepo, log)
	decisionService := insightapp.NewDecisionService(decisionRepo, log)
	performanceService := insightapp.NewPerformanceService(metricRepo, alertRepo, reportCache, cfg.Insight, log)
	voiceService := insightapp.NewVoiceService(log)

	// Audit trail. The serializer captures the emitting event as the
	// entry's payload for forensic queries.
	trailService := auditapp.NewTrailService(auditRepo, log)
	recorder := auditapp.NewRecorder(auditRepo, event.NewEventSerializerWithDefaults(), log)

	// Cross-module dashboard
	dashboardService := reportapp.NewDashboardService(
		dealRepo, invoiceRepo, employeeRepo, leaveRepo, taskRepo, alertRepo, reportCache, log,
	)
	dashboardInvalidator := reportapp.NewDashboardInvalidator(dashboardService)

	// Initialize event bus and subscribers.
	// The audit recorder turns domain events into trail entries; the
	// dashboard invalidator drops the cached section of the module that
	// emitted the event.
	eventBus := event.NewInMemoryEventBus(log, event.BusConfig{
		Async:       cfg.Event.AsyncEnabled,
		BufferSize:  cfg.Event.BufferSize,
		WorkerCount: cfg.Event.WorkerCount,
	})
	eventBus.Subscribe(recorder)
	eventBus.Subscribe(dashboardInvalidator)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	dealService.SetEventPublisher(eventBus)
	opportunityService.SetEventPublisher(eventBus)
	employeeService.SetEventPublisher(eventBus)
	leaveService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)
	expenseService.SetEventPublisher(eventBus)
	taskService.SetEventPublisher(eventBus)

	// Periodic business gauges (open alerts, pending leave days)
	var businessMetrics *telemetry.BusinessMetrics
	if cfg.Telemetry.Enabled {
		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:  meterProvider.Meter("bizsuite.business"),
			Logger: log,
			AlertProvider: &gaugeMetricsProvider{
				alertRepo: alertRepo,
				leaveRepo: leaveRepo,
			},
		})
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
		} else {
			businessMetrics.StartPeriodicCollection(context.Background(),
				&activeTenantProvider{tenantRepo: tenantRepo}, 0)
			defer businessMetrics.Stop()
		}
	}

	// Maintenance scheduler: metric retention, alert evaluation and
	// insight generation on cron schedules across active tenants
	if cfg.Scheduler.Enabled {
		jobRepo := scheduler.NewMaintenanceJobRepository(db.DB)
		executor := scheduler.NewMaintenanceExecutor(cfg.Insight, metricRepo, performanceService, insightService, log)
		maintenanceScheduler, err := scheduler.NewMaintenanceCronScheduler(cfg.Scheduler, executor, tenantRepo, jobRepo, log)
		if err != nil {
			log.Fatal("Failed to create maintenance scheduler", zap.Error(err))
		}
		if err := maintenanceScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start maintenance scheduler", zap.Error(err))
		}
		defer func() {
			if err := maintenanceScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping maintenance scheduler", zap.Error(err))
			}
		}()
		log.Info("Maintenance scheduler started",
			zap.String("metric_cron", cfg.Scheduler.MetricRollupCron),
			zap.String("insight_cron", cfg.Scheduler.InsightCron),
		)
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService, recorder)
	tenantHandler := handler.NewTenantHandler(tenantService)
	userHandler := handler.NewUserHandler(userService)
	dealHandler := handler.NewDealHandler(dealService)
	opportunityHandler := handler.NewOpportunityHandler(opportunityService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	leaveHandler := handler.NewLeaveHandler(leaveService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	taskHandler := handler.NewTaskHandler(taskService)
	insightHandler := handler.NewInsightHandler(insightService)
	decisionHandler := handler.NewDecisionHandler(decisionService)
	performanceHandler := handler.NewPerformanceHandler(performanceService)
	voiceHandler := handler.NewVoiceHandler(voiceService)
	auditHandler := handler.NewAuditHandler(trailService)
	reportHandler := handler.NewReportHandler(dashboardService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Tracing - OpenTelemetry spans per request
	// 4. Logger - Log requests
	// 5. Metrics - RED metrics per route
	// 6. Security - Add security headers
	// 7. CORS - Handle cross-origin requests
	// 8. BodyLimit - Limit request body size
	// 9. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing())
		engine.Use(middleware.SpanErrorMarker())
	}
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetricsWithMeter(meterProvider.Meter("bizsuite.http"), cfg.Telemetry.Enabled))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Swagger documentation endpoint with optional protection
	swaggerGroup := engine.Group("/swagger")
	swaggerGroup.Use(middleware.SwaggerProtection(middleware.SwaggerConfig{
		Enabled:     cfg.Swagger.Enabled,
		RequireAuth: cfg.Swagger.RequireAuth,
		AllowedIPs:  cfg.Swagger.AllowedIPs,
	}, middleware.JWTAuthMiddleware(jwtService)))
	swaggerGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication to API routes, then resolve tenant
	// context from the validated claims
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.Required = false
	tenantConfig.Logger = log
	r.Use(
		middleware.JWTAuthMiddlewareWithConfig(jwtConfig),
		middleware.TenantMiddlewareWithConfig(tenantConfig),
	)

	// Authentication (login/refresh are public, the rest need a token)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.Use(middleware.RateLimit(authLimiter))
	}
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.GetCurrentUser)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// Tenant management (platform scope, admin only)
	tenantRoutes := router.NewDomainGroup("tenants", "/tenants")
	tenantRoutes.Use(middleware.RequireRole(string(identity.UserRoleAdmin)))
	tenantRoutes.POST("", tenantHandler.Create)
	tenantRoutes.GET("", tenantHandler.List)
	tenantRoutes.GET("/stats/count", tenantHandler.CountByStatus)
	tenantRoutes.GET("/code/:code", tenantHandler.GetByCode)
	tenantRoutes.GET("/:id", tenantHandler.GetByID)
	tenantRoutes.PUT("/:id", tenantHandler.Update)
	tenantRoutes.PUT("/:id/plan", tenantHandler.SetPlan)
	tenantRoutes.DELETE("/:id", tenantHandler.Delete)
	tenantRoutes.POST("/:id/activate", tenantHandler.Activate)
	tenantRoutes.POST("/:id/deactivate", tenantHandler.Deactivate)
	tenantRoutes.POST("/:id/suspend", tenantHandler.Suspend)

	// User management within a tenant
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.POST("", userHandler.Create)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.GetByID)
	userRoutes.PUT("/:id", userHandler.Update)
	userRoutes.PUT("/:id/password", userHandler.ResetPassword)
	userRoutes.DELETE("/:id", userHandler.Delete)
	userRoutes.POST("/:id/activate", userHandler.Activate)
	userRoutes.POST("/:id/deactivate", userHandler.Deactivate)
	userRoutes.POST("/:id/lock", userHandler.Lock)
	userRoutes.POST("/:id/unlock", userHandler.Unlock)

	// CRM domain (deals, opportunities)
	crmRoutes := router.NewDomainGroup("crm", "/crm")
	crmRoutes.POST("/deals", dealHandler.Create)
	crmRoutes.GET("/deals", dealHandler.List)
	crmRoutes.GET("/deals/stats/pipeline", dealHandler.PipelineSummary)
	crmRoutes.GET("/deals/code/:code", dealHandler.GetByCode)
	crmRoutes.GET("/deals/:id", dealHandler.GetByID)
	crmRoutes.PUT("/deals/:id", dealHandler.Update)
	crmRoutes.DELETE("/deals/:id", dealHandler.Delete)
	crmRoutes.POST("/deals/:id/advance", dealHandler.Advance)
	crmRoutes.POST("/deals/:id/win", dealHandler.Win)
	crmRoutes.POST("/deals/:id/lose", dealHandler.Lose)
	crmRoutes.POST("/opportunities", opportunityHandler.Create)
	crmRoutes.GET("/opportunities", opportunityHandler.List)
	crmRoutes.GET("/opportunities/:id", opportunityHandler.GetByID)
	crmRoutes.PUT("/opportunities/:id", opportunityHandler.Update)
	crmRoutes.DELETE("/opportunities/:id", opportunityHandler.Delete)
	crmRoutes.POST("/opportunities/:id/convert", opportunityHandler.Convert)
	crmRoutes.POST("/opportunities/:id/drop", opportunityHandler.Drop)

	// HR domain (employees, leave requests)
	hrRoutes := router.NewDomainGroup("hr", "/hr")
	hrRoutes.POST("/employees", employeeHandler.Create)
	hrRoutes.GET("/employees", employeeHandler.List)
	hrRoutes.GET("/employees/number/:number", employeeHandler.GetByNumber)
	hrRoutes.GET("/employees/:id", employeeHandler.GetByID)
	hrRoutes.PUT("/employees/:id", employeeHandler.Update)
	hrRoutes.DELETE("/employees/:id", employeeHandler.Delete)
	hrRoutes.POST("/employees/:id/terminate", employeeHandler.Terminate)
	hrRoutes.GET("/employees/:id/leave-balance", leaveHandler.Balance)
	hrRoutes.POST("/leaves", leaveHandler.Create)
	hrRoutes.GET("/leaves", leaveHandler.List)
	hrRoutes.GET("/leaves/:id", leaveHandler.GetByID)
	hrRoutes.PUT("/leaves/:id", leaveHandler.Update)
	hrRoutes.DELETE("/leaves/:id", leaveHandler.Delete)
	hrRoutes.POST("/leaves/:id/submit", leaveHandler.Submit)
	hrRoutes.POST("/leaves/:id/approve", leaveHandler.Approve)
	hrRoutes.POST("/leaves/:id/reject", leaveHandler.Reject)
	hrRoutes.POST("/leaves/:id/cancel", leaveHandler.Cancel)

	// Finance domain (invoices, expenses with receipts)
	financeRoutes := router.NewDomainGroup("finance", "/finance")
	financeRoutes.POST("/invoices", invoiceHandler.Create)
	financeRoutes.GET("/invoices", invoiceHandler.List)
	financeRoutes.GET("/invoices/stats/receivables", invoiceHandler.ReceivablesSummary)
	financeRoutes.GET("/invoices/number/:number", invoiceHandler.GetByNumber)
	financeRoutes.GET("/invoices/:id", invoiceHandler.GetByID)
	financeRoutes.PUT("/invoices/:id", invoiceHandler.Update)
	financeRoutes.DELETE("/invoices/:id", invoiceHandler.Delete)
	financeRoutes.POST("/invoices/:id/items", invoiceHandler.AddItem)
	financeRoutes.PUT("/invoices/:id/items/:item_id", invoiceHandler.UpdateItem)
	financeRoutes.DELETE("/invoices/:id/items/:item_id", invoiceHandler.RemoveItem)
	financeRoutes.POST("/invoices/:id/issue", invoiceHandler.Issue)
	financeRoutes.POST("/invoices/:id/pay", invoiceHandler.MarkPaid)
	financeRoutes.POST("/invoices/:id/void", invoiceHandler.Void)
	financeRoutes.POST("/expenses", expenseHandler.Create)
	financeRoutes.GET("/expenses", expenseHandler.List)
	financeRoutes.GET("/expenses/stats/summary", expenseHandler.Summary)
	financeRoutes.GET("/expenses/:id", expenseHandler.GetByID)
	financeRoutes.PUT("/expenses/:id", expenseHandler.Update)
	financeRoutes.DELETE("/expenses/:id", expenseHandler.Delete)
	financeRoutes.POST("/expenses/:id/submit", expenseHandler.Submit)
	financeRoutes.POST("/expenses/:id/approve", expenseHandler.Approve)
	financeRoutes.POST("/expenses/:id/reject", expenseHandler.Reject)
	financeRoutes.POST("/expenses/:id/pay", expenseHandler.MarkPaid)
	financeRoutes.POST("/expenses/:id/cancel", expenseHandler.Cancel)
	financeRoutes.POST("/expenses/:id/receipt/upload-url", expenseHandler.RequestReceiptUpload)
	financeRoutes.POST("/expenses/:id/receipt/confirm", expenseHandler.ConfirmReceiptUpload)
	financeRoutes.GET("/expenses/:id/receipt", expenseHandler.ReceiptDownloadURL)

	// Project domain (tasks, per-project progress)
	projectRoutes := router.NewDomainGroup("projects", "/projects")
	projectRoutes.POST("/tasks", taskHandler.Create)
	projectRoutes.GET("/tasks", taskHandler.List)
	projectRoutes.GET("/tasks/code/:code", taskHandler.GetByCode)
	projectRoutes.GET("/tasks/:id", taskHandler.GetByID)
	projectRoutes.PUT("/tasks/:id", taskHandler.Update)
	projectRoutes.DELETE("/tasks/:id", taskHandler.Delete)
	projectRoutes.POST("/tasks/:id/start", taskHandler.Start)
	projectRoutes.POST("/tasks/:id/review", taskHandler.SubmitForReview)
	projectRoutes.POST("/tasks/:id/request-changes", taskHandler.RequestChanges)
	projectRoutes.POST("/tasks/:id/complete", taskHandler.Complete)
	projectRoutes.POST("/tasks/:id/reopen", taskHandler.Reopen)
	projectRoutes.POST("/tasks/:id/cancel", taskHandler.Cancel)
	projectRoutes.POST("/tasks/:id/hours", taskHandler.LogHours)
	projectRoutes.GET("/:name/progress", taskHandler.Progress)

	// AI insights and decision engine
	insightRoutes := router.NewDomainGroup("insights", "/insights")
	insightRoutes.GET("", insightHandler.List)
	insightRoutes.POST("/generate", insightHandler.Generate)
	insightRoutes.GET("/:id", insightHandler.GetByID)
	insightRoutes.POST("/:id/acknowledge", insightHandler.Acknowledge)
	insightRoutes.DELETE("/:id", insightHandler.Delete)

	decisionRoutes := router.NewDomainGroup("decisions", "/decisions")
	decisionRoutes.POST("", decisionHandler.Request)
	decisionRoutes.GET("", decisionHandler.List)
	decisionRoutes.GET("/:id", decisionHandler.GetByID)
	decisionRoutes.POST("/:id/accept", decisionHandler.Accept)
	decisionRoutes.POST("/:id/reject", decisionHandler.Reject)

	// Performance metrics and alerts
	performanceRoutes := router.NewDomainGroup("performance", "/performance")
	performanceRoutes.POST("/metrics", performanceHandler.RecordMetric)
	performanceRoutes.GET("/metrics", performanceHandler.ListMetrics)
	performanceRoutes.GET("/metrics/names", performanceHandler.MetricNames)
	performanceRoutes.GET("/metrics/:name/summary", performanceHandler.Summary)
	performanceRoutes.GET("/alerts", performanceHandler.ListAlerts)
	performanceRoutes.POST("/alerts/evaluate", performanceHandler.EvaluateAlerts)
	performanceRoutes.POST("/alerts/:id/resolve", performanceHandler.ResolveAlert)

	// Voice command matching
	voiceRoutes := router.NewDomainGroup("voice", "/voice")
	voiceRoutes.POST("/match", voiceHandler.Match)

	// Audit trail (read-only)
	auditRoutes := router.NewDomainGroup("audit", "/audit")
	auditRoutes.GET("/entries", auditHandler.Search)
	auditRoutes.GET("/entries/:id", auditHandler.GetByID)

	// Cross-module reports
	reportRoutes := router.NewDomainGroup("reports", "/reports")
	reportRoutes.GET("/dashboard", reportHandler.Dashboard)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	// Register all domain groups
	r.Register(authRoutes).
		Register(tenantRoutes).
		Register(userRoutes).
		Register(crmRoutes).
		Register(hrRoutes).
		Register(financeRoutes).
		Register(projectRoutes).
		Register(insightRoutes).
		Register(decisionRoutes).
		Register(performanceRoutes).
		Register(voiceRoutes).
		Register(auditRoutes).
		Register(reportRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
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

// gaugeMetricsProvider feeds the periodic business gauges from the
// insight and HR repositories
type gaugeMetricsProvider struct {
	alertRepo insight.AlertRepository
	leaveRepo hr.LeaveRequestRepository
}

func (p *gaugeMetricsProvider) GetOpenAlertCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return p.alertRepo.CountOpen(ctx, tenantID)
}

func (p *gaugeMetricsProvider) GetPendingLeaveDays(ctx context.Context, tenantID uuid.UUID) (float64, error) {
	return p.leaveRepo.SumDaysByStatus(ctx, tenantID, hr.LeaveStatusSubmitted)
}

var _ telemetry.AlertMetricsProvider = (*gaugeMetricsProvider)(nil)

// activeTenantProvider lists active tenant IDs for periodic collection
type activeTenantProvider struct {
	tenantRepo identity.TenantRepository
}

func (p *activeTenantProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	tenants, err := p.tenantRepo.FindByStatus(ctx, identity.TenantStatusActive, shared.Filter{PageSize: 100})
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(tenants))
	for i := range tenants {
		ids[i] = tenants[i].ID
	}
	return ids, nil
}

var _ telemetry.TenantProvider = (*activeTenantProvider)(nil)

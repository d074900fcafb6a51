package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/quizarena/backend/internal/config"
	"github.com/quizarena/backend/internal/database"
	"github.com/quizarena/backend/internal/dto"
	"github.com/quizarena/backend/internal/handlers"
	"github.com/quizarena/backend/internal/logging"
	"github.com/quizarena/backend/internal/metrics"
	"github.com/quizarena/backend/internal/middleware"
	"github.com/quizarena/backend/internal/ratelimit"
	"github.com/quizarena/backend/internal/routes"
	"github.com/quizarena/backend/internal/services"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Database log handler (ERROR+ async batch, moderation audit trail)
	dbLogHandler := logging.NewDBHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.StdoutHandler(),
		dbLogHandler,
	)))

	// Log cleanup
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Redis (submission rate limiting + sanction event channel); optional
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		rdb = redis.NewClient(opts)
		slog.Info("redis connected", "addr", opts.Addr)
	} else {
		slog.Warn("REDIS_URL not set, submission limiter and sanction events disabled")
	}

	// Policy: seed defaults, then load and validate
	policyStore := services.NewPolicyStore(database.DB)
	if err := policyStore.Seed(); err != nil {
		slog.Error("policy seed failed", "error", err)
		os.Exit(1)
	}
	if err := policyStore.Load(); err != nil {
		slog.Error("policy load failed", "error", err)
		os.Exit(1)
	}

	// Services
	sessionStore := services.NewGormSessionStore(database.DB)
	sessionService := services.NewSessionService(database.DB, sessionStore, cfg)
	reportRepository := services.NewReportRepository(database.DB, policyStore)
	notifier := services.NewSanctionNotifier(rdb)
	reportService := services.NewReportService(sessionService, reportRepository, policyStore, notifier)
	moderationService := services.NewModerationService(database.DB)

	// Sanction expiry reconciler
	reconciler := services.NewSanctionReconciler(database.DB, cfg.ReconcileInterval)
	if !reconciler.Start() {
		slog.Error("reconciler failed to start")
		os.Exit(1)
	}

	// Handlers
	reportLimiter := ratelimit.NewLimiter(rdb, cfg.ReportRateMax, cfg.ReportRateWindow)
	authHandler := handlers.NewAuthHandler(sessionService)
	healthHandler := handlers.NewHealthHandler()
	reportHandler := handlers.NewReportHandler(reportService, moderationService, sessionService, reportLimiter)
	adminHandler := handlers.NewAdminHandler(database.DB, moderationService, policyStore)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Prometheus scrape endpoint on its own port
	metrics.Serve(cfg.MetricsPort)

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})

	routes.Setup(app, cfg, database.DB, authHandler, healthHandler, reportHandler, adminHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	reconciler.Dispose()
	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}

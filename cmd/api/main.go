package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"hydraapi/docs"
	"hydraapi/internal/config"
	"hydraapi/internal/database"
	"hydraapi/internal/database/migration"
	handlers "hydraapi/internal/http/handler"
	"hydraapi/internal/http/middleware"
	"hydraapi/internal/logging"
	"hydraapi/internal/otel"
	"hydraapi/internal/repository/postgres"
	"hydraapi/internal/service"
	"hydraapi/internal/storage"
)

// @title Hydra API
// @version 1.0
// @description Runs THC-Hydra against authorised targets and records the credentials it finds.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	logger := logging.New(cfg.Log.Level, cfg.Location())
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	db, err := database.NewPostgres(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO, logger)
	if err != nil {
		logger.Fatal("failed to initialize object storage", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	runMetrics, err := service.NewMetrics(reg)
	if err != nil {
		logger.Fatal("failed to register hydra metrics", zap.Error(err))
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		logger.Fatal("failed to register http metrics", zap.Error(err))
	}

	scanRepo := postgres.NewScanPostgres(db)
	scanSvc := service.NewScanService(
		service.NewClientFactory(cfg.Hydra, logger.Named("hydra")),
		objStore,
		scanRepo,
		service.Config{
			MaxConcurrent:   cfg.Hydra.MaxConcurrent,
			WordlistDir:     cfg.Hydra.WordlistDir,
			ExportURLExpiry: time.Duration(cfg.Hydra.ExportURLExpirySec) * time.Second,
			Logger:          logger.Named("scan"),
			Metrics:         runMetrics,
		},
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// hydra runs are synchronous; writes must outlast the longest allowed run
		WriteTimeout: writeTimeout(cfg.Hydra),
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger.Named("http")))
	app.Use(httpMetrics.Handler())

	handlers.RegisterRoutes(app, db, scanSvc, reg)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			logger.Error("server shutdown", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("hydra", cfg.Hydra.Path))
	if err := app.Listen(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

// writeTimeout is zero (unbounded) unless hydra runs are bounded too.
func writeTimeout(h config.HydraConfig) time.Duration {
	if h.Timeout() == 0 {
		return 0
	}
	return h.Timeout() + 30*time.Second
}

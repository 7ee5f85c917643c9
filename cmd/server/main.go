package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"employee-portal/internal/adapters/cache"
	"employee-portal/internal/adapters/http/handlers"
	"employee-portal/internal/adapters/http/middleware"
	"employee-portal/internal/adapters/http/routes"
	"employee-portal/internal/adapters/persistence/memory"
	"employee-portal/internal/adapters/persistence/models"
	"employee-portal/internal/adapters/persistence/repositories"
	"employee-portal/internal/config"
	"employee-portal/internal/core/services"
	"employee-portal/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	_ "employee-portal/docs" // Swagger docs
)

// @title Employee Portal API
// @version 1.0
// @description Employee records with administrator maintenance and employee self service accounts

// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	log := config.NewLogger(os.Stdout, cfg)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx := context.Background()

	// Storage
	deps := routes.Dependencies{
		Config:  cfg,
		Log:     log,
		Metrics: metrics.New(),
	}
	db, err := openStore(cfg, log, &deps)
	if err != nil {
		return err
	}
	defer config.CloseDatabase(db)

	// Development admin
	if err := config.NewSeeder(deps.Admins, cfg, log).Run(ctx); err != nil {
		log.Warn("admin seeding failed", slog.Any("error", err))
	}

	// Optional stats cache
	if cfg.Redis.Addr != "" {
		client, err := cache.Connect(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Warn("redis unavailable, stats cache disabled", slog.Any("error", err))
		} else {
			defer client.Close()
			deps.StatsCache = cache.NewStatsCache(client, cfg.Stats.CacheTTL)
			deps.Cache = deps.StatsCache
			log.Info("redis connected", slog.String("addr", cfg.Redis.Addr))
		}
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Employee Portal API v1.0",
		ErrorHandler: middleware.CustomErrorHandler(log),
	})

	// Setup middlewares
	middleware.Setup(app, cfg, deps.Metrics)

	// Setup routes
	statsService := routes.Setup(app, deps)

	// Stats cache warm-up
	if deps.StatsCache.Enabled() {
		cronService, err := services.NewCronService(statsService, cfg.Stats.RefreshSchedule, log)
		if err != nil {
			return err
		}
		cronService.Start()
		defer cronService.Stop()
	}

	// Graceful shutdown
	go gracefulShutdown(app, log)

	// Start server
	log.Info("server starting", slog.String("port", cfg.Port), slog.String("mode", cfg.AppMode))
	return app.Listen(":" + cfg.Port)
}

// openStore fills the repositories of deps and returns the SQL handle, which is nil
// for the memory driver
func openStore(cfg *config.Config, log *slog.Logger, deps *routes.Dependencies) (*gorm.DB, error) {
	if cfg.Database.Driver == config.DriverMemory {
		if cfg.IsProd() {
			return nil, errors.New("memory driver is not allowed in prod")
		}
		store := memory.New()
		deps.Employees = store.Employees()
		deps.Admins = store.Admins()
		log.Warn("using in-memory store, data is lost on restart")
		return nil, nil
	}

	db, err := config.ConnectDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		config.CloseDatabase(db)
		return nil, err
	}
	log.Info("database migration completed")

	deps.Employees = repositories.NewEmployeeRepository(db)
	deps.Admins = repositories.NewAdminRepository(db)
	deps.Database = handlers.PingFunc(func(ctx context.Context) error {
		return config.HealthCheck(ctx, db)
	})
	return db, nil
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, log *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
		log.Error("error during shutdown", slog.Any("error", err))
	}
	log.Info("server stopped gracefully")
}

package routes

import (
	"log/slog"

	"employee-portal/internal/adapters/cache"
	"employee-portal/internal/adapters/http/handlers"
	"employee-portal/internal/adapters/http/middleware"
	"employee-portal/internal/adapters/persistence/repositories"
	"employee-portal/internal/config"
	"employee-portal/internal/core/services"
	"employee-portal/internal/pkg/jwt"
	"employee-portal/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Dependencies are the adapters the routes are built on
type Dependencies struct {
	Config     *config.Config
	Log        *slog.Logger
	Metrics    *metrics.Metrics
	Employees  repositories.EmployeeRepository
	Admins     repositories.AdminRepository
	StatsCache *cache.StatsCache
	Database   handlers.Pinger
	Cache      handlers.Pinger
	Clock      services.Clock
}

// Setup configures all routes for the application and returns the stats service
// so the caller can schedule its refresh.
func Setup(app *fiber.App, deps Dependencies) *services.StatsService {
	cfg := deps.Config
	log := deps.Log

	// Initialize services
	tokens := jwt.NewIssuer(cfg.JWT.Secret, deps.Clock)
	statsService := services.NewStatsService(deps.Employees, deps.StatsCache, log)
	authService := services.NewAuthService(deps.Admins, deps.Employees, tokens, cfg.BcryptCost, deps.Clock, log)
	accountService := services.NewAccountService(deps.Employees, tokens, cfg.BcryptCost, deps.Clock, log)
	employeeService := services.NewEmployeeService(deps.Employees, statsService, deps.Clock, log)
	authorizer := services.NewAuthorizer(tokens, deps.Admins, deps.Employees)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.AppMode, deps.Database, deps.Cache)
	authHandler := handlers.NewAuthHandler(authService, deps.Metrics, log)
	employeeAuthHandler := handlers.NewEmployeeAuthHandler(accountService, authService, deps.Metrics, log)
	employeeHandler := handlers.NewEmployeeHandler(employeeService, statsService, log)
	schemaHandler := handlers.NewSchemaHandler()

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/metrics", deps.Metrics.Handler())

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	authLimiter := middleware.AuthRateLimiter(cfg)

	// Admin auth routes
	auth := api.Group("/auth", middleware.NoCacheHeaders())
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authLimiter, authHandler.Login)
	auth.Get("/me", middleware.AdminOnly(authorizer, log), authHandler.Me)

	// Employee auth routes
	employeeAuth := api.Group("/employee-auth", middleware.NoCacheHeaders())
	employeeAuth.Post("/register", authLimiter, employeeAuthHandler.Register)
	employeeAuth.Post("/login", authLimiter, employeeAuthHandler.Login)
	employeeAuth.Get("/me", middleware.EmployeeOnly(authorizer, log), employeeAuthHandler.Me)
	employeeAuth.Get("/profile", middleware.EmployeeOnly(authorizer, log), employeeAuthHandler.Profile)

	// Employee maintenance routes (admin only)
	employees := api.Group("/employees", middleware.NoCacheHeaders(), middleware.AdminOnly(authorizer, log))
	employees.Get("/stats/overview", employeeHandler.Stats)
	employees.Get("/", employeeHandler.List)
	employees.Post("/", employeeHandler.Create)
	employees.Get("/:id", employeeHandler.Get)
	employees.Put("/:id", employeeHandler.Update)
	employees.Delete("/:id", employeeHandler.Delete)

	// Validation rule tables
	api.Get("/schema/employee", middleware.PublicCache(cfg.Stats.CacheTTL), schemaHandler.Employee)

	return statsService
}

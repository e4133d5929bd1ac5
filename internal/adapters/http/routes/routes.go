package routes

import (
	"time"

	"imc-punching/internal/adapters/http/handlers"
	"imc-punching/internal/adapters/http/middleware"
	"imc-punching/internal/adapters/persistence/repositories"
	"imc-punching/internal/adapters/storage"
	"imc-punching/internal/config"
	"imc-punching/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Handlers groups the HTTP handlers mounted by Mount
type Handlers struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
	Punch  *handlers.PunchHandler
}

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, provider storage.Provider, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	punchRepo := repositories.NewPunchRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg)
	punchService := services.NewPunchService(punchRepo, customerRepo, provider, cfg.Timezone)

	// Initialize handlers
	h := Handlers{
		Health: handlers.NewHealthHandler(config.HealthCheck),
		Auth:   handlers.NewAuthHandler(authService),
		Punch:  handlers.NewPunchHandler(punchService),
	}

	// Uploaded photos, when kept on local disk
	if local, ok := provider.(*storage.LocalProvider); ok {
		app.Use(storage.URLPath, middleware.CacheControl(24*time.Hour))
		app.Static(storage.URLPath, local.Dir(), fiber.Static{Browse: false})
	}

	Mount(app, h, cfg)
}

// Mount registers the API routes on app
func Mount(app *fiber.App, h Handlers, cfg *config.Config) {
	// Health check & root routes
	app.Get("/", h.Health.Root)
	app.Get("/health", h.Health.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")

	// Auth routes (public)
	authRoutes := api.Group("/auth")
	authRoutes.Post("/login", middleware.AuthRateLimiter(), h.Auth.Login)

	// Punch routes (authenticated)
	punchRoutes := api.Group("/punch")
	punchRoutes.Use(middleware.AuthMiddleware(cfg))
	setupPunchRoutes(punchRoutes, h.Punch)
}

// setupPunchRoutes configures punch routes
func setupPunchRoutes(router fiber.Router, handler *handlers.PunchHandler) {
	router.Get("/customers", handler.ListCustomers)
	router.Post("/punch-in", handler.PunchIn)
	router.Post("/punch-out", handler.PunchOut)
	router.Get("/pending", handler.ListPending)
	router.Get("/completed", handler.ListCompleted)

	// Admin only
	router.Get("/date/:date", middleware.AdminOnly(), handler.ListByDate)
	router.Get("/recent", middleware.AdminOnly(), handler.ListRecent)

	// Must stay last: matches any single segment
	router.Get("/:id", handler.GetPunch)
}

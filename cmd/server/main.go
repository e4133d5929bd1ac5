package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"imc-punching/internal/adapters/http/middleware"
	"imc-punching/internal/adapters/http/routes"
	"imc-punching/internal/adapters/persistence/models"
	"imc-punching/internal/adapters/storage"
	"imc-punching/internal/config"
	"imc-punching/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "imc-punching/docs" // Swagger docs
)

// @title IMC Punching API
// @version 1.0
// @description Field staff attendance: punch in and out at customer sites with a photo.

// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// bodyLimitSlack leaves room for multipart framing and text fields next to the photo
const bodyLimitSlack = 1 << 20

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate. acc_users and acc_master belong to the back office and
	// are only created when seeding a dev database.
	if err := models.AutoMigrate(db, cfg.SeedDev); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	if cfg.SeedDev {
		if err := config.SeedDevData(db); err != nil {
			log.Printf("⚠️ Warning: Failed to seed dev data: %v", err)
		}
	}

	// Photo storage
	provider, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatalf("❌ Failed to init photo storage: %v", err)
	}

	// Nightly sweep of expired local photos
	if sweeper, ok := provider.(storage.Sweeper); ok {
		cronService := services.NewCronService(sweeper, cfg.Timezone)
		if err := cronService.Start(); err != nil {
			log.Fatalf("❌ Failed to start cron: %v", err)
		}
		defer cronService.Stop()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "IMC Punching API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    int(cfg.Storage.MaxUploadBytes) + bodyLimitSlack,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, db, provider, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}

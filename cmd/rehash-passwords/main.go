// Command rehash-passwords replaces plain-text account passwords left by the
// back office with bcrypt hashes, so those accounts can sign in again.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"imc-punching/internal/adapters/persistence/repositories"
	"imc-punching/internal/config"
	"imc-punching/internal/core/services"
)

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	auth := services.NewAuthService(repositories.NewUserRepository(db), cfg)
	n, err := auth.RehashLegacyPasswords(ctx)
	if err != nil {
		log.Printf("❌ Rehash stopped after %d accounts: %v", n, err)
		os.Exit(1)
	}
	log.Printf("✅ Rehashed %d legacy passwords", n)
}

// Command migrate-photos uploads punch photos still kept on local disk to the
// S3 bucket and points their records at the new objects.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"imc-punching/internal/adapters/persistence/repositories"
	"imc-punching/internal/adapters/storage"
	"imc-punching/internal/config"
	"imc-punching/internal/core/services"
)

func main() {
	deleteLocal := flag.Bool("delete-local", false, "remove each local file after it is migrated")
	dryRun := flag.Bool("dry-run", false, "report what would be migrated without writing")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}
	if cfg.Storage.S3Bucket == "" {
		log.Fatal("❌ S3_BUCKET must be set")
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	local, err := storage.NewLocalProvider(cfg.Storage)
	if err != nil {
		log.Fatalf("❌ Failed to open upload dir: %v", err)
	}
	remote, err := storage.NewS3Provider(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("❌ Failed to init S3: %v", err)
	}

	migrator := services.NewPhotoMigrationService(repositories.NewPunchRepository(db), local, remote)
	report, err := migrator.Run(ctx, *deleteLocal, *dryRun)
	if err != nil {
		log.Fatalf("❌ Photo migration aborted: %v", err)
	}
	if report.Failed > 0 {
		os.Exit(1)
	}
}

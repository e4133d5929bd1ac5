package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"imc-punching/internal/adapters/persistence/repositories"
	"imc-punching/internal/adapters/storage"
	"imc-punching/internal/core/domain"
)

// PhotoMigrationService moves photos still on local disk to a remote provider
type PhotoMigrationService struct {
	punchRepo repositories.PunchRepository
	local     *storage.LocalProvider
	remote    storage.Provider
}

// NewPhotoMigrationService creates a new photo migration service
func NewPhotoMigrationService(punchRepo repositories.PunchRepository, local *storage.LocalProvider, remote storage.Provider) *PhotoMigrationService {
	return &PhotoMigrationService{
		punchRepo: punchRepo,
		local:     local,
		remote:    remote,
	}
}

// MigrationReport summarizes one migration run
type MigrationReport struct {
	Migrated int
	Missing  int
	Failed   int
}

// Run uploads every local photo and relinks its record. Files already swept
// from disk are counted as missing. With dryRun nothing is written.
func (s *PhotoMigrationService) Run(ctx context.Context, deleteLocal, dryRun bool) (*MigrationReport, error) {
	records, err := s.punchRepo.ListLocalPhotos(ctx, s.local.URLPrefix())
	if err != nil {
		return nil, fmt.Errorf("list local photos: %w", err)
	}
	log.Printf("📦 Found %d record(s) with local photos", len(records))

	report := &MigrationReport{}
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		attachment, err := s.migrateOne(ctx, rec.PhotoFilename, dryRun)
		switch {
		case errors.Is(err, os.ErrNotExist):
			report.Missing++
			log.Printf("⚠️ Record #%d: %s no longer on disk, skipped", rec.ID, rec.PhotoFilename)
			continue
		case err != nil:
			report.Failed++
			log.Printf("❌ Record #%d: %v", rec.ID, err)
			continue
		}

		if dryRun {
			report.Migrated++
			log.Printf("   Would migrate #%d: %s", rec.ID, rec.PhotoFilename)
			continue
		}

		if err := s.punchRepo.UpdatePhoto(ctx, rec.ID, *attachment); err != nil {
			report.Failed++
			log.Printf("❌ Record #%d: update failed: %v", rec.ID, err)
			if derr := s.remote.Delete(ctx, attachment.Reference); derr != nil {
				log.Printf("⚠️ Failed to delete uploaded %s: %v", attachment.Reference, derr)
			}
			continue
		}
		report.Migrated++
		log.Printf("✅ Record #%d: %s -> %s", rec.ID, rec.PhotoFilename, attachment.URL)

		if deleteLocal {
			if err := s.local.Delete(ctx, rec.PhotoFilename); err != nil {
				log.Printf("⚠️ Failed to delete local %s: %v", rec.PhotoFilename, err)
			}
		}
	}

	log.Printf("🏁 Photo migration: %d migrated, %d missing, %d failed",
		report.Migrated, report.Missing, report.Failed)
	return report, nil
}

func (s *PhotoMigrationService) migrateOne(ctx context.Context, reference string, dryRun bool) (*domain.Attachment, error) {
	path, err := s.local.Path(reference)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if dryRun {
		return nil, nil
	}
	return s.remote.Store(ctx, storage.Upload{Filename: reference, Body: f})
}

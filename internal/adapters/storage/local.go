package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"imc-punching/internal/config"
	"imc-punching/internal/core/domain"

	"github.com/google/uuid"
)

// LocalProvider keeps photos on local disk and expires them after the
// retention window. A record may outlive its photo; that is accepted.
type LocalProvider struct {
	dir       string
	baseURL   string
	maxBytes  int64
	retention time.Duration
	now       func() time.Time
}

// URLPath is where the HTTP layer serves the upload directory
const URLPath = "/uploads"

// NewLocalProvider creates the upload directory if needed
func NewLocalProvider(cfg config.StorageConfig) (*LocalProvider, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	log.Printf("✅ Local photo storage at %s (retention %d days)", cfg.UploadDir, cfg.RetentionDays)

	return &LocalProvider{
		dir:       cfg.UploadDir,
		baseURL:   cfg.PublicBaseURL,
		maxBytes:  cfg.MaxUploadBytes,
		retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		now:       time.Now,
	}, nil
}

// Dir returns the upload directory
func (p *LocalProvider) Dir() string {
	return p.dir
}

// URLPrefix is the common prefix of every URL this provider hands out
func (p *LocalProvider) URLPrefix() string {
	return p.baseURL + URLPath + "/"
}

// Store writes the photo as punch-<millis>-<random>.<ext>
func (p *LocalProvider) Store(ctx context.Context, upload Upload) (*domain.Attachment, error) {
	img, err := readImage(upload, p.maxBytes)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("punch-%d-%d%s", p.now().UnixMilli(), uuid.New().ID(), img.ext)
	if err := os.WriteFile(filepath.Join(p.dir, name), img.data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: write photo: %w", domain.ErrInternal, err)
	}

	return &domain.Attachment{
		Reference: name,
		URL:       p.URLPrefix() + name,
	}, nil
}

// Delete removes a stored photo; missing files are ignored
func (p *LocalProvider) Delete(ctx context.Context, reference string) error {
	path, err := p.Path(reference)
	if err != nil || path == "" {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete photo %s: %w", reference, err)
	}
	return nil
}

// Path resolves a reference inside the upload directory
func (p *LocalProvider) Path(reference string) (string, error) {
	if reference == "" {
		return "", nil
	}
	if filepath.Base(reference) != reference || strings.HasPrefix(reference, ".") {
		return "", fmt.Errorf("invalid photo reference %q", reference)
	}
	return filepath.Join(p.dir, reference), nil
}

// Sweep deletes files older than the retention window. Failures are logged
// per file and do not stop the run.
func (p *LocalProvider) Sweep(now time.Time) (int, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return 0, fmt.Errorf("read upload dir: %w", err)
	}

	deleted := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			log.Printf("⚠️ Cleanup: stat %s failed: %v", entry.Name(), err)
			continue
		}
		if now.Sub(info.ModTime()) <= p.retention {
			continue
		}

		if err := os.Remove(filepath.Join(p.dir, entry.Name())); err != nil {
			if !os.IsNotExist(err) {
				log.Printf("⚠️ Cleanup: delete %s failed: %v", entry.Name(), err)
			}
			continue
		}
		deleted++
		log.Printf("🗑️ Deleted old photo: %s", entry.Name())
	}

	return deleted, nil
}

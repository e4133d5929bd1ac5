package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"imc-punching/internal/config"
	"imc-punching/internal/core/domain"

	"github.com/gabriel-vasile/mimetype"
)

// Provider stores punch photos and evicts them by reference
type Provider interface {
	Store(ctx context.Context, upload Upload) (*domain.Attachment, error)
	// Delete is idempotent: a missing reference is not an error
	Delete(ctx context.Context, reference string) error
}

// Sweeper is implemented by backends that expire old attachments themselves
type Sweeper interface {
	Sweep(now time.Time) (deleted int, err error)
}

// Upload is an incoming photo
type Upload struct {
	Filename    string
	ContentType string // as declared by the client; may be empty
	Body        io.Reader
}

// photo is a validated upload held in memory
type photo struct {
	data []byte
	mime string
	ext  string
}

// New builds the provider selected by configuration
func New(ctx context.Context, cfg config.StorageConfig) (Provider, error) {
	switch cfg.Driver {
	case config.StorageS3:
		return NewS3Provider(ctx, cfg)
	case config.StorageLocal, "":
		return NewLocalProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// readImage enforces the size cap and image-only content
func readImage(u Upload, maxBytes int64) (*photo, error) {
	if u.Body == nil {
		return nil, domain.ErrMissingPhoto
	}

	declared := strings.ToLower(strings.TrimSpace(u.ContentType))
	if declared != "" && !strings.HasPrefix(declared, "image/") {
		return nil, fmt.Errorf("%w: got %s", domain.ErrUnsupportedMediaType, declared)
	}

	data, err := io.ReadAll(io.LimitReader(u.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: limit is %d MB", domain.ErrPayloadTooLarge, maxBytes>>20)
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return nil, fmt.Errorf("%w: content is %s", domain.ErrUnsupportedMediaType, detected.String())
	}

	ext := detected.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(u.Filename))
	}

	return &photo{data: data, mime: detected.String(), ext: ext}, nil
}

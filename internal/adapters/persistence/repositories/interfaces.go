package repositories

import (
	"context"

	"imc-punching/internal/adapters/persistence/models"
	"imc-punching/internal/core/domain"
)

// UserRepository defines read access to acc_users
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdatePassword(ctx context.Context, id, hash string) error
}

// CustomerRepository defines read access to acc_master
type CustomerRepository interface {
	ListByClient(ctx context.Context, clientID string) ([]*models.Customer, error)
}

// PunchRepository defines punch record persistence
type PunchRepository interface {
	Create(ctx context.Context, record *models.PunchRecord) error
	GetByID(ctx context.Context, id uint) (*models.PunchRecord, error)
	// CompletePunchOut applies the punch-out fields only while the record is
	// still pending. It returns ErrNotPending when no pending row matched.
	CompletePunchOut(ctx context.Context, id uint, update models.PunchOutUpdate) (*models.PunchRecord, error)
	ListPending(ctx context.Context, clientID, username string) ([]*models.PunchRecord, error)
	ListCompleted(ctx context.Context, clientID, username string, limit int) ([]*models.PunchRecord, error)
	ListByDate(ctx context.Context, clientID string, date models.DateOnly) ([]*models.PunchRecord, error)
	ListSince(ctx context.Context, clientID string, since models.DateOnly) ([]*models.PunchRecordWithUser, error)
	// ListLocalPhotos returns records whose photo has no URL or a URL under localPrefix
	ListLocalPhotos(ctx context.Context, localPrefix string) ([]*models.PunchRecord, error)
	UpdatePhoto(ctx context.Context, id uint, photo domain.Attachment) error
}

package repositories

import (
	"context"

	"imc-punching/internal/adapters/persistence/models"
	"imc-punching/internal/core/domain"

	"gorm.io/gorm"
)

// punchRepository implements PunchRepository interface
type punchRepository struct {
	db *gorm.DB
}

// NewPunchRepository creates a new punch repository
func NewPunchRepository(db *gorm.DB) PunchRepository {
	return &punchRepository{db: db}
}

// pendingScope matches pending rows, including legacy rows without a status
func pendingScope(db *gorm.DB) *gorm.DB {
	return db.Where("(status = ? OR status IS NULL)", models.StatusPending)
}

// Create creates a new punch record
func (r *punchRepository) Create(ctx context.Context, record *models.PunchRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// GetByID gets a punch record by ID
func (r *punchRepository) GetByID(ctx context.Context, id uint) (*models.PunchRecord, error) {
	var record models.PunchRecord
	err := r.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// CompletePunchOut writes the punch-out fields if the record is still pending
func (r *punchRepository) CompletePunchOut(ctx context.Context, id uint, update models.PunchOutUpdate) (*models.PunchRecord, error) {
	updates := map[string]interface{}{
		"punch_out_time":     models.NewTimestamp(update.PunchOutTime),
		"punch_out_location": update.PunchOutLocation,
		"punch_out_date":     update.PunchOutDate,
		"total_time_spent":   models.Interval{Duration: update.TotalTimeSpent},
		"status":             models.StatusCompleted,
	}
	if update.Photo != nil {
		updates["photo_filename"] = update.Photo.Reference
		updates["photo_url"] = update.Photo.URL
	}

	result := r.db.WithContext(ctx).
		Model(&models.PunchRecord{}).
		Where("id = ?", id).
		Scopes(pendingScope).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotPending
	}

	return r.GetByID(ctx, id)
}

// ListPending lists the user's open punches, newest first
func (r *punchRepository) ListPending(ctx context.Context, clientID, username string) ([]*models.PunchRecord, error) {
	var records []*models.PunchRecord
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND username = ?", clientID, username).
		Scopes(pendingScope).
		Order("punch_in_time DESC").
		Find(&records).Error
	return records, err
}

// ListCompleted lists the user's closed punches, most recent punch-out first
func (r *punchRepository) ListCompleted(ctx context.Context, clientID, username string, limit int) ([]*models.PunchRecord, error) {
	var records []*models.PunchRecord
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND username = ? AND status = ?", clientID, username, models.StatusCompleted).
		Order("punch_out_time DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// ListByDate lists a tenant's punches for one calendar date
func (r *punchRepository) ListByDate(ctx context.Context, clientID string, date models.DateOnly) ([]*models.PunchRecord, error) {
	var records []*models.PunchRecord
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND punch_date = ?", clientID, date).
		Order("punch_in_time DESC").
		Find(&records).Error
	return records, err
}

// ListSince lists a tenant's punches dated on or after since, with the
// owner's display name
func (r *punchRepository) ListSince(ctx context.Context, clientID string, since models.DateOnly) ([]*models.PunchRecordWithUser, error) {
	var records []*models.PunchRecordWithUser
	err := r.db.WithContext(ctx).
		Table("punch_records AS p").
		Select("p.*, u.name AS user_name").
		Joins("LEFT JOIN acc_users u ON u.id = p.username").
		Where("p.client_id = ? AND p.punch_date >= ?", clientID, since).
		Order("p.punch_date DESC, p.punch_in_time DESC").
		Find(&records).Error
	return records, err
}

// ListLocalPhotos lists records whose photo still lives on local disk
func (r *punchRepository) ListLocalPhotos(ctx context.Context, localPrefix string) ([]*models.PunchRecord, error) {
	var records []*models.PunchRecord
	err := r.db.WithContext(ctx).
		Where("photo_filename IS NOT NULL AND photo_filename <> ''").
		Where("(photo_url IS NULL OR photo_url = '' OR photo_url LIKE ?)", localPrefix+"%").
		Order("id ASC").
		Find(&records).Error
	return records, err
}

// UpdatePhoto replaces a record's photo linkage
func (r *punchRepository) UpdatePhoto(ctx context.Context, id uint, photo domain.Attachment) error {
	return r.db.WithContext(ctx).
		Model(&models.PunchRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"photo_filename": photo.Reference,
			"photo_url":      photo.URL,
		}).Error
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"imc-punching/internal/adapters/persistence/models"
	"imc-punching/internal/adapters/persistence/repositories"
	"imc-punching/internal/adapters/storage"
	"imc-punching/internal/core/domain"
	"imc-punching/internal/pkg/pagination"
	"imc-punching/internal/pkg/timeutil"
)

// PunchService runs the punch-in/punch-out lifecycle
type PunchService struct {
	punchRepo    repositories.PunchRepository
	customerRepo repositories.CustomerRepository
	storage      storage.Provider
	loc          *time.Location
	now          func() time.Time
}

// NewPunchService creates a new punch service. Offset-less times are read in loc.
func NewPunchService(
	punchRepo repositories.PunchRepository,
	customerRepo repositories.CustomerRepository,
	provider storage.Provider,
	loc *time.Location,
) *PunchService {
	return &PunchService{
		punchRepo:    punchRepo,
		customerRepo: customerRepo,
		storage:      provider,
		loc:          loc,
		now:          time.Now,
	}
}

// PunchInInput represents begin-punch input
type PunchInInput struct {
	CustomerName    string          `json:"customerName" validate:"required"`
	PunchInLocation string          `json:"punchInLocation" validate:"required"`
	PunchInTime     string          `json:"punchInTime" validate:"required"`
	PunchDate       string          `json:"punchDate" validate:"required"`
	Photo           *storage.Upload `json:"-" validate:"-"`
}

// PunchOutInput represents complete-punch input
type PunchOutInput struct {
	ID               string          `json:"id" validate:"required"`
	PunchOutLocation string          `json:"punchOutLocation" validate:"required"`
	PunchOutTime     string          `json:"punchOutTime" validate:"required"`
	PunchOutDate     string          `json:"punchOutDate" validate:"required"`
	Photo            *storage.Upload `json:"-" validate:"-"`
}

// BeginPunch creates a pending punch for the caller. Owner and tenant are
// taken from the identity, never from the input.
func (s *PunchService) BeginPunch(ctx context.Context, who domain.Identity, input *PunchInInput) (*models.PunchRecord, error) {
	input.CustomerName = strings.TrimSpace(input.CustomerName)
	input.PunchInLocation = strings.TrimSpace(input.PunchInLocation)
	input.PunchInTime = strings.TrimSpace(input.PunchInTime)
	input.PunchDate = strings.TrimSpace(input.PunchDate)

	// 1. Required fields
	if err := validateInput(input); err != nil {
		return nil, err
	}

	// 2. Time
	inTime, err := timeutil.ParseISO(input.PunchInTime, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: punchInTime", domain.ErrInvalidTimeFormat)
	}

	// 3. Date
	punchDate, err := models.ParseDateOnly(input.PunchDate)
	if err != nil {
		return nil, fmt.Errorf("%w: punchDate must be YYYY-MM-DD", domain.ErrInvalidDateFormat)
	}

	// 4. Photo
	if input.Photo == nil {
		return nil, domain.ErrMissingPhoto
	}
	photo, err := s.storage.Store(ctx, *input.Photo)
	if err != nil {
		return nil, err
	}

	record := &models.PunchRecord{
		ClientID:        who.ClientID,
		Username:        who.UserID,
		CustomerName:    input.CustomerName,
		PunchDate:       punchDate,
		PunchInTime:     models.NewTimestamp(inTime),
		PunchInLocation: input.PunchInLocation,
		PhotoFilename:   photo.Reference,
		PhotoURL:        photo.URL,
		Status:          domain.PunchStatusPending,
	}

	if err := s.punchRepo.Create(ctx, record); err != nil {
		s.evictPhoto(ctx, photo.Reference)
		return nil, err
	}

	log.Printf("✅ Punch-in #%d recorded for %s at %s", record.ID, who.UserID, record.CustomerName)
	return record, nil
}

// CompletePunch closes a pending punch owned by the caller and computes the
// time spent in whole seconds.
func (s *PunchService) CompletePunch(ctx context.Context, who domain.Identity, input *PunchOutInput) (*models.PunchRecord, error) {
	input.ID = strings.TrimSpace(input.ID)
	input.PunchOutLocation = strings.TrimSpace(input.PunchOutLocation)
	input.PunchOutTime = strings.TrimSpace(input.PunchOutTime)
	input.PunchOutDate = strings.TrimSpace(input.PunchOutDate)

	// 1. Required fields
	if err := validateInput(input); err != nil {
		return nil, err
	}

	// 2. Existing record, owned by the caller
	record, err := s.findOwned(ctx, who, input.ID)
	if err != nil {
		return nil, err
	}
	if record.IsCompleted() {
		return nil, domain.ErrAlreadyCompleted
	}

	// 3. Times
	inTime := record.PunchInTime.Time
	if inTime.IsZero() {
		return nil, fmt.Errorf("%w: stored punch_in_time is unreadable", domain.ErrInvalidTimeFormat)
	}
	outTime, err := timeutil.ParseISO(input.PunchOutTime, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: punchOutTime", domain.ErrInvalidTimeFormat)
	}
	outDate, err := models.ParseDateOnly(input.PunchOutDate)
	if err != nil {
		return nil, fmt.Errorf("%w: punchOutDate must be YYYY-MM-DD", domain.ErrInvalidDateFormat)
	}
	if outTime.Before(inTime) {
		return nil, domain.ErrPunchOutBeforePunchIn
	}

	// 4. Optional replacement photo
	var photo *domain.Attachment
	if input.Photo != nil {
		photo, err = s.storage.Store(ctx, *input.Photo)
		if err != nil {
			return nil, err
		}
	}

	// 5. Persist, only while still pending
	updated, err := s.punchRepo.CompletePunchOut(ctx, record.ID, models.PunchOutUpdate{
		PunchOutTime:     outTime,
		PunchOutLocation: input.PunchOutLocation,
		PunchOutDate:     outDate,
		TotalTimeSpent:   outTime.Sub(inTime).Truncate(time.Second),
		Photo:            photo,
	})
	if err != nil {
		if photo != nil {
			s.evictPhoto(ctx, photo.Reference)
		}
		if errors.Is(err, repositories.ErrNotPending) {
			return nil, domain.ErrAlreadyCompleted
		}
		return nil, err
	}

	// 6. The old photo goes only once the new one is linked
	if old := record.Attachment(); photo != nil && old != nil && old.Reference != "" && old.Reference != photo.Reference {
		s.evictPhoto(ctx, old.Reference)
	}

	log.Printf("✅ Punch-out #%d recorded for %s (%s)", updated.ID, who.UserID, outTime.Sub(inTime).Truncate(time.Second))
	return updated, nil
}

// ListCustomers lists the customer names of the caller's tenant
func (s *PunchService) ListCustomers(ctx context.Context, who domain.Identity) ([]*models.Customer, error) {
	return s.customerRepo.ListByClient(ctx, who.ClientID)
}

// ListPending lists the caller's open punches
func (s *PunchService) ListPending(ctx context.Context, who domain.Identity) ([]*models.PunchRecord, error) {
	return s.punchRepo.ListPending(ctx, who.ClientID, who.UserID)
}

// ListCompleted lists the caller's most recent closed punches
func (s *PunchService) ListCompleted(ctx context.Context, who domain.Identity, limit int) ([]*models.PunchRecord, error) {
	limit = pagination.Clamp(limit, pagination.DefaultCompletedLimit, pagination.MaxLimit)
	return s.punchRepo.ListCompleted(ctx, who.ClientID, who.UserID, limit)
}

// GetPunch returns one punch owned by the caller
func (s *PunchService) GetPunch(ctx context.Context, who domain.Identity, id string) (*models.PunchRecord, error) {
	return s.findOwned(ctx, who, id)
}

// ListByDate lists the tenant's punches for a calendar date (admin only)
func (s *PunchService) ListByDate(ctx context.Context, who domain.Identity, date string) ([]*models.PunchRecord, error) {
	if !who.IsAdmin {
		return nil, fmt.Errorf("%w: admin access required", domain.ErrForbidden)
	}

	day, err := models.ParseDateOnly(strings.TrimSpace(date))
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidDateFormat)
	}

	return s.punchRepo.ListByDate(ctx, who.ClientID, day)
}

// ListRecent lists the tenant's punches dated within the last days calendar
// days, today included (admin only)
func (s *PunchService) ListRecent(ctx context.Context, who domain.Identity, days int) ([]*models.PunchRecordWithUser, error) {
	if !who.IsAdmin {
		return nil, fmt.Errorf("%w: admin access required", domain.ErrForbidden)
	}

	days = pagination.Clamp(days, pagination.DefaultRecentDays, pagination.MaxRecentDays)
	today, err := models.ParseDateOnly(timeutil.Today(s.now(), s.loc))
	if err != nil {
		return nil, err
	}
	start := models.DateOnly{Time: today.AddDate(0, 0, -(days - 1))}

	return s.punchRepo.ListSince(ctx, who.ClientID, start)
}

// findOwned loads a punch and enforces strict ownership. Admins are not exempt.
func (s *PunchService) findOwned(ctx context.Context, who domain.Identity, rawID string) (*models.PunchRecord, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(rawID), 10, 64)
	if err != nil || id == 0 {
		return nil, domain.ErrNotFound
	}

	record, err := s.punchRepo.GetByID(ctx, uint(id))
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if record.Username != who.UserID || record.ClientID != who.ClientID {
		return nil, fmt.Errorf("%w: not your punch record", domain.ErrForbidden)
	}
	return record, nil
}

// evictPhoto deletes an attachment without failing the caller
func (s *PunchService) evictPhoto(ctx context.Context, reference string) {
	if err := s.storage.Delete(ctx, reference); err != nil {
		log.Printf("⚠️ Failed to delete photo %s: %v", reference, err)
	}
}

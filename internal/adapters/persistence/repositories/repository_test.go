package repositories

import (
	"context"
	"testing"
	"time"

	"imc-punching/internal/adapters/persistence/models"
	"imc-punching/internal/core/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection, so every query sees the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db, true))
	return db
}

func mustDate(t *testing.T, s string) models.DateOnly {
	t.Helper()
	d, err := models.ParseDateOnly(s)
	require.NoError(t, err)
	return d
}

func createPunch(t *testing.T, repo PunchRepository, clientID, username, date string, in time.Time) *models.PunchRecord {
	t.Helper()
	rec := &models.PunchRecord{
		ClientID:      clientID,
		Username:      username,
		CustomerName:  "Acme",
		PunchDate:     mustDate(t, date),
		PunchInTime:   models.NewTimestamp(in),
		PhotoFilename: "punch-1.jpg",
		PhotoURL:      "http://api.test/uploads/punch-1.jpg",
		Status:        domain.PunchStatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), rec))
	return rec
}

func TestLegacyRowWithoutStatusIsPending(t *testing.T) {
	db := newTestDB(t)
	repo := NewPunchRepository(db)
	ctx := context.Background()

	in := time.Date(2025, 4, 22, 3, 30, 0, 0, time.UTC)
	rec := createPunch(t, repo, "C1", "alice", "2025-04-22", in)
	require.NoError(t, db.Exec("UPDATE punch_records SET status = NULL WHERE id = ?", rec.ID).Error)

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PunchStatusPending, got.Status)

	pending, err := repo.ListPending(ctx, "C1", "alice")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, rec.ID, pending[0].ID)

	update := models.PunchOutUpdate{
		PunchOutTime:     in.Add(8 * time.Hour),
		PunchOutLocation: "site",
		PunchOutDate:     mustDate(t, "2025-04-22"),
		TotalTimeSpent:   8 * time.Hour,
	}
	done, err := repo.CompletePunchOut(ctx, rec.ID, update)
	require.NoError(t, err)
	assert.Equal(t, domain.PunchStatusCompleted, done.Status)
	require.NotNil(t, done.TotalTimeSpent)
	assert.Equal(t, int64(28800), done.TotalTimeSpent.Seconds())
	assert.True(t, done.PunchOutTime.Equal(in.Add(8*time.Hour)))
	assert.Equal(t, "2025-04-22", done.PunchOutDate.String())
	assert.Equal(t, "punch-1.jpg", done.PhotoFilename)

	_, err = repo.CompletePunchOut(ctx, rec.ID, update)
	assert.ErrorIs(t, err, ErrNotPending)

	_, err = repo.CompletePunchOut(ctx, 999, update)
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestCompletePunchOutReplacesPhoto(t *testing.T) {
	repo := NewPunchRepository(newTestDB(t))
	rec := createPunch(t, repo, "C1", "alice", "2025-04-22", time.Date(2025, 4, 22, 3, 30, 0, 0, time.UTC))

	done, err := repo.CompletePunchOut(context.Background(), rec.ID, models.PunchOutUpdate{
		PunchOutTime:     time.Date(2025, 4, 22, 4, 30, 0, 0, time.UTC),
		PunchOutLocation: "site",
		PunchOutDate:     mustDate(t, "2025-04-22"),
		TotalTimeSpent:   time.Hour,
		Photo:            &domain.Attachment{Reference: "k/new.jpg", URL: "https://bucket/k/new.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "k/new.jpg", done.PhotoFilename)
	assert.Equal(t, "https://bucket/k/new.jpg", done.PhotoURL)
}

func TestPunchQueries(t *testing.T) {
	db := newTestDB(t)
	repo := NewPunchRepository(db)
	ctx := context.Background()
	day := func(d, h int) time.Time { return time.Date(2025, 4, d, h, 0, 0, 0, time.UTC) }

	require.NoError(t, db.Create(&models.User{ID: "alice", Password: "x", ClientID: "C1", Name: "Alice A"}).Error)

	older := createPunch(t, repo, "C1", "alice", "2025-04-20", day(20, 3))
	newer := createPunch(t, repo, "C1", "alice", "2025-04-21", day(21, 3))
	createPunch(t, repo, "C1", "bob", "2025-04-22", day(22, 4))
	createPunch(t, repo, "C1", "alice", "2025-04-22", day(22, 3))
	createPunch(t, repo, "C2", "alice", "2025-04-22", day(22, 5))

	for _, rec := range []*models.PunchRecord{older, newer} {
		in := rec.PunchInTime.Time
		_, err := repo.CompletePunchOut(ctx, rec.ID, models.PunchOutUpdate{
			PunchOutTime:   in.Add(time.Hour),
			PunchOutDate:   rec.PunchDate,
			TotalTimeSpent: time.Hour,
		})
		require.NoError(t, err)
	}

	completed, err := repo.ListCompleted(ctx, "C1", "alice", 1)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, newer.ID, completed[0].ID)

	pending, err := repo.ListPending(ctx, "C1", "alice")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "2025-04-22", pending[0].PunchDate.String())

	byDate, err := repo.ListByDate(ctx, "C1", mustDate(t, "2025-04-22"))
	require.NoError(t, err)
	require.Len(t, byDate, 2)
	assert.Equal(t, "bob", byDate[0].Username)

	since, err := repo.ListSince(ctx, "C1", mustDate(t, "2025-04-21"))
	require.NoError(t, err)
	require.Len(t, since, 3)
	assert.Equal(t, "bob", since[0].Username)
	assert.Equal(t, "", since[0].UserName)
	assert.Equal(t, "Alice A", since[1].UserName)
	assert.Equal(t, "2025-04-21", since[2].PunchDate.String())
}

func TestLocalPhotoRelinking(t *testing.T) {
	db := newTestDB(t)
	repo := NewPunchRepository(db)
	ctx := context.Background()

	local := createPunch(t, repo, "C1", "alice", "2025-04-22", time.Date(2025, 4, 22, 3, 0, 0, 0, time.UTC))
	remote := createPunch(t, repo, "C1", "alice", "2025-04-22", time.Date(2025, 4, 22, 4, 0, 0, 0, time.UTC))
	require.NoError(t, repo.UpdatePhoto(ctx, remote.ID, domain.Attachment{Reference: "k", URL: "https://bucket/k"}))

	found, err := repo.ListLocalPhotos(ctx, "http://api.test/uploads/")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, local.ID, found[0].ID)
}

func TestUserAndCustomerRepositories(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	customers := NewCustomerRepository(db)

	require.NoError(t, db.Create(&models.User{ID: "alice", Password: "plain", ClientID: "C1"}).Error)
	require.NoError(t, db.Create(&[]models.Customer{
		{Name: "Zenith", ClientID: "C1"},
		{Name: "Acme", ClientID: "C1"},
		{Name: "Other", ClientID: "C2"},
	}).Error)

	_, err := users.GetByID(ctx, "ghost")
	assert.True(t, IsNotFound(err))

	require.NoError(t, users.UpdatePassword(ctx, "alice", "$2a$hash"))
	u, err := users.GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "$2a$hash", u.Password)

	all, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	list, err := customers.ListByClient(ctx, "C1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Acme", list[0].Name)
	assert.Equal(t, "Zenith", list[1].Name)
}

package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"imc-punching/internal/adapters/persistence/memstore"
	"imc-punching/internal/adapters/persistence/models"
	"imc-punching/internal/adapters/storage"
	"imc-punching/internal/config"
	"imc-punching/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMigrationFixture(t *testing.T) (*PhotoMigrationService, *memstore.Store, *memstore.Photos, string) {
	t.Helper()
	dir := t.TempDir()
	local, err := storage.NewLocalProvider(config.StorageConfig{
		UploadDir:      dir,
		PublicBaseURL:  "http://api.test",
		MaxUploadBytes: 5 << 20,
		RetentionDays:  10,
	})
	require.NoError(t, err)

	store := memstore.New()
	remote := memstore.NewPhotos()
	return NewPhotoMigrationService(store.Punches(), local, remote), store, remote, dir
}

func addLocalPunch(t *testing.T, store *memstore.Store, dir, name string, onDisk bool) uint {
	t.Helper()
	if onDisk {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o644))
	}
	rec := &models.PunchRecord{
		ClientID:      "C1",
		Username:      "alice",
		PunchInTime:   models.NewTimestamp(time.Now()),
		PhotoFilename: name,
		PhotoURL:      "http://api.test/uploads/" + name,
	}
	require.NoError(t, store.Punches().Create(context.Background(), rec))
	return rec.ID
}

func TestPhotoMigration(t *testing.T) {
	svc, store, remote, dir := newMigrationFixture(t)
	ctx := context.Background()

	moved := addLocalPunch(t, store, dir, "punch-1.jpg", true)
	gone := addLocalPunch(t, store, dir, "punch-2.jpg", false)

	remoteRec := &models.PunchRecord{ClientID: "C1", Username: "alice", PhotoFilename: "k", PhotoURL: "https://bucket/k"}
	require.NoError(t, store.Punches().Create(ctx, remoteRec))

	report, err := svc.Run(ctx, true, false)
	require.NoError(t, err)
	assert.Equal(t, &MigrationReport{Migrated: 1, Missing: 1}, report)

	rec, _ := store.Punch(moved)
	assert.True(t, remote.Has(rec.PhotoFilename))
	assert.Equal(t, "mem://"+rec.PhotoFilename, rec.PhotoURL)
	assert.NoFileExists(t, filepath.Join(dir, "punch-1.jpg"))

	missing, _ := store.Punch(gone)
	assert.Equal(t, "punch-2.jpg", missing.PhotoFilename)
}

func TestPhotoMigrationDryRun(t *testing.T) {
	svc, store, remote, dir := newMigrationFixture(t)
	id := addLocalPunch(t, store, dir, "punch-1.jpg", true)

	report, err := svc.Run(context.Background(), true, true)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Migrated)
	assert.Zero(t, remote.Len())

	rec, _ := store.Punch(id)
	assert.Equal(t, "punch-1.jpg", rec.PhotoFilename)
	assert.FileExists(t, filepath.Join(dir, "punch-1.jpg"))
}

func TestPhotoMigrationUploadFailure(t *testing.T) {
	svc, store, remote, dir := newMigrationFixture(t)
	id := addLocalPunch(t, store, dir, "punch-1.jpg", true)
	remote.StoreErr = domain.ErrUnsupportedMediaType

	report, err := svc.Run(context.Background(), true, false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)

	rec, _ := store.Punch(id)
	assert.Equal(t, "punch-1.jpg", rec.PhotoFilename)
	assert.FileExists(t, filepath.Join(dir, "punch-1.jpg"))
}

package storage

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"imc-punching/internal/config"
	"imc-punching/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) *LocalProvider {
	t.Helper()

	p, err := NewLocalProvider(config.StorageConfig{
		Driver:         config.StorageLocal,
		UploadDir:      t.TempDir(),
		PublicBaseURL:  "https://punch.example.com",
		MaxUploadBytes: 5 << 20,
		RetentionDays:  10,
	})
	require.NoError(t, err)
	return p
}

func TestLocalStore(t *testing.T) {
	p := newLocal(t)

	att, err := p.Store(context.Background(), pngUpload(t, 4, 4))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^punch-\d+-\d+\.png$`), att.Reference)
	assert.Equal(t, "https://punch.example.com/uploads/"+att.Reference, att.URL)
	assert.FileExists(t, filepath.Join(p.Dir(), att.Reference))
}

func TestLocalStoreWriteFailureIsInternal(t *testing.T) {
	p := newLocal(t)
	require.NoError(t, os.RemoveAll(p.Dir()))

	_, err := p.Store(context.Background(), pngUpload(t, 4, 4))
	assert.ErrorIs(t, err, domain.ErrInternal)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLocalStoreRejectsNonImages(t *testing.T) {
	p := newLocal(t)

	_, err := p.Store(context.Background(), Upload{
		Filename:    "notes.txt",
		ContentType: "text/plain",
		Body:        strings.NewReader("hello"),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedMediaType)

	// declared as an image but the bytes are not
	_, err = p.Store(context.Background(), Upload{
		Filename:    "fake.png",
		ContentType: "image/png",
		Body:        strings.NewReader("%PDF-1.4 not really a picture"),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedMediaType)
}

func TestLocalStoreRejectsLargeFiles(t *testing.T) {
	p := newLocal(t)
	p.maxBytes = 32

	_, err := p.Store(context.Background(), pngUpload(t, 16, 16))
	assert.ErrorIs(t, err, domain.ErrPayloadTooLarge)

	entries, err := os.ReadDir(p.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalDeleteIsIdempotent(t *testing.T) {
	p := newLocal(t)
	ctx := context.Background()

	att, err := p.Store(ctx, pngUpload(t, 2, 2))
	require.NoError(t, err)

	require.NoError(t, p.Delete(ctx, att.Reference))
	assert.NoFileExists(t, filepath.Join(p.Dir(), att.Reference))

	assert.NoError(t, p.Delete(ctx, att.Reference))
	assert.NoError(t, p.Delete(ctx, "punch-never-stored.png"))
	assert.NoError(t, p.Delete(ctx, ""))
}

func TestLocalDeleteRejectsTraversal(t *testing.T) {
	p := newLocal(t)

	assert.Error(t, p.Delete(context.Background(), "../etc/passwd"))
	assert.Error(t, p.Delete(context.Background(), ".env"))
}

func TestLocalSweep(t *testing.T) {
	p := newLocal(t)
	now := time.Date(2025, 4, 22, 0, 0, 0, 0, time.UTC)

	write := func(name string, age time.Duration) {
		path := filepath.Join(p.Dir(), name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		mtime := now.Add(-age)
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}

	write("punch-old.png", 11*24*time.Hour)
	write("punch-older.jpg", 30*24*time.Hour)
	write("punch-fresh.png", 9*24*time.Hour)
	write("punch-edge.png", 10*24*time.Hour)
	require.NoError(t, os.Mkdir(filepath.Join(p.Dir(), "nested"), 0o755))

	deleted, err := p.Sweep(now)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	assert.NoFileExists(t, filepath.Join(p.Dir(), "punch-old.png"))
	assert.NoFileExists(t, filepath.Join(p.Dir(), "punch-older.jpg"))
	assert.FileExists(t, filepath.Join(p.Dir(), "punch-fresh.png"))
	assert.FileExists(t, filepath.Join(p.Dir(), "punch-edge.png"))
	assert.DirExists(t, filepath.Join(p.Dir(), "nested"))
}

func TestLocalSweepMissingDir(t *testing.T) {
	p := newLocal(t)
	p.dir = filepath.Join(p.dir, "gone")

	_, err := p.Sweep(time.Now())
	assert.Error(t, err)
}

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aube/minimal-log/internal/config"
	"github.com/aube/minimal-log/internal/drive"
	"github.com/aube/minimal-log/internal/logger"
	"github.com/aube/minimal-log/internal/store"
	"github.com/aube/minimal-log/models"
)

type fakeObject struct {
	models.BackupObject
	content []byte
}

// fakeDrive acts as both session factory and client, keeping uploaded
// archives in memory ordered like the real remote listing (newest first).
type fakeDrive struct {
	objects    []fakeObject
	createErr  error
	listErr    error
	uploadErr  error
	downloads  int
	lastQuery  drive.Query
	lastUpload string
	clock      time.Time
}

func (f *fakeDrive) Create(_ context.Context, _ string) (drive.Client, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f, nil
}

func (f *fakeDrive) List(_ context.Context, q drive.Query) ([]models.BackupObject, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}

	f.lastQuery = q

	sorted := make([]fakeObject, len(f.objects))
	copy(sorted, f.objects)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ModifiedTime.After(sorted[j].ModifiedTime)
	})

	out := make([]models.BackupObject, 0, len(sorted))
	for _, obj := range sorted {
		out = append(out, obj.BackupObject)
		if int64(len(out)) == q.PageSize {
			break
		}
	}
	return out, nil
}

func (f *fakeDrive) Download(_ context.Context, id string, dst io.Writer) error {
	f.downloads++
	for _, obj := range f.objects {
		if obj.ID == id {
			_, err := dst.Write(obj.content)
			return err
		}
	}
	return fmt.Errorf("object %s not found", id)
}

func (f *fakeDrive) Upload(_ context.Context, name, mimeType string, src io.Reader) (models.BackupObject, error) {
	if f.uploadErr != nil {
		return models.BackupObject{}, f.uploadErr
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(src); err != nil {
		return models.BackupObject{}, err
	}

	f.clock = f.clock.Add(time.Minute)
	obj := fakeObject{
		BackupObject: models.BackupObject{
			ID:           fmt.Sprintf("obj-%d", len(f.objects)+1),
			Name:         name,
			ModifiedTime: f.clock,
			Size:         int64(buf.Len()),
			MimeType:     mimeType,
		},
		content: buf.Bytes(),
	}
	f.objects = append(f.objects, obj)
	f.lastUpload = name

	return obj.BackupObject, nil
}

type backupFixture struct {
	service   *BackupService
	remote    *fakeDrive
	prefs     *store.PreferencesStore
	root      string
	imagesDir string
}

func newBackupFixture(t *testing.T) *backupFixture {
	return newBackupFixtureImages(t, filepath.Join("files", "images"))
}

func newBackupFixtureImages(t *testing.T, imagesRel string) *backupFixture {
	t.Helper()

	root := t.TempDir()
	cfg := config.Storage{
		DB:    config.DB{DSN: filepath.Join(root, "databases", "minimalog.db")},
		Files: config.Files{ImagesDir: filepath.Join(root, imagesRel)},
		Cache: config.Cache{Dir: filepath.Join(root, "cache")},
		Prefs: config.Prefs{File: filepath.Join(root, "prefs.json")},
	}

	prefs, err := store.NewPreferencesStore(cfg.Prefs.File)
	require.NoError(t, err)

	remote := &fakeDrive{clock: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewBackupService(remote, prefs, cfg, config.Drive{ListPageSize: 5}, logger.Nop())
	svc.now = func() time.Time { return time.Date(2026, time.March, 14, 9, 26, 0, 0, time.UTC) }

	return &backupFixture{
		service:   svc,
		remote:    remote,
		prefs:     prefs,
		root:      root,
		imagesDir: cfg.Files.ImagesDir,
	}
}

func (f *backupFixture) seedLocal(t *testing.T) {
	t.Helper()
	writeFile(t, filepath.Join(f.root, "databases", "minimalog.db"), []byte("database"))
	writeFile(t, filepath.Join(f.imagesDir, "photo.jpg"), []byte("photo"))
}

func TestBackupNowUploadsArchiveAndRecordsTime(t *testing.T) {
	f := newBackupFixture(t)
	f.seedLocal(t)

	ts, err := f.service.BackupNow(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.False(t, ts.IsZero())

	assert.Equal(t, "minimalog_backup_20260314_0926.zip", f.remote.lastUpload)
	require.Len(t, f.remote.objects, 1)
	assert.Equal(t, "application/zip", f.remote.objects[0].MimeType)
	assert.Positive(t, f.remote.objects[0].Size)

	last, ok := f.prefs.LastBackup()
	require.True(t, ok)
	assert.Equal(t, ts.UnixMilli(), last.UnixMilli())
	assert.Equal(t, "user@example.com", f.prefs.Account())

	entries, err := os.ReadDir(filepath.Join(f.root, "cache"))
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch archive must be removed")
}

func TestBackupThenRestoreRoundTrip(t *testing.T) {
	f := newBackupFixture(t)
	f.seedLocal(t)

	_, err := f.service.BackupNow(context.Background(), "user@example.com")
	require.NoError(t, err)

	// wipe local state before restoring
	require.NoError(t, os.RemoveAll(filepath.Join(f.root, "databases")))
	require.NoError(t, os.RemoveAll(filepath.Join(f.root, "files")))

	require.NoError(t, f.service.RestoreLatest(context.Background(), "user@example.com"))

	got, err := os.ReadFile(filepath.Join(f.root, "databases", "minimalog.db"))
	require.NoError(t, err)
	assert.Equal(t, "database", string(got))

	got, err = os.ReadFile(filepath.Join(f.root, "files", "images", "photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "photo", string(got))

	assert.True(t, f.prefs.DBRestored())

	assert.Equal(t, backupPrefix, f.remote.lastQuery.NameContains)
	assert.Equal(t, []string{"application/zip", "application/octet-stream"}, f.remote.lastQuery.MimeTypes)
	assert.EqualValues(t, 5, f.remote.lastQuery.PageSize)
}

func TestBackupThenRestoreRoundTripCustomImagesDir(t *testing.T) {
	f := newBackupFixtureImages(t, filepath.Join("media", "photos"))
	f.seedLocal(t)

	_, err := f.service.BackupNow(context.Background(), "user@example.com")
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(filepath.Join(f.root, "databases")))
	require.NoError(t, os.RemoveAll(filepath.Join(f.root, "media")))

	require.NoError(t, f.service.RestoreLatest(context.Background(), "user@example.com"))

	got, err := os.ReadFile(filepath.Join(f.imagesDir, "photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "photo", string(got), "images must land in the configured directory")

	_, err = os.Stat(filepath.Join(f.root, "media", "images"))
	assert.True(t, os.IsNotExist(err), "no sibling images directory may appear")
}

func TestRestoreLatestPicksNewestArchive(t *testing.T) {
	f := newBackupFixture(t)

	stale := makeZipBytes(t, map[string]string{"databases/minimalog.db": "stale"})
	fresh := makeZipBytes(t, map[string]string{"databases/minimalog.db": "fresh"})

	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	f.remote.objects = []fakeObject{
		{BackupObject: models.BackupObject{ID: "old", Name: "minimalog_backup_20260301_0000.zip", ModifiedTime: base}, content: stale},
		{BackupObject: models.BackupObject{ID: "new", Name: "minimalog_backup_20260302_0000.zip", ModifiedTime: base.AddDate(0, 0, 1)}, content: fresh},
	}

	require.NoError(t, f.service.RestoreLatest(context.Background(), "user@example.com"))

	got, err := os.ReadFile(filepath.Join(f.root, "databases", "minimalog.db"))
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(got))
}

func TestRestoreLatestNoBackups(t *testing.T) {
	f := newBackupFixture(t)

	err := f.service.RestoreLatest(context.Background(), "user@example.com")
	assert.ErrorIs(t, err, ErrBackupNotFound)

	assert.Zero(t, f.remote.downloads)
	assert.False(t, f.prefs.DBRestored())
	_, statErr := os.Stat(filepath.Join(f.root, "databases"))
	assert.True(t, os.IsNotExist(statErr), "local state must stay untouched")
}

func TestRestoreLatestCorruptArchive(t *testing.T) {
	f := newBackupFixture(t)

	tests := []struct {
		name    string
		content []byte
	}{
		{"empty download", nil},
		{"not a zip", []byte("definitely not a zip archive")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.remote.objects = []fakeObject{{
				BackupObject: models.BackupObject{ID: "bad", Name: "minimalog_backup_20260301_0000.zip", ModifiedTime: time.Now()},
				content:      tt.content,
			}}

			err := f.service.RestoreLatest(context.Background(), "user@example.com")
			assert.ErrorIs(t, err, ErrCorruptBackup)

			var corrupt *CorruptBackupError
			require.ErrorAs(t, err, &corrupt)
			assert.Equal(t, "bad", corrupt.ID)

			assert.False(t, f.prefs.DBRestored())
			entries, readErr := os.ReadDir(filepath.Join(f.root, "cache"))
			require.NoError(t, readErr)
			assert.Empty(t, entries, "scratch download must be removed")
		})
	}
}

func TestRestoreLatestDownloadError(t *testing.T) {
	f := newBackupFixture(t)
	f.remote.listErr = errors.New("remote unavailable")

	err := f.service.RestoreLatest(context.Background(), "user@example.com")
	assert.ErrorIs(t, err, ErrDownload)
}

func TestBackupNowUploadError(t *testing.T) {
	f := newBackupFixture(t)
	f.seedLocal(t)
	f.remote.uploadErr = errors.New("quota exceeded")

	_, err := f.service.BackupNow(context.Background(), "user@example.com")
	assert.ErrorIs(t, err, ErrUpload)

	_, ok := f.prefs.LastBackup()
	assert.False(t, ok, "failed backup must not record a timestamp")
}

func TestBackupOperationsRejectOverlap(t *testing.T) {
	f := newBackupFixture(t)

	f.service.mu.Lock()
	defer f.service.mu.Unlock()

	_, err := f.service.BackupNow(context.Background(), "user@example.com")
	assert.ErrorIs(t, err, ErrBusy)

	err = f.service.RestoreLatest(context.Background(), "user@example.com")
	assert.ErrorIs(t, err, ErrBusy)
}

func TestLastBackupTime(t *testing.T) {
	f := newBackupFixture(t)

	_, ok := f.service.LastBackupTime()
	assert.False(t, ok)

	require.NoError(t, f.prefs.SetLastBackup(time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)))

	last, ok := f.service.LastBackupTime()
	require.True(t, ok)
	assert.Equal(t, int64(2026), int64(last.Year()))
}

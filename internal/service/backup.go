package service

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aube/minimal-log/internal/config"
	"github.com/aube/minimal-log/internal/drive"
	"github.com/aube/minimal-log/internal/filex"
	"github.com/aube/minimal-log/internal/logger"
	"github.com/aube/minimal-log/internal/store"
)

const defaultListPageSize = 5

// BackupService serializes all local persistent state (database files plus
// the image directory) into a single zip archive and ships it to the remote
// drive's application-private folder; symmetrically it locates the most
// recent remote archive, downloads it and replaces local state file-by-file.
//
// The service is not internally concurrent: a second invocation while one is
// in flight fails fast with [ErrBusy]. Scratch archives live in the cache
// directory and are removed on both success and known-failure paths.
type BackupService struct {
	factory drive.SessionFactory
	prefs   *store.PreferencesStore
	logger  *logger.Logger

	dbDir     string
	imagesDir string
	cacheDir  string
	pageSize  int64

	mu  sync.Mutex
	now func() time.Time
}

func NewBackupService(
	factory drive.SessionFactory,
	prefs *store.PreferencesStore,
	storageCfg config.Storage,
	driveCfg config.Drive,
	log *logger.Logger,
) *BackupService {
	pageSize := driveCfg.ListPageSize
	if pageSize <= 0 {
		pageSize = defaultListPageSize
	}

	return &BackupService{
		factory:   factory,
		prefs:     prefs,
		logger:    log,
		dbDir:     filepath.Dir(storageCfg.DB.DSN),
		imagesDir: storageCfg.Files.ImagesDir,
		cacheDir:  storageCfg.Cache.Dir,
		pageSize:  pageSize,
		now:       time.Now,
	}
}

// BackupNow archives the local database directory and image directory and
// uploads the result to the given account's application-private folder as
// minimalog_backup_<yyyyMMdd_HHmm>.zip. On success it records and returns
// the backup time. The scratch archive is deleted unconditionally.
func (s *BackupService) BackupNow(ctx context.Context, account string) (time.Time, error) {
	if !s.mu.TryLock() {
		return time.Time{}, ErrBusy
	}
	defer s.mu.Unlock()

	client, err := s.factory.Create(ctx, account)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrUpload, err)
	}

	if err = filex.EnsureDir(s.cacheDir); err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrArchive, err)
	}

	scratch := filepath.Join(s.cacheDir, fmt.Sprintf("backup_%d.zip", s.now().UnixMilli()))
	defer os.Remove(scratch)

	if err = buildArchive(s.dbDir, s.imagesDir, scratch); err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrArchive, err)
	}

	archive, err := os.Open(scratch)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrArchive, err)
	}
	defer archive.Close()

	name := backupPrefix + s.now().Format("20060102_1504") + ".zip"

	created, err := client.Upload(ctx, name, zipMimeType, archive)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrUpload, err)
	}

	ts := s.now()
	if err = s.prefs.SetLastBackup(ts); err != nil {
		s.logger.Warn().Err(err).
			Str("func", "BackupService.BackupNow").
			Msg("backup succeeded but last-backup time could not be persisted")
	}
	if err = s.prefs.SetAccount(account); err != nil {
		s.logger.Warn().Err(err).
			Str("func", "BackupService.BackupNow").
			Msg("backup succeeded but account name could not be persisted")
	}

	s.logger.Info().
		Str("func", "BackupService.BackupNow").
		Str("object_id", created.ID).
		Str("object_name", created.Name).
		Msg("backup uploaded")

	return ts, nil
}

// RestoreLatest downloads the most recently modified backup archive from the
// given account's application-private folder and replaces local database and
// image files with its content. Every destination file is promoted
// atomically, so an interrupted restore never leaves a half-written file
// visible under its final name.
//
// The service does not reopen the live database afterwards: it sets the
// persisted restored flag and the host application is expected to observe it
// and perform a full reload, since replacing database files underneath an
// open connection is undefined behaviour.
func (s *BackupService) RestoreLatest(ctx context.Context, account string) error {
	if !s.mu.TryLock() {
		return ErrBusy
	}
	defer s.mu.Unlock()

	client, err := s.factory.Create(ctx, account)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}

	objects, err := client.List(ctx, drive.Query{
		NameContains: backupPrefix,
		MimeTypes:    []string{zipMimeType, octetStreamMimeType},
		PageSize:     s.pageSize,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}
	if len(objects) == 0 {
		return ErrBackupNotFound
	}

	latest := objects[0]

	if err = filex.EnsureDir(s.cacheDir); err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}

	scratch := filepath.Join(s.cacheDir, fmt.Sprintf("restore_%d.zip", s.now().UnixMilli()))
	defer os.Remove(scratch)

	if err = s.download(ctx, client, latest.ID, scratch); err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}

	info, err := os.Stat(scratch)
	if err != nil || info.Size() == 0 {
		return &CorruptBackupError{ID: latest.ID, Name: latest.Name, Reason: "downloaded archive is empty"}
	}

	zr, err := zip.OpenReader(scratch)
	if err != nil {
		return &CorruptBackupError{ID: latest.ID, Name: latest.Name, Reason: err.Error()}
	}

	if err = extractEntries(&zr.Reader, s.dbDir, s.imagesDir, s.logger); err != nil {
		zr.Close()
		return fmt.Errorf("%w: %w", ErrRestore, err)
	}
	zr.Close()

	if err = s.prefs.SetDBRestored(true); err != nil {
		return fmt.Errorf("%w: persist restored flag: %w", ErrRestore, err)
	}

	s.logger.Info().
		Str("func", "BackupService.RestoreLatest").
		Str("object_id", latest.ID).
		Str("object_name", latest.Name).
		Msg("backup restored; host application must reload local state")

	return nil
}

// LastBackupTime reports the recorded time of the last successful backup.
func (s *BackupService) LastBackupTime() (time.Time, bool) {
	return s.prefs.LastBackup()
}

func (s *BackupService) download(ctx context.Context, client drive.Client, id, dest string) error {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create scratch file %s: %w", dest, err)
	}

	if err = client.Download(ctx, id, out); err != nil {
		out.Close()
		_ = os.Remove(dest)
		return err
	}

	if err = out.Close(); err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("close scratch file %s: %w", dest, err)
	}

	return nil
}

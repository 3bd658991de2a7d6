package service

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the backup engine. Callers should use
// [errors.Is] to match against these values; the wrapped cause carries the
// file path or remote object context needed for user-visible messaging.
var (
	// ErrArchive is returned when the local backup archive cannot be
	// constructed (unreadable source file, disk full, permissions).
	ErrArchive = errors.New("archive construction failed")

	// ErrUpload is returned on any transport or auth failure while creating
	// the remote backup object. The engine does not retry.
	ErrUpload = errors.New("backup upload failed")

	// ErrDownload is returned on any transport or auth failure while
	// listing or downloading remote backups.
	ErrDownload = errors.New("backup download failed")

	// ErrBackupNotFound is returned when the remote application folder
	// holds no backup archive.
	ErrBackupNotFound = errors.New("no backup found in remote folder")

	// ErrCorruptBackup matches any *CorruptBackupError via errors.Is.
	ErrCorruptBackup = errors.New("downloaded backup is corrupt")

	// ErrRestore is returned when extracted content cannot be applied to
	// local storage.
	ErrRestore = errors.New("restore failed")

	// ErrBusy is returned when a backup or restore is requested while
	// another one is still in flight. Operations are not designed for
	// internal concurrency; callers must serialize invocations.
	ErrBusy = errors.New("backup operation already in progress")
)

// CorruptBackupError reports a downloaded archive that is empty or
// unreadable, naming the remote object for diagnostics.
type CorruptBackupError struct {
	// ID is the remote object identifier.
	ID string

	// Name is the remote object name.
	Name string

	// Reason describes what made the archive unusable.
	Reason string
}

func (e *CorruptBackupError) Error() string {
	return fmt.Sprintf("downloaded backup is corrupt (id=%s, name=%s): %s", e.ID, e.Name, e.Reason)
}

// Is makes the error match [ErrCorruptBackup] under [errors.Is].
func (e *CorruptBackupError) Is(target error) bool {
	return target == ErrCorruptBackup
}

package models

import "time"

// BackupObject is the client-side view of a backup archive stored in the
// remote drive's application-private folder. The engine never mutates a
// remote object after creation; restore only reads the most recent one.
type BackupObject struct {
	// ID is the provider-assigned object identifier.
	ID string `json:"id"`

	// Name is the generated archive name, e.g. "minimalog_backup_20260831_1405.zip".
	Name string `json:"name"`

	// ModifiedTime is the provider-reported last modification time.
	ModifiedTime time.Time `json:"modified_time"`

	// Size is the object size in bytes as reported by the provider.
	Size int64 `json:"size"`

	// MimeType is the declared content type of the object.
	MimeType string `json:"mime_type"`
}

// BackupPreferences is the small persisted key/value state surrounding the
// backup engine. It is written by the engine after each successful operation
// and read by the presentation layer at any time.
type BackupPreferences struct {
	// Account is the last-known signed-in drive account name.
	Account string `json:"account,omitempty"`

	// LastBackup is the time of the last successful backup in epoch
	// milliseconds. Zero means no backup has succeeded yet.
	LastBackup int64 `json:"last_backup,omitempty"`

	// DBRestored flags that a restore has just replaced local state. The
	// host application observes it and performs a full reload, because
	// swapping database files underneath an open connection is undefined
	// behaviour for the embedded engine.
	DBRestored bool `json:"db_restored,omitempty"`
}

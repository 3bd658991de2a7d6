package store

import (
	"context"
	"fmt"

	"github.com/aube/minimal-log/internal/config"
	"github.com/aube/minimal-log/internal/logger"
)

// Storages groups all local storage backends into a single value that can be
// passed around the service layer: the SQLite memory repository, the image
// file store and the backup preferences store.
type Storages struct {
	// Memories is the SQLite-backed repository for journal entries.
	Memories *MemoryRepository

	// Images is the local file store for imported photos.
	Images *ImageStorage

	// Preferences is the persisted backup preference state.
	Preferences *PreferencesStore
}

// NewStorages initialises the storage layer using the supplied configuration
// and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in cfg.DB.DSN,
//     creating the database file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Loads (or initialises) the preferences file.
//  4. Constructs the repositories wired to the shared connection.
//
// Returns an error if the database connection cannot be established, if
// migration fails, or if the preferences file is unreadable.
func NewStorages(cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(context.Background(), cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	prefs, err := NewPreferencesStore(cfg.Prefs.File)
	if err != nil {
		return nil, fmt.Errorf("preferences load failed: %w", err)
	}

	return &Storages{
		Memories:    NewMemoryRepository(db, log),
		Images:      NewImageStorage(cfg.Files.ImagesDir, log),
		Preferences: prefs,
	}, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Aube

package config

// StructuredConfig is the top-level configuration container for the
// minimal-log application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line
// flags, an optional JSON file, and built-in defaults.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Storage holds paths for all local persistence: the SQLite database,
	// the image directory, the scratch cache and the preferences file.
	Storage Storage `envPrefix:"STORAGE_"`

	// Drive holds settings for the remote drive backup integration.
	Drive Drive `envPrefix:"DRIVE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`

	// Args holds the positional command-line arguments left after flag
	// parsing, in order. The CLI uses them for command dispatch.
	Args []string `env:"-"`
}

// Storage groups the configuration of every local persistence location.
// The backup engine snapshots the DB directory and the images directory;
// the cache directory holds transient archives and the preferences file
// deliberately lives outside the DB directory so a restore cannot clobber it.
type Storage struct {
	// DB holds the local database settings.
	DB DB `envPrefix:"DB_"`

	// Files holds the image file-store settings.
	Files Files `envPrefix:"FILES_"`

	// Cache holds the scratch directory settings used for transient
	// backup/restore archives.
	Cache Cache `envPrefix:"CACHE_"`

	// Prefs holds the backup preferences file settings.
	Prefs Prefs `envPrefix:"PREFS_"`
}

// DB contains local database connection settings.
type DB struct {
	// DSN is the SQLite database file path.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Files contains the image file-store settings.
type Files struct {
	// ImagesDir is the directory where imported photos are stored.
	// Env: STORAGE_FILES_IMAGES_DIR
	ImagesDir string `env:"IMAGES_DIR"`
}

// Cache contains scratch storage settings.
type Cache struct {
	// Dir is the directory for transient archives created during backup
	// and restore. Its content is disposable.
	// Env: STORAGE_CACHE_DIR
	Dir string `env:"DIR"`
}

// Prefs contains the preferences store settings.
type Prefs struct {
	// File is the path of the JSON preferences file.
	// Env: STORAGE_PREFS_FILE
	File string `env:"FILE"`
}

// Drive holds the remote drive session settings consumed by the backup
// engine's session factory.
type Drive struct {
	// CredentialsFile is the path of the OAuth client credentials JSON.
	// Env: DRIVE_CREDENTIALS_FILE
	CredentialsFile string `env:"CREDENTIALS_FILE"`

	// TokenDir is the directory holding one OAuth token file per signed-in
	// account, named <account>.json.
	// Env: DRIVE_TOKEN_DIR
	TokenDir string `env:"TOKEN_DIR"`

	// ListPageSize bounds the remote listing used to locate the most
	// recent backup.
	// Env: DRIVE_LIST_PAGE_SIZE
	ListPageSize int64 `env:"LIST_PAGE_SIZE"`
}

// GetConfig loads, merges, and validates the application configuration from
// all available sources in the following priority order (first non-zero
// value wins):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}

func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}
	if cfg.Storage.Files.ImagesDir == "" || cfg.Storage.Cache.Dir == "" || cfg.Storage.Prefs.File == "" {
		return ErrInvalidStorageConfigs
	}
	// Drive settings are optional: backup stays unavailable until both the
	// credentials file and the token directory are configured.
	if (cfg.Drive.CredentialsFile == "") != (cfg.Drive.TokenDir == "") {
		return ErrInvalidDriveConfigs
	}
	if cfg.Drive.ListPageSize < 0 {
		return ErrInvalidDriveConfigs
	}
	return nil
}

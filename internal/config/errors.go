package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid local storage settings
	// (for example, an empty database DSN or missing images directory).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")

	// ErrInvalidDriveConfigs indicates inconsistent drive settings
	// (for example, credentials configured without a token directory).
	ErrInvalidDriveConfigs = errors.New("invalid drive configuration")
)

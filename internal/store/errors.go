package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrMemoryNotFound is returned when a query or update targets a memory
	// id that does not exist in the database.
	ErrMemoryNotFound = errors.New("memory was not found")

	// ErrMemoryNotSaved is returned when an insert completes without error
	// but no row id can be resolved, indicating that nothing was persisted.
	ErrMemoryNotSaved = errors.New("memory was not saved")
)

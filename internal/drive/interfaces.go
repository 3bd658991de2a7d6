// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Aube

// Package drive abstracts the remote-storage side of the backup engine.
//
// The primary abstractions are [Client], which exposes the three operations
// the engine needs on the provider's application-private folder (list,
// download, upload), and [SessionFactory], which turns a signed-in account
// name into an authenticated client. The Google Drive implementation lives
// in google.go; tests substitute an in-memory fake.
package drive

import (
	"context"
	"io"

	"github.com/aube/minimal-log/models"
)

// Query describes a listing of the application-private folder. Trashed
// objects are always excluded and results are ordered by modification time
// descending.
type Query struct {
	// NameContains filters objects whose name contains the given substring.
	NameContains string

	// MimeTypes restricts results to the given content types. Empty means
	// any type.
	MimeTypes []string

	// PageSize bounds the number of returned objects. Zero means the
	// provider default.
	PageSize int64
}

// Client is an authenticated session against the provider's
// application-private folder.
type Client interface {
	// List returns the objects matching q, most recently modified first.
	List(ctx context.Context, q Query) ([]models.BackupObject, error)

	// Download streams the full content of the object with the given id
	// into dst.
	Download(ctx context.Context, id string, dst io.Writer) error

	// Upload creates a new object in the application-private folder with
	// the given name and mime type, reading its content from src. It
	// returns the provider's view of the created object.
	Upload(ctx context.Context, name, mimeType string, src io.Reader) (models.BackupObject, error)
}

// SessionFactory obtains an authenticated [Client] for a signed-in account.
// Authentication and token plumbing are the factory's concern; the backup
// engine treats its failures opaquely as transport errors.
type SessionFactory interface {
	Create(ctx context.Context, account string) (Client, error)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Aube

// Package app contains shared application-layer constants used across the
// minimal-log command-line surface.
//
// All Msg* constants are human-readable message strings shown to the user to
// describe the outcome of an operation. Keeping them in one place ensures
// consistent wording throughout the application.
package app

import (
	"errors"

	"github.com/aube/minimal-log/internal/service"
	"github.com/aube/minimal-log/internal/store"
)

const (
	// MsgMemoryNotFound is shown when an operation targets an entry id
	// that does not exist.
	MsgMemoryNotFound = "memory not found"

	// MsgBackupBusy is shown when a backup or restore is requested while
	// another one is still running.
	MsgBackupBusy = "a backup or restore is already running, try again later"

	// MsgBackupNotFound is shown when a restore finds no archive in the
	// remote folder.
	MsgBackupNotFound = "no backup found for this account"

	// MsgBackupCorrupt is shown when the downloaded archive is empty or
	// unreadable. Local data is left untouched.
	MsgBackupCorrupt = "the downloaded backup is unreadable, local data was not changed"

	// MsgBackupUploadFailed is shown on any transport or auth failure
	// while uploading a backup.
	MsgBackupUploadFailed = "backup upload failed, check your connection and account"

	// MsgBackupDownloadFailed is shown on any transport or auth failure
	// while locating or downloading a backup.
	MsgBackupDownloadFailed = "backup download failed, check your connection and account"

	// MsgRestoreFailed is shown when downloaded content cannot be applied
	// to local storage.
	MsgRestoreFailed = "restore failed, local data may be partially replaced"
)

// UserMessage maps an operation error to the message shown to the user.
// Errors outside the known taxonomy are shown as-is.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrMemoryNotFound):
		return MsgMemoryNotFound
	case errors.Is(err, service.ErrBusy):
		return MsgBackupBusy
	case errors.Is(err, service.ErrBackupNotFound):
		return MsgBackupNotFound
	case errors.Is(err, service.ErrCorruptBackup):
		return MsgBackupCorrupt
	case errors.Is(err, service.ErrUpload):
		return MsgBackupUploadFailed
	case errors.Is(err, service.ErrDownload):
		return MsgBackupDownloadFailed
	case errors.Is(err, service.ErrRestore):
		return MsgRestoreFailed
	default:
		return err.Error()
	}
}

package service

import (
	"github.com/aube/minimal-log/internal/config"
	"github.com/aube/minimal-log/internal/drive"
	"github.com/aube/minimal-log/internal/logger"
	"github.com/aube/minimal-log/internal/store"
)

// Services groups the application services over the storage layer.
type Services struct {
	Memories  *MemoryService
	Backup    *BackupService
	BackupJob *BackupJob
}

// NewServices wires the service layer on top of the already initialised
// storages and the drive session factory.
func NewServices(storages *store.Storages, factory drive.SessionFactory, cfg *config.StructuredConfig, log *logger.Logger) *Services {
	backup := NewBackupService(factory, storages.Preferences, cfg.Storage, cfg.Drive, log)

	return &Services{
		Memories:  NewMemoryService(storages.Memories, storages.Images, log),
		Backup:    backup,
		BackupJob: NewBackupJob(backup, log),
	}
}

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aube/minimal-log/internal/logger"
)

const defaultBackupInterval = 24 * time.Hour

type backupper interface {
	BackupNow(ctx context.Context, account string) (time.Time, error)
}

// BackupJob runs BackupNow for a fixed account on a ticker. The job is idle
// until Start is called.
type BackupJob struct {
	backup backupper
	logger *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewBackupJob(backup backupper, log *logger.Logger) *BackupJob {
	return &BackupJob{backup: backup, logger: log}
}

// Start stops any previously running job, then launches a background
// goroutine that uploads a backup every interval. If interval is zero or
// negative it defaults to 24 hours. A tick that finds another backup or
// restore in flight is skipped silently. The goroutine exits when ctx is
// cancelled or Stop is called.
func (j *BackupJob) Start(ctx context.Context, account string, interval time.Duration) {
	if interval <= 0 {
		interval = defaultBackupInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if _, err := j.backup.BackupNow(jobCtx, account); err != nil && !errors.Is(err, ErrBusy) {
					j.logger.Warn().Err(err).
						Str("func", "BackupJob").
						Msg("scheduled backup failed; will retry on next tick")
				}
			}
		}
	}()
}

// Stop cancels the background goroutine and blocks until it has fully
// exited. Safe to call when the job is not running.
func (j *BackupJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

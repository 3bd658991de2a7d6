package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/aube/minimal-log/internal/filex"
	"github.com/aube/minimal-log/models"
)

// PreferencesStore persists the small key/value state surrounding the backup
// engine in a JSON file. The file deliberately lives outside the database
// directory: the restore flow replaces database files wholesale and the
// restored flag must survive that replacement.
type PreferencesStore struct {
	path string

	mu    sync.Mutex
	prefs models.BackupPreferences
}

// NewPreferencesStore loads the preferences file at path. A missing file
// yields empty preferences; a corrupt one is an error.
func NewPreferencesStore(path string) (*PreferencesStore, error) {
	s := &PreferencesStore{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read preferences file: %w", err)
	}

	if err = json.Unmarshal(data, &s.prefs); err != nil {
		return nil, fmt.Errorf("decode preferences file: %w", err)
	}

	return s, nil
}

// Account returns the last-known signed-in account name, or "".
func (s *PreferencesStore) Account() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs.Account
}

// SetAccount stores the signed-in account name.
func (s *PreferencesStore) SetAccount(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.Account = name
	return s.persist()
}

// LastBackup returns the time of the last successful backup. The second
// return value is false when no backup has succeeded yet.
func (s *PreferencesStore) LastBackup() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prefs.LastBackup <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(s.prefs.LastBackup), true
}

// SetLastBackup records ts as the last successful backup time.
func (s *PreferencesStore) SetLastBackup(ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.LastBackup = ts.UnixMilli()
	return s.persist()
}

// DBRestored reports whether a restore has replaced local state since the
// flag was last cleared.
func (s *PreferencesStore) DBRestored() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs.DBRestored
}

// SetDBRestored sets or clears the restored flag.
func (s *PreferencesStore) SetDBRestored(restored bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.DBRestored = restored
	return s.persist()
}

// Snapshot returns a copy of the full preferences state.
func (s *PreferencesStore) Snapshot() models.BackupPreferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

func (s *PreferencesStore) persist() error {
	payload, err := json.MarshalIndent(s.prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	if err = filex.WriteAtomic(s.path, bytes.NewReader(payload)); err != nil {
		return fmt.Errorf("write preferences file: %w", err)
	}

	return nil
}

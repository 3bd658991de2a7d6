package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferences_MissingFileStartsEmpty(t *testing.T) {
	s, err := NewPreferencesStore(filepath.Join(t.TempDir(), "prefs.json"))
	require.NoError(t, err)

	assert.Empty(t, s.Account())
	assert.False(t, s.DBRestored())

	_, ok := s.LastBackup()
	assert.False(t, ok, "no backup time should be reported before the first backup")
}

func TestPreferences_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	s, err := NewPreferencesStore(path)
	require.NoError(t, err)

	ts := time.Date(2026, time.August, 31, 14, 5, 0, 0, time.UTC)
	require.NoError(t, s.SetAccount("user@example.com"))
	require.NoError(t, s.SetLastBackup(ts))
	require.NoError(t, s.SetDBRestored(true))

	reloaded, err := NewPreferencesStore(path)
	require.NoError(t, err)

	assert.Equal(t, "user@example.com", reloaded.Account())
	assert.True(t, reloaded.DBRestored())

	got, ok := reloaded.LastBackup()
	require.True(t, ok)
	assert.Equal(t, ts.UnixMilli(), got.UnixMilli())
}

func TestPreferences_ClearRestoredFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	s, err := NewPreferencesStore(path)
	require.NoError(t, err)

	require.NoError(t, s.SetDBRestored(true))
	require.NoError(t, s.SetDBRestored(false))

	reloaded, err := NewPreferencesStore(path)
	require.NoError(t, err)
	assert.False(t, reloaded.DBRestored())
}

func TestPreferences_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewPreferencesStore(path)
	require.Error(t, err)
}

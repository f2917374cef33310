package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// TempFilePrefix is the prefix used for temporary atomic write files.
	TempFilePrefix = "autoprop-tmp-"
)

// writeFileAtomic writes data to a file atomically by writing to a temp file
// and then renaming it to the target filename.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	tmpFile, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name()) // no-op once renamed

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}

	return nil
}

// replaceKeepingModTime atomically replaces filename and restores its previous
// modification time, so a property write does not count as an edit.
func replaceKeepingModTime(filename string, data []byte, info os.FileInfo) error {
	if err := writeFileAtomic(filename, data, info.Mode().Perm()); err != nil {
		return err
	}
	mtime := info.ModTime()
	if err := os.Chtimes(filename, time.Now(), mtime); err != nil {
		return fmt.Errorf("failed to restore modification time: %w", err)
	}
	return nil
}

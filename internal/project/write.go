package project

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/chapterd/internal/apperr"
)

// rename is swapped in tests to simulate a failing filesystem.
var rename = os.Rename

// TempPath returns the sibling used while writing path atomically.
// The extension is replaced by ".html.tmp"; markdown notes keep theirs.
func TempPath(path string) string {
	return siblingPath(path, "tmp")
}

// BackupPath returns the sibling that holds the session backup of path.
// The extension is replaced by ".html.bak"; markdown notes keep theirs.
func BackupPath(path string) string {
	return siblingPath(path, "bak")
}

func siblingPath(path, suffix string) string {
	ext := filepath.Ext(path)
	switch strings.ToLower(ext) {
	case ".md", ".markdown":
		return path + "." + suffix
	}
	// A leading dot names a hidden file, not an extension.
	if ext == filepath.Base(path) {
		ext = ""
	}
	return path[:len(path)-len(ext)] + ".html." + suffix
}

// AtomicWrite replaces path with content by writing a sibling temp file and
// renaming it over the target. If the rename fails the target is untouched
// and the temp file is removed.
func AtomicWrite(path, content string) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmpPath := TempPath(path)
	if err := os.WriteFile(tmpPath, []byte(content), mode); err != nil {
		os.Remove(tmpPath)
		return apperr.New(apperr.KindFileWrite, path, fmt.Errorf("write temp file: %w", err))
	}
	// WriteFile does not change the mode of an existing temp file.
	if err := os.Chmod(tmpPath, mode); err != nil && !errors.Is(err, fs.ErrNotExist) {
		os.Remove(tmpPath)
		return apperr.New(apperr.KindFileWrite, path, fmt.Errorf("chmod temp file: %w", err))
	}

	if err := rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return apperr.New(apperr.KindRename, path, fmt.Errorf("rename temp file: %w", err))
	}
	return nil
}

// CreateBackup copies path to BackupPath(path). The copy is not atomic; a
// crash mid-copy can leave a partial backup.
func CreateBackup(path string) (string, error) {
	backupPath := BackupPath(path)

	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", fmt.Errorf("stat source: %w", err)
	}

	dst, err := os.OpenFile(backupPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("copy to backup: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close backup: %w", err)
	}
	return backupPath, nil
}

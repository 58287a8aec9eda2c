// Package backup keeps one backup copy per chapter per session.
package backup

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/dgallion1/chapterd/internal/apperr"
	"github.com/dgallion1/chapterd/internal/project"
)

// Tracker records which files were backed up during this process. It is
// created once at startup and shared by every command.
type Tracker struct {
	mu       sync.Mutex
	backedUp map[string]struct{}
	log      *slog.Logger
	copyFile func(path string) (string, error)
}

// NewTracker returns an empty tracker.
func NewTracker(log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Tracker{
		backedUp: make(map[string]struct{}),
		log:      log,
		copyFile: project.CreateBackup,
	}
}

// BackupIfNeeded copies path to its backup sibling the first time it is
// seen this session. It returns true when the path was newly tracked and
// false when it had been tracked already. A path that does not exist yet is
// tracked without a copy. A failed copy leaves the path untracked so the
// next write retries.
//
// The lock is held across the copy, so backups never run in parallel.
func (t *Tracker) BackupIfNeeded(path string) (bool, error) {
	key := identity(path)

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.backedUp[key]; ok {
		return false, nil
	}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		backupPath, err := t.copyFile(path)
		if err != nil {
			t.log.Warn("backup failed", "path", path, "error", err)
			return false, apperr.New(apperr.KindBackup, path, err)
		}
		t.log.Info("backup created", "path", path, "backup", backupPath)
	case errors.Is(err, fs.ErrNotExist):
		// Nothing to back up yet.
	default:
		return false, apperr.New(apperr.KindBackup, path, err)
	}

	t.backedUp[key] = struct{}{}
	return true, nil
}

// Tracked reports whether path has been handled this session.
func (t *Tracker) Tracked(path string) bool {
	key := identity(path)
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.backedUp[key]
	return ok
}

// Len returns the number of tracked paths.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.backedUp)
}

func identity(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/dgallion1/chapterd/internal/project"
	"github.com/fsnotify/fsnotify"
)

// Watcher follows one project root at a time and publishes chapter events
// to a Hub. Calling Watch again switches to the new root.
type Watcher struct {
	hub *Hub
	log *slog.Logger

	mu      sync.Mutex
	current *session
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// session is one watched root. known holds the chapter files seen on disk;
// it is seeded before the loop starts and touched only by the loop after.
type session struct {
	fw    *fsnotify.Watcher
	root  string
	known map[string]struct{}
	hub   *Hub
	log   *slog.Logger
}

func NewWatcher(hub *Hub, log *slog.Logger) *Watcher {
	return &Watcher{hub: hub, log: log}
}

// Watch starts watching root and every directory below it.
func (w *Watcher) Watch(root string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", root)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	sess := &session{
		fw:    fw,
		root:  absRoot,
		known: make(map[string]struct{}),
		hub:   w.hub,
		log:   w.log,
	}
	if err := sess.addTree(absRoot); err != nil {
		fw.Close()
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()

	chapters := len(sess.known)
	ctx, cancel := context.WithCancel(context.Background())
	w.current = sess
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		sess.loop(ctx)
	}()

	w.log.Info("watching project", "root", absRoot, "chapters", chapters)
	return nil
}

// Root returns the directory being watched, or "".
func (w *Watcher) Root() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return ""
	}
	return w.current.root
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() {
	w.mu.Lock()
	w.stopLocked()
	w.mu.Unlock()
	w.wg.Wait()
}

func (w *Watcher) stopLocked() {
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	if w.current != nil {
		w.current.fw.Close()
		w.current = nil
	}
}

func (s *session) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.fw.Events:
			if !ok {
				return
			}
			s.handle(event)
		case err, ok := <-s.fw.Errors:
			if !ok {
				return
			}
			s.log.Warn("watcher error", "root", s.root, "error", err)
		}
	}
}

func (s *session) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := s.addTree(event.Name); err != nil {
				s.log.Warn("cannot watch new directory", "path", event.Name, "error", err)
			}
			return
		}
	}

	if !project.IsChapterFile(event.Name) {
		return
	}

	// Saves rename a temp file over the chapter, which arrives as a Create
	// on a path that already exists.
	_, seen := s.known[event.Name]
	var typ EventType
	switch {
	case event.Has(fsnotify.Create):
		typ = EventCreated
		if seen {
			typ = EventModified
		}
		s.known[event.Name] = struct{}{}
	case event.Has(fsnotify.Write):
		typ = EventModified
		s.known[event.Name] = struct{}{}
	case event.Has(fsnotify.Remove):
		typ = EventRemoved
		delete(s.known, event.Name)
	case event.Has(fsnotify.Rename):
		typ = EventRenamed
		delete(s.known, event.Name)
	default:
		return
	}

	rel, err := filepath.Rel(s.root, event.Name)
	if err != nil {
		rel = event.Name
	}
	s.hub.Publish(Event{Type: typ, Path: event.Name, RelativePath: rel})
}

// addTree adds dir and its subdirectories and records the chapter files
// found in them. Subdirectories that cannot be watched are logged and
// skipped.
func (s *session) addTree(dir string) error {
	if err := s.fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.log.Warn("skipping unreadable directory", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == dir {
			return nil
		}
		if !d.IsDir() {
			if project.IsChapterFile(path) {
				s.known[path] = struct{}{}
			}
			return nil
		}
		if err := s.fw.Add(path); err != nil {
			s.log.Warn("cannot watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Package commands implements the editor's user actions on top of the
// splitter, scanner and backup tracker.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/chapterd/internal/apperr"
	"github.com/dgallion1/chapterd/internal/backup"
	"github.com/dgallion1/chapterd/internal/doctree"
	"github.com/dgallion1/chapterd/internal/export"
	"github.com/dgallion1/chapterd/internal/htmldoc"
	"github.com/dgallion1/chapterd/internal/markdown"
	"github.com/dgallion1/chapterd/internal/project"
)

// Picker is the host's native file dialog. Both methods return
// apperr.ErrNoSelection when the user cancels.
type Picker interface {
	PickFile(ctx context.Context, extensions []string) (string, error)
	PickFolder(ctx context.Context) (string, error)
}

// ChapterData is what the editor needs to show one chapter.
type ChapterData struct {
	Filename     string `json:"filename"`
	BodyHTML     string `json:"body_html"`
	CSS          string `json:"css"`
	OriginalHead string `json:"original_head"`
	IsFragment   bool   `json:"is_fragment"`
}

// Service runs commands. It is safe for concurrent use; the backup tracker
// is the only shared state.
type Service struct {
	tracker  *backup.Tracker
	opener   export.Opener
	picker   Picker
	renderer *markdown.Renderer
	log      *slog.Logger
}

// NewService wires a service. picker may be nil when no dialog is available.
func NewService(tracker *backup.Tracker, opener export.Opener, picker Picker, log *slog.Logger) *Service {
	return &Service{
		tracker:  tracker,
		opener:   opener,
		picker:   picker,
		renderer: markdown.NewRenderer(),
		log:      log,
	}
}

// Tracker exposes the session backup tracker.
func (s *Service) Tracker() *backup.Tracker {
	return s.tracker
}

// OpenFile asks the host to pick a chapter file.
func (s *Service) OpenFile(ctx context.Context) (string, error) {
	if s.picker == nil {
		return "", apperr.ErrNoSelection
	}
	return s.picker.PickFile(ctx, []string{"html", "htm"})
}

// OpenProject asks the host to pick a project folder.
func (s *Service) OpenProject(ctx context.Context) (string, error) {
	if s.picker == nil {
		return "", apperr.ErrNoSelection
	}
	dir, err := s.picker.PickFolder(ctx)
	if err != nil {
		return "", err
	}
	if err := requireDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// ListChapters returns the chapter files under dir.
func (s *Service) ListChapters(dir string) ([]project.ChapterMeta, error) {
	if err := requireDir(dir); err != nil {
		return nil, err
	}
	chapters, err := project.ListHTMLFiles(dir)
	if err != nil {
		return nil, apperr.New(apperr.KindFileRead, dir, fmt.Errorf("list chapters: %w", err))
	}
	return chapters, nil
}

// ReadChapter loads a chapter and splits it for editing. The shared
// stylesheet comes from projectDir; an empty projectDir means the file's
// own directory.
func (s *Service) ReadChapter(path, projectDir string) (*ChapterData, error) {
	raw, err := readText(path)
	if err != nil {
		return nil, err
	}
	if projectDir == "" {
		projectDir = filepath.Dir(path)
	}

	split := htmldoc.Split(raw)
	filename := filepath.Base(path)
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		filename = "unknown"
	}

	return &ChapterData{
		Filename:     filename,
		BodyHTML:     split.BodyContent,
		CSS:          project.ReadSharedStylesheet(projectDir),
		OriginalHead: split.HeadContent,
		IsFragment:   split.IsFragment,
	}, nil
}

// WriteChapter saves edited body content. The first save of a file this
// session backs it up. Full documents keep the doctype currently on disk.
func (s *Service) WriteChapter(path, bodyHTML, originalHead string, isFragment bool) error {
	log := s.log.With("path", path)

	if _, err := s.tracker.BackupIfNeeded(path); err != nil {
		return err
	}

	output := bodyHTML
	if !isFragment {
		doctype := ""
		raw, err := readText(path)
		switch {
		case err == nil:
			doctype = htmldoc.Split(raw).Doctype
		case errors.Is(err, fs.ErrNotExist):
			// New file: no doctype to carry over.
		default:
			return err
		}
		output = htmldoc.Reassemble(doctype, originalHead, bodyHTML, false)
	}

	if err := project.AtomicWrite(path, output); err != nil {
		log.Error("write chapter failed", "error", err)
		return err
	}
	log.Info("chapter saved", "bytes", len(output), "fragment", isFragment)
	return nil
}

// ExportChapter opens a chapter in the system viewer.
func (s *Service) ExportChapter(path string) error {
	if _, err := os.Stat(path); err != nil {
		return apperr.New(apperr.KindFileRead, path, fmt.Errorf("file not found: %w", err))
	}
	if err := s.opener.Open(path); err != nil {
		return apperr.New(apperr.KindExternalOpen, path, err)
	}
	return nil
}

// ExportDOCX writes the outline of a chapter or markdown note as a Word
// document to w.
func (s *Service) ExportDOCX(path string, w io.Writer) error {
	raw, err := readText(path)
	if err != nil {
		return err
	}
	var tree *doctree.DocTree
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		tree = s.renderer.Outline([]byte(raw), filepath.Base(path))
	default:
		tree, err = htmldoc.Outline(raw, filepath.Base(path))
		if err != nil {
			return apperr.New(apperr.KindFileRead, path, err)
		}
	}
	if err := export.WriteDOCX(w, tree); err != nil {
		return apperr.New(apperr.KindFileWrite, path, err)
	}
	return nil
}

func requireDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		if err == nil {
			err = errors.New("not a directory")
		}
		return apperr.New(apperr.KindNotADirectory, dir, err)
	}
	return nil
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", apperr.New(apperr.KindFileRead, path, err)
	}
	return string(data), nil
}

package commands

import (
	"context"

	"github.com/dgallion1/chapterd/internal/apperr"
	"github.com/dgallion1/chapterd/internal/project"
)

// OpenMarkdownFile asks the host to pick a markdown file.
func (s *Service) OpenMarkdownFile(ctx context.Context) (string, error) {
	if s.picker == nil {
		return "", apperr.ErrNoSelection
	}
	return s.picker.PickFile(ctx, []string{"md", "markdown"})
}

// ReadTextFile returns a file's content unchanged.
func (s *Service) ReadTextFile(path string) (string, error) {
	return readText(path)
}

// SaveMarkdownFile writes content with the same backup and atomic-write
// rules as chapters.
func (s *Service) SaveMarkdownFile(path, content string) error {
	if _, err := s.tracker.BackupIfNeeded(path); err != nil {
		return err
	}
	if err := project.AtomicWrite(path, content); err != nil {
		s.log.Error("save markdown failed", "path", path, "error", err)
		return err
	}
	s.log.Info("markdown saved", "path", path, "bytes", len(content))
	return nil
}

// RenderMarkdown returns an HTML preview of a markdown file.
func (s *Service) RenderMarkdown(path string) (string, error) {
	src, err := readText(path)
	if err != nil {
		return "", err
	}
	out, err := s.renderer.Render([]byte(src))
	if err != nil {
		return "", apperr.New(apperr.KindFileRead, path, err)
	}
	return out, nil
}

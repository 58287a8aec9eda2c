// Package project discovers chapter files under a project root and owns
// the on-disk write protocol for them.
package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ChapterMeta describes one chapter file found by a scan.
type ChapterMeta struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	// RelativePath is relative to the project root and keeps subdirectories.
	RelativePath string `json:"relative_path"`
}

// StylesheetCandidates are probed in order by ReadSharedStylesheet.
var StylesheetCandidates = []string{
	"book.css",
	"style.css",
	"styles.css",
	"css/book.css",
	"styles/book.css",
}

// IsChapterFile reports whether name has an .html or .htm extension,
// compared case-insensitively.
func IsChapterFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// ListHTMLFiles walks root recursively and returns every chapter file,
// sorted by relative path. An unreadable directory aborts the scan.
func ListHTMLFiles(root string) ([]ChapterMeta, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	var chapters []ChapterMeta
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsChapterFile(d.Name()) {
			return nil
		}
		// Follow symlinks; skip anything that does not end at a regular file.
		info, statErr := os.Stat(path)
		if statErr != nil || !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		chapters = append(chapters, ChapterMeta{
			Filename:     d.Name(),
			Path:         path,
			RelativePath: rel,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	sort.Slice(chapters, func(i, j int) bool {
		return chapters[i].RelativePath < chapters[j].RelativePath
	})
	return chapters, nil
}

// ReadSharedStylesheet returns the first readable stylesheet among
// StylesheetCandidates, or "" when there is none.
func ReadSharedStylesheet(root string) string {
	for _, candidate := range StylesheetCandidates {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(candidate)))
		if err == nil {
			return string(data)
		}
	}
	return ""
}

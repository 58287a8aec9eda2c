package api

import (
	"bytes"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/chapterd/internal/apperr"
	"github.com/dgallion1/chapterd/internal/project"
)

func (s *Server) handleOpenFile(w http.ResponseWriter, r *http.Request) {
	path, err := s.svc.OpenFile(r.Context())
	s.writePicked(w, r, path, err)
}

func (s *Server) handleOpenProject(w http.ResponseWriter, r *http.Request) {
	path, err := s.svc.OpenProject(r.Context())
	s.writePicked(w, r, path, err)
}

func (s *Server) writePicked(w http.ResponseWriter, r *http.Request, path string, err error) {
	if errors.Is(err, apperr.ErrNoSelection) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		s.commandError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}

func (s *Server) handleListChapters(w http.ResponseWriter, r *http.Request) {
	dir, ok := requireParam(w, r, "project_dir")
	if !ok {
		return
	}
	chapters, err := s.svc.ListChapters(dir)
	if err != nil {
		s.commandError(w, r, err)
		return
	}
	if chapters == nil {
		chapters = []project.ChapterMeta{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"chapters": chapters})
}

func (s *Server) handleReadChapter(w http.ResponseWriter, r *http.Request) {
	path, ok := requireParam(w, r, "path")
	if !ok {
		return
	}
	data, err := s.svc.ReadChapter(path, r.URL.Query().Get("project_dir"))
	if err != nil {
		s.commandError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

type writeChapterRequest struct {
	Path         string `json:"path"`
	BodyHTML     string `json:"body_html"`
	OriginalHead string `json:"original_head"`
	IsFragment   bool   `json:"is_fragment"`
}

func (s *Server) handleWriteChapter(w http.ResponseWriter, r *http.Request) {
	var req writeChapterRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Path == "" {
		jsonError(w, "path is required", "", http.StatusBadRequest)
		return
	}
	if err := s.svc.WriteChapter(req.Path, req.BodyHTML, req.OriginalHead, req.IsFragment); err != nil {
		s.commandError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type pathRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleExportChapter(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Path == "" {
		jsonError(w, "path is required", "", http.StatusBadRequest)
		return
	}
	if err := s.svc.ExportChapter(req.Path); err != nil {
		s.commandError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExportDOCX(w http.ResponseWriter, r *http.Request) {
	path, ok := requireParam(w, r, "path")
	if !ok {
		return
	}
	// Render fully before writing headers so failures still get a JSON error.
	var buf bytes.Buffer
	if err := s.svc.ExportDOCX(path, &buf); err != nil {
		s.commandError(w, r, err)
		return
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".docx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	w.Header().Set("Content-Disposition", `attachment; filename="`+sanitizeFilename(name)+`"`)
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `"`, "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "/", "_")
	if name == "" || name == ".docx" {
		name = "chapter.docx"
	}
	return name
}

package api

import (
	"net/http"
)

func (s *Server) handleOpenMarkdown(w http.ResponseWriter, r *http.Request) {
	path, err := s.svc.OpenMarkdownFile(r.Context())
	s.writePicked(w, r, path, err)
}

func (s *Server) handleReadText(w http.ResponseWriter, r *http.Request) {
	path, ok := requireParam(w, r, "path")
	if !ok {
		return
	}
	content, err := s.svc.ReadTextFile(path)
	if err != nil {
		s.commandError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": content})
}

type saveMarkdownRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

func (s *Server) handleSaveMarkdown(w http.ResponseWriter, r *http.Request) {
	var req saveMarkdownRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Path == "" {
		jsonError(w, "path is required", "", http.StatusBadRequest)
		return
	}
	if err := s.svc.SaveMarkdownFile(req.Path, req.Content); err != nil {
		s.commandError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMarkdownPreview(w http.ResponseWriter, r *http.Request) {
	path, ok := requireParam(w, r, "path")
	if !ok {
		return
	}
	out, err := s.svc.RenderMarkdown(path)
	if err != nil {
		s.commandError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"html": out})
}

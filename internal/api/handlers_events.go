package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dgallion1/chapterd/internal/apperr"
)

// keepaliveInterval stays below typical proxy idle timeouts.
var keepaliveInterval = 10 * time.Second

type watchRequest struct {
	ProjectDir string `json:"project_dir"`
}

func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	if s.watcher == nil {
		jsonError(w, "project watching is disabled", "", http.StatusServiceUnavailable)
		return
	}
	var req watchRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := s.watcher.Watch(req.ProjectDir); err != nil {
		jsonError(w, err.Error(), apperr.KindNotADirectory, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"watching": s.watcher.Root()})
}

// handleEvents streams chapter events as Server-Sent Events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		jsonError(w, "project watching is disabled", "", http.StatusServiceUnavailable)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		jsonError(w, "streaming unsupported", "", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	id, events := s.hub.Subscribe(32)
	defer s.hub.Unsubscribe(id)

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				s.log.Error("marshal event", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", ev.ID, ev.Type, data); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

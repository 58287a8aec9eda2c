package api

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"

	"github.com/dgallion1/chapterd/internal/apperr"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, kind apperr.Kind, code int) {
	body := map[string]string{"error": msg}
	if kind != "" {
		body["kind"] = string(kind)
	}
	writeJSON(w, code, body)
}

// commandError reports a failed command with a status derived from its kind.
func (s *Server) commandError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	code := http.StatusInternalServerError
	switch kind {
	case apperr.KindNotADirectory:
		code = http.StatusBadRequest
	case apperr.KindFileRead:
		if errors.Is(err, fs.ErrNotExist) {
			code = http.StatusNotFound
		}
	}
	if code >= 500 {
		s.log.Error("command failed", "path", r.URL.Path, "kind", kind, "error", err)
	}
	jsonError(w, err.Error(), kind, code)
}

// decodeJSON reads a JSON body capped at the configured size.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, "request body too large", "", http.StatusRequestEntityTooLarge)
			return false
		}
		jsonError(w, "invalid json body: "+err.Error(), "", http.StatusBadRequest)
		return false
	}
	return true
}

func requireParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		jsonError(w, name+" query parameter is required", "", http.StatusBadRequest)
		return "", false
	}
	return v, true
}

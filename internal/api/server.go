package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/chapterd/internal/commands"
	"github.com/dgallion1/chapterd/internal/config"
	"github.com/dgallion1/chapterd/internal/watch"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server is the local HTTP API the editor frontend talks to.
type Server struct {
	router  chi.Router
	svc     *commands.Service
	hub     *watch.Hub
	watcher *watch.Watcher
	log     *slog.Logger
	cfg     config.Config
}

// NewServer creates and configures the HTTP server. watcher may be nil to
// disable project events.
func NewServer(svc *commands.Service, hub *watch.Hub, watcher *watch.Watcher, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		svc:     svc,
		hub:     hub,
		watcher: watcher,
		log:     log,
		cfg:     cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Last-Event-ID"},
		MaxAge:         300,
	}))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/open/file", s.handleOpenFile)
		r.Post("/api/open/project", s.handleOpenProject)
		r.Post("/api/open/markdown", s.handleOpenMarkdown)

		r.Get("/api/chapters", s.handleListChapters)
		r.Get("/api/chapter", s.handleReadChapter)
		r.Put("/api/chapter", s.handleWriteChapter)
		r.Post("/api/chapter/export", s.handleExportChapter)
		r.Get("/api/chapter/docx", s.handleExportDOCX)

		r.Get("/api/text", s.handleReadText)
		r.Put("/api/markdown", s.handleSaveMarkdown)
		r.Get("/api/markdown/preview", s.handleMarkdownPreview)

		r.Post("/api/watch", s.handleWatch)
		r.Get("/api/events", s.handleEvents)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	watching := ""
	if s.watcher != nil {
		watching = s.watcher.Root()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"backups_tracked": s.svc.Tracker().Len(),
		"watching":        watching,
	})
}

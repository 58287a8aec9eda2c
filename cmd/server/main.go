package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/chapterd/internal/api"
	"github.com/dgallion1/chapterd/internal/backup"
	"github.com/dgallion1/chapterd/internal/commands"
	"github.com/dgallion1/chapterd/internal/config"
	"github.com/dgallion1/chapterd/internal/export"
	"github.com/dgallion1/chapterd/internal/watch"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfgPath := os.Getenv("CHAPTERD_CONFIG")
	if cfgPath == "" {
		cfgPath = "chapterd.yml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Error("loading configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	tracker := backup.NewTracker(log)
	opener := export.SystemOpener{Command: cfg.OpenCommand}
	// No native dialogs in the headless server; the editor picks paths itself.
	svc := commands.NewService(tracker, opener, nil, log)

	hub := watch.NewHub()
	var watcher *watch.Watcher
	if cfg.Watch {
		watcher = watch.NewWatcher(hub, log)
		if cfg.ProjectDir != "" {
			if err := watcher.Watch(cfg.ProjectDir); err != nil {
				log.Error("watching project", "dir", cfg.ProjectDir, "error", err)
				os.Exit(1)
			}
		}
	}

	srv := api.NewServer(svc, hub, watcher, log, cfg)

	// No WriteTimeout: the events stream stays open for the whole session.
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		if watcher != nil {
			watcher.Close()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting chapterd", "addr", cfg.Addr(), "watch", cfg.Watch, "project_dir", cfg.ProjectDir)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

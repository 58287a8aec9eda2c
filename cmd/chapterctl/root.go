package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgallion1/chapterd/internal/backup"
	"github.com/dgallion1/chapterd/internal/commands"
	"github.com/dgallion1/chapterd/internal/config"
	"github.com/dgallion1/chapterd/internal/export"
	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "dev"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "chapterctl",
	Short: "Inspect and convert HTML chapter projects",
	Long: `chapterctl runs the chapter editor's file operations from the shell:
list the chapters of a project, split a chapter into its parts, and
export chapters or markdown notes to other formats.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of chapterctl",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("chapterctl %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "chapterd.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.AddCommand(versionCmd)
}

// newService builds the same command layer the server uses, logging to stderr.
func newService() (*commands.Service, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return commands.NewService(backup.NewTracker(log), export.SystemOpener{Command: cfg.OpenCommand}, nil, log), nil
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

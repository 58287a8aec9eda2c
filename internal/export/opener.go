// Package export hands chapters to tools outside the editor: the system
// viewer and Word documents.
package export

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Opener shows a file in an external application.
type Opener interface {
	Open(path string) error
}

// SystemOpener launches the platform's default handler for a file and does
// not wait for it to exit.
type SystemOpener struct {
	// Command overrides the launcher, e.g. "firefox". Empty uses the
	// platform default.
	Command string
}

func (o SystemOpener) Open(path string) error {
	name, args := o.command(path)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	// Reap the child in the background.
	go cmd.Wait()
	return nil
}

func (o SystemOpener) command(path string) (string, []string) {
	if o.Command != "" {
		return o.Command, []string{path}
	}
	switch runtime.GOOS {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "cmd", []string{"/c", "start", "", path}
	default:
		return "xdg-open", []string{path}
	}
}

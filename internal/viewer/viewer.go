// Package viewer hands a finished PDF to the desktop's default application.
package viewer

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// System opens files with the platform opener (open, xdg-open, rundll32).
type System struct {
	// Command overrides the opener binary; used by tests and odd desktops.
	Command string
}

// Open launches the viewer for path and returns once it has started.
// The viewer outlives ctx; ctx only guards the launch.
func (s System) Open(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, args := s.command(path)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s with %s: %w", path, name, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func (s System) command(path string) (string, []string) {
	if s.Command != "" {
		return s.Command, []string{path}
	}
	switch runtime.GOOS {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}

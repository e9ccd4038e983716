package ui

import (
	"os"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/oakwood-commons/jex/internal/session"
)

// Fallback dimensions for CI and non-TTY environments.
const (
	fallbackTermWidth  = 120
	fallbackTermHeight = 24
)

// DetectTerminalSize returns the best-effort terminal width and height by
// probing stdout, stderr, and stdin, then falling back to the COLUMNS
// environment variable.
func DetectTerminalSize() (width int, height int) {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, h, err := term.GetSize(int(fd)); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, fallbackTermHeight
		}
	}
	return fallbackTermWidth, fallbackTermHeight
}

// Run starts the interactive explorer over an already-running session and
// blocks until the user quits. It returns the final filter text so the CLI
// can echo it for shell reuse. Extra ProgramOptions (e.g. custom IO for
// tests) mirror tea.NewProgram.
func Run(sess *session.Session, cfg ModelConfig, opts ...tea.ProgramOption) (string, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		w, h := DetectTerminalSize()
		if cfg.Width <= 0 {
			cfg.Width = w
		}
		if cfg.Height <= 0 {
			cfg.Height = h
		}
	}

	m := NewModel(sess, cfg)
	prog := tea.NewProgram(&m, opts...)
	final, err := prog.Run()
	if err != nil {
		return "", err
	}
	if fm, ok := final.(*Model); ok {
		return fm.FinalFilter(), nil
	}
	return m.FinalFilter(), nil
}

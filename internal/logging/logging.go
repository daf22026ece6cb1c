// Package logging builds the CLI's structured logger.
package logging

import (
	"io"
	"log/slog"
)

// New returns a text logger writing to w.
// With debug set the level is Debug, otherwise only warnings and errors are
// printed so normal command output on stderr stays clean.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

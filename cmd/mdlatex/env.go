package main

import (
	"io"
	"log/slog"
	"os"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer
	// Logger overrides the logger built from --quiet and --verbose.
	Logger *slog.Logger
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// logger returns the injected logger, or a text logger on Stderr whose level
// follows the output flags.
func (e *Environment) logger(f commonFlags) *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return newLogger(e.Stderr, f.quiet, f.verbose)
}

// newLogger builds a text logger. quiet wins over verbose.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

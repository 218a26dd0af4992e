// Package logging is the structured logger shared by the API, services and commands.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger is a context-aware structured logger. Args are key/value pairs:
//
//	log.Info(ctx, "recipe created", "recipe_id", id)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}

// New returns a logger writing JSON in production and text elsewhere.
func New(w io.Writer, production bool) Logger {
	if w == nil {
		w = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if !production {
		opts.Level = slog.LevelDebug
	}

	var h slog.Handler
	if production {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return NewSlogLogger(slog.New(h))
}

// Discard drops everything. Used by tests and as the zero value for optional loggers.
func Discard() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

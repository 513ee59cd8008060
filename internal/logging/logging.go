package logging

import (
	"io"
	"log/slog"
)

// New returns a JSON logger in production and a text logger otherwise.
func New(w io.Writer, production bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if production {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

package cli

import (
	"io"
	"log/slog"
)

// NewLogger returns a text logger writing to w. Each verbose step lowers
// the level by one (info, then debug); quiet keeps errors only.
func NewLogger(w io.Writer, verbose int, quiet bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbose == 1:
		level = slog.LevelInfo
	case verbose > 1:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

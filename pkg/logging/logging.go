// Package logging configures structured logging for the server.
//
// Usage:
//
//	logger := logging.Setup(slog.LevelInfo, "text") // colored tint output
//	logger := logging.Setup(slog.LevelInfo, "json") // JSON lines for log shippers
//
// Setup also installs the logger as the slog default.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Format names accepted by Setup.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Setup configures the default logger at level, writing to stderr.
func Setup(level slog.Level, format string) *slog.Logger {
	logger := New(os.Stderr, level, format)
	slog.SetDefault(logger)
	return logger
}

// New builds a logger without installing it. Unknown formats fall back to text.
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level <= slog.LevelDebug,
		NoColor:    !isTerminal(w),
	}))
}

// isTerminal reports whether w is a terminal that can render colors.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

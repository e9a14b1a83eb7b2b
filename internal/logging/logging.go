// Package logging provides helpers for structured, colorized diagnostic logging.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

// Level represents a structured log level used by deckspawn.
type Level slog.Level

const (
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// ParseLevel converts a textual log level into a Level value.
// Unknown values fall back to warn so that notices stay readable.
func ParseLevel(value string) Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "error":
		return LevelError
	default:
		return LevelWarn
	}
}

func (l Level) String() string {
	return slog.Level(l).String()
}

// NewLogger constructs a slog.Logger configured with a tint handler and level.
func NewLogger(w io.Writer, level Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	handler := tint.NewHandler(w, &tint.Options{
		Level:   slog.Level(level),
		NoColor: !isTerminal(w),
	})

	return slog.New(handler)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

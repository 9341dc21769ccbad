// Package logger builds the structured logger the nntp client and its
// callers share. It wraps log/slog the way the rest of this codebase's
// services do: a level parsed from a string and a text handler — but,
// unlike a process-owned singleton, New
// returns a *slog.Logger the caller owns instead of installing one globally,
// since a library must not impose a logger on its host process.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// ParseLevel maps a level name (case-insensitive) to a slog.Level, defaulting
// to Info for anything unrecognized.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a text-handler logger at the given level, writing to w
// (os.Stdout if w is nil).
func New(levelStr string, w *os.File) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(levelStr)}
	return slog.New(slog.NewTextHandler(w, opts))
}

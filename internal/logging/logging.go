// Package logging provides slog loggers for the bot's subsystems.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// NewLogger creates a new slog.Logger with the bot's console format.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewBotHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewFileLogger creates a new slog.Logger that writes to a file.
// The file is opened in append mode and created (along with its parent
// directory) if it doesn't exist.
func NewFileLogger(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	return NewLogger(f, level), f, nil
}

// NewDiscardLogger creates a logger that discards all output.
// Useful for tests or when logging should be completely suppressed.
func NewDiscardLogger() *slog.Logger {
	return slog.New(NewBotHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(100)}))
}

// LevelFromString converts a string to a slog.Level.
// Supports: debug, info, warn, error (case-insensitive).
// Returns slog.LevelInfo for unrecognized strings.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup builds the process logger from the configured level and optional
// log file. When a file is configured, log records go to both stderr and
// the file; the returned closer owns the file handle.
func Setup(level string, file string) (*slog.Logger, io.Closer, error) {
	lvl := LevelFromString(level)

	console := NewBotHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	if file == "" {
		return slog.New(console), nil, nil
	}

	fileLogger, closer, err := NewFileLogger(file, lvl)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(NewTeeHandler(console, fileLogger.Handler())), closer, nil
}

package log

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

var (
	// logger is the global logger instance
	logger atomic.Pointer[slog.Logger]
	// level controls the log level
	level = new(slog.LevelVar)
	// jsonOutput switches the handler to JSON lines
	jsonOutput atomic.Bool
)

func init() {
	// Default to warning level so drafts stay readable on stdout
	level.Set(slog.LevelWarn)
	SetOutput(os.Stderr)
}

// SetVerbose enables debug logging
func SetVerbose(verbose bool) {
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelWarn)
	}
}

// SetQuiet disables all logging except errors
func SetQuiet(quiet bool) {
	if quiet {
		level.Set(slog.LevelError)
	}
}

// SetJSON switches between text and JSON output. Takes effect on the next SetOutput.
func SetJSON(enabled bool) {
	jsonOutput.Store(enabled)
}

// SetOutput changes the log output destination
func SetOutput(w io.Writer) {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if jsonOutput.Load() {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	logger.Store(slog.New(h))
}

// Logger returns the current global logger
func Logger() *slog.Logger {
	return logger.Load()
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	logger.Load().Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	logger.Load().Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	logger.Load().Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	logger.Load().Error(msg, args...)
}

// With returns a logger with the given attributes
func With(args ...any) *slog.Logger {
	return logger.Load().With(args...)
}

// Component returns a logger tagged with a component name
func Component(name string) *slog.Logger {
	return With("component", name)
}

package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"
)

// SetupLogger creates a dual-output logger: text to console, JSON to logFile.
// A nil console (used while the interactive UI owns the terminal) or an empty
// logFile drops that output. Returns the logger and a cleanup function to
// close the file.
func SetupLogger(logFile string, level slog.Level, console io.Writer) (*slog.Logger, func() error) {
	var handlers []slog.Handler

	if console != nil {
		handlers = append(handlers, slog.NewTextHandler(console, &slog.HandlerOptions{
			Level: level,
		}))
	}

	noop := func() error { return nil }
	if logFile == "" {
		return slog.New(slogmulti.Fanout(handlers...)), noop
	}

	// Try to open log file
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		slog.Error("failed to create log directory", "error", err, "file", logFile)
		return slog.New(slogmulti.Fanout(handlers...)), noop
	}
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		// Fall back to console-only if file fails
		slog.Error("failed to open log file, using console only", "error", err, "file", logFile)
		return slog.New(slogmulti.Fanout(handlers...)), noop
	}

	// File handler (JSON for machine parsing)
	handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{
		Level: level,
	}))

	logger := slog.New(slogmulti.Fanout(handlers...))

	cleanup := func() error {
		return file.Close()
	}

	return logger, cleanup
}

// SetupLoggerWithWriters creates a logger with custom writers (for testing).
func SetupLoggerWithWriters(console, file io.Writer, level slog.Level) *slog.Logger {
	consoleHandler := slog.NewTextHandler(console, &slog.HandlerOptions{Level: level})
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	return slog.New(slogmulti.Fanout(consoleHandler, fileHandler))
}

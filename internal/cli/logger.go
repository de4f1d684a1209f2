package cli

import (
	"io"
	"log/slog"

	"github.com/handiism/cuesheet/internal/batch"
)

// newLogger creates and configures a new slog.Logger instance. It does not
// set the global logger.
func newLogger(levelStr, formatStr string, w io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// progressLogger routes batch progress events to the logger.
func progressLogger(logger *slog.Logger) func(batch.ProgressEvent) {
	return func(e batch.ProgressEvent) {
		switch e.Level {
		case batch.LevelVerbose:
			logger.Debug(e.Message)
		case batch.LevelWarning:
			logger.Warn(e.Message)
		case batch.LevelError:
			logger.Error(e.Message)
		default:
			logger.Info(e.Message)
		}
	}
}

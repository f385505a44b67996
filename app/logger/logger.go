package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Setup installs a charmbracelet/log backed slog default logger.
func Setup(debug bool) *slog.Logger {
	return SetupWriter(os.Stderr, debug)
}

func SetupWriter(w io.Writer, debug bool) *slog.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

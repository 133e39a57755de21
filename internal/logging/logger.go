// Package logging builds the application logger.
//
// Log lines go to stderr so that they never interleave with the reports on
// stdout. When a log file is configured every line is also appended there.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ginjaninja78/shop-analytics/internal/config"
)

// Logger wraps the configured logger together with the log file it may own.
type Logger struct {
	*log.Logger
	file *os.File
}

// New creates a logger from the logging settings. verbose forces the debug
// level regardless of the configured one.
func New(settings config.LogSettings, verbose bool) (*Logger, error) {
	return newWithWriter(os.Stderr, settings, verbose)
}

func newWithWriter(console io.Writer, settings config.LogSettings, verbose bool) (*Logger, error) {
	level, err := parseLevel(settings.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = log.DebugLevel
	}

	output := console
	var file *os.File
	if settings.File != "" {
		file, err = openLogFile(settings.File)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = io.MultiWriter(console, file)
	}

	logger := log.NewWithOptions(output, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "analytics",
	})

	return &Logger{Logger: logger, file: file}, nil
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// parseLevel accepts the level names used in the config file.
func parseLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return log.InfoLevel, nil
	case "debug":
		return log.DebugLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

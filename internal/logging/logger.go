// Package logging wraps charmbracelet/log with the level and field
// conventions used across the host, resolver, and CLI.
package logging

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	defaultLogger     *log.Logger
	defaultLoggerOnce sync.Once
)

func getDefaultLogger() *log.Logger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = New("info")
	})
	return defaultLogger
}

// New creates a logger at the given level ("debug", "info", "warn",
// "error"); an unrecognized level falls back to "info".
func New(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	setLevel(logger, level)
	return logger
}

func setLevel(logger *log.Logger, level string) {
	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn", "warning":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
}

// Default returns the package-level logger used by components that
// don't carry their own.
func Default() *log.Logger { return getDefaultLogger() }

// SetDefault replaces the package-level logger.
func SetDefault(logger *log.Logger) { defaultLogger = logger }

// SetLevel updates the default logger's level.
func SetLevel(level string) { setLevel(getDefaultLogger(), level) }

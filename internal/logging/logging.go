// Package logging builds the zerolog logger used for internal tracing.
// User-facing progress lines do not go through here; see package report.
package logging

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// LogLevel represents logging levels accepted in configuration
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// ParseLevel maps a configured level to zerolog, defaulting to warn
func ParseLevel(level string) zerolog.Level {
	switch LogLevel(strings.ToLower(strings.TrimSpace(level))) {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}

// New creates a console logger on w filtered at the given level
func New(level string, w io.Writer) zerolog.Logger {
	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
	}
	return zerolog.New(console).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("app", "rtutils").
		Logger()
}

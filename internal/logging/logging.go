// Package logging builds the structured loggers used across sitec.
package logging

import (
	"io"
	"strings"

	"github.com/phuslu/log"
)

// New returns a console logger writing to w at the named level ("debug",
// "info", "warn", "error"). Unknown level names fall back to info.
func New(w io.Writer, level string) *log.Logger {
	return &log.Logger{
		Level: ParseLevel(level),
		Writer: &log.ConsoleWriter{
			Writer:         w,
			EndWithMessage: true,
		},
	}
}

// Discard returns a logger that drops every record.
func Discard() *log.Logger {
	return &log.Logger{
		Level:  log.ErrorLevel,
		Writer: &log.IOWriter{Writer: io.Discard},
	}
}

// ParseLevel converts a level name to a log.Level.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return log.TraceLevel
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

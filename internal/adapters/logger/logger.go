// Package logger implements the logging adapter on charmbracelet/log.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"go.trai.ch/pyforge/internal/core/ports"
)

// Logger implements ports.Logger.
type Logger struct {
	l *log.Logger
}

var _ ports.Logger = (*Logger)(nil)

// New creates a logger writing human-readable output to stderr.
func New() ports.Logger {
	return NewWithWriter(os.Stderr)
}

// NewWithWriter creates a logger writing to w. Used by tests to capture
// output.
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{
		l: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           log.InfoLevel,
		}),
	}
}

// Info logs an informational message.
func (lg *Logger) Info(msg string, keyvals ...any) { lg.l.Info(msg, keyvals...) }

// Warn logs a warning.
func (lg *Logger) Warn(msg string, keyvals ...any) { lg.l.Warn(msg, keyvals...) }

// Error logs an error message.
func (lg *Logger) Error(msg string, keyvals ...any) { lg.l.Error(msg, keyvals...) }

package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that appends to a file
func NewFileLogger(path string, level log.Level) (*Logger, func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	return NewWithLevel(f, level), f.Close, nil
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// ConversionStarted logs the start of a conversion
func (l *Logger) ConversionStarted(source, direction string) {
	l.Debug("conversion started",
		"source", source,
		"direction", direction)
}

// ConversionCompleted logs a finished conversion
func (l *Logger) ConversionCompleted(source string, nodes int, duration time.Duration) {
	l.Info("conversion completed",
		"source", source,
		"nodes", nodes,
		"duration", duration.Round(time.Microsecond))
}

// ConversionError logs a conversion error
func (l *Logger) ConversionError(source string, err error) {
	l.Error("conversion failed",
		"source", source,
		"error", err)
}

// FootnotesResolved logs how many footnotes a document carries
func (l *Logger) FootnotesResolved(source string, footnotes int) {
	l.Debug("footnotes resolved",
		"source", source,
		"footnotes", footnotes)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(path string, maxDepth int, strict bool) {
	l.Debug("config loaded",
		"path", path,
		"max_depth", maxDepth,
		"strict_footnotes", strict)
}

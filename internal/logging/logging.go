// Package logging builds the structured loggers used across lane-runner.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Environment variables read by New.
const (
	EnvLevel  = "LOG_LEVEL"  // debug, info, warn, error (default info)
	EnvFormat = "LOG_FORMAT" // text, json or logfmt (default text)
)

// New creates a logger writing to stderr with the given prefix.
// Level and formatter come from LOG_LEVEL and LOG_FORMAT.
func New(prefix string) *log.Logger {
	return NewWithWriter(os.Stderr, prefix)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           levelFromEnv(),
		Formatter:       formatterFromEnv(),
	})
	return logger
}

// Discard returns a logger that drops everything. Library code uses it when
// the caller passes no logger.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}

func levelFromEnv() log.Level {
	raw, ok := os.LookupEnv(EnvLevel)
	if !ok {
		return log.InfoLevel
	}
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

func formatterFromEnv() log.Formatter {
	switch strings.ToLower(os.Getenv(EnvFormat)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

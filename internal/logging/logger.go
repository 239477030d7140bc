// Package logging builds the charm loggers handed to the disassembler and the
// commands. Everything is configured from the environment:
//
//	EVSCRIPT_LOG_LEVEL   debug, info, warn, error (default info)
//	EVSCRIPT_LOG_PREFIX  message prefix (default "evscript ")
//	EVSCRIPT_LOG_FORMAT  text, json or logfmt (default text)
//	EVSCRIPT_LOG_TO_FILE "1" for a timestamped file in the working directory,
//	                     any other value is used as the file path
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LoggerCloser wraps a logger and provides a Close method for cleanup
type LoggerCloser struct {
	*log.Logger
	closer io.Closer
}

// Close closes the underlying writer if it's closeable
func (lc *LoggerCloser) Close() error {
	if lc.closer != nil {
		return lc.closer.Close()
	}
	return nil
}

func levelFromEnv() log.Level {
	level, err := log.ParseLevel(os.Getenv("EVSCRIPT_LOG_LEVEL"))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

func formatterFromEnv() log.Formatter {
	switch strings.ToLower(os.Getenv("EVSCRIPT_LOG_FORMAT")) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	}
	return log.TextFormatter
}

// NewLoggerWithWriter creates a logger writing to w. If w is an io.Closer it
// is closed with the logger.
func NewLoggerWithWriter(w io.Writer) *LoggerCloser {
	prefix := os.Getenv("EVSCRIPT_LOG_PREFIX")
	if prefix == "" {
		prefix = "evscript "
	}

	lg := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           levelFromEnv(),
		Formatter:       formatterFromEnv(),
		Prefix:          prefix,
	})

	var closer io.Closer
	if c, ok := w.(io.Closer); ok {
		closer = c
	}
	return &LoggerCloser{Logger: lg, closer: closer}
}

// NewLogger logs to stderr, or to the file named by EVSCRIPT_LOG_TO_FILE.
// If the file cannot be opened it falls back to stderr.
func NewLogger() *LoggerCloser {
	if path := logFile(os.Getenv("EVSCRIPT_LOG_TO_FILE"), time.Now()); path != "" {
		if f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644); err == nil {
			return NewLoggerWithWriter(f)
		}
	}
	return NewLoggerWithWriter(os.Stderr)
}

func logFile(setting string, now time.Time) string {
	switch setting {
	case "", "0":
		return ""
	case "1":
		return fmt.Sprintf("evscript-%s-debug.log", now.Format("20060102-150405"))
	}
	return setting
}

// IsDebug returns true if debug logging is enabled
func IsDebug() bool {
	return levelFromEnv() == log.DebugLevel
}

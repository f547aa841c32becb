// Package logging configures bacc's charmbracelet/log output.
//
// All log output goes to stderr; stdout is reserved for command output such
// as results, JSON and CSV exports. Setup must run before New: child loggers
// copy the default logger's level and formatter when they are created.
//
//	logging.Setup(verbose, quiet, logging.ParseFormat(os.Getenv("BACC_LOG_FORMAT")) == logging.FormatJSON)
//	logger := logging.New(logging.ComponentSurvey)
//	logger.Info("session started", "questions", 9)
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Level aliases for charmbracelet/log levels.
const (
	LevelDebug = log.DebugLevel
	LevelInfo  = log.InfoLevel
	LevelWarn  = log.WarnLevel
	LevelError = log.ErrorLevel
)

// Component prefixes used across bacc.
const (
	ComponentCLI       = "cli"
	ComponentSurvey    = "survey"
	ComponentSubmit    = "submit"
	ComponentBacc      = "bacc"
	ComponentEventLog  = "eventlog"
	ComponentDevServer = "devserver"
	ComponentTUI       = "tui"
)

// Format is a log output format.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat maps a BACC_LOG_FORMAT value to a Format. Matching is case
// insensitive; anything other than "json" selects text.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), string(FormatJSON)) {
		return FormatJSON
	}
	return FormatText
}

// Setup configures the default logger. verbose selects Debug, quiet selects
// Error, and quiet wins when both are set. jsonFormat switches to NDJSON.
func Setup(verbose, quiet, jsonFormat bool) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	if quiet {
		level = log.ErrorLevel
	}

	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	if jsonFormat {
		log.SetFormatter(log.JSONFormatter)
	} else {
		log.SetFormatter(log.TextFormatter)
	}
}

// New creates a logger with the given component prefix. An empty component
// produces a logger without a prefix.
func New(component string) *log.Logger {
	return log.WithPrefix(component)
}

// SetOutput redirects the default logger, typically to a buffer in tests.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

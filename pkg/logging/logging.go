// Package logging builds the diagnostic logger shared by the installer.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Prefix is prepended to every log line.
const Prefix = "maginium"

// New creates a logger writing to w at the given level. An empty or unknown
// level falls back to warn. A nil writer means stderr.
func New(level string, w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: Prefix,
		Level:  ParseLevel(level),
	})
}

// ParseLevel converts a level name. Unknown names yield warn.
func ParseLevel(level string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

// LevelFor picks the level from the global flags: --debug wins over
// --verbose, which wins over the configured level.
func LevelFor(debug, verbose bool, configured string) string {
	switch {
	case debug:
		return "debug"
	case verbose:
		return "info"
	case configured != "":
		return configured
	default:
		return "warn"
	}
}

// Discard returns a logger that writes nothing.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

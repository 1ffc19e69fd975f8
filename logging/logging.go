// Package logging builds the process logger. Stdout carries protocol frames
// on the stdio transport, so callers pass stderr.
package logging

import (
	"fmt"
	"io"
	stdlog "log"

	"github.com/charmbracelet/log"
)

const Prefix = "simple-calculator"

// New returns a timestamped logger writing to w. format is one of text,
// json or logfmt.
func New(w io.Writer, level, format string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	formatter, err := parseFormat(format)
	if err != nil {
		return nil, err
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          Prefix,
		Level:           lvl,
		Formatter:       formatter,
	}), nil
}

func parseFormat(format string) (log.Formatter, error) {
	switch format {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	default:
		return 0, fmt.Errorf("unknown log format %q", format)
	}
}

// Standard adapts logger for APIs that take a *log.Logger from the
// standard library. Everything written through it is logged at error level.
func Standard(logger *log.Logger) *stdlog.Logger {
	return logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel})
}

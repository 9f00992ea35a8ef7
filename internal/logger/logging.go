// Package logger builds the charmbracelet/log loggers used across placeserve.
//
// Everything logs to stderr: stdout carries the msgpack response stream and
// must never receive log output.
package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// New returns a stderr logger with the given prefix, inheriting the process
// log level. Intended to be installed as the default logger at startup.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// Package logging builds the console logger used by commands.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// Options holds configuration for console logging.
type Options struct {
	Debug           bool
	Quiet           bool
	ReportTimestamp bool
	Prefix          string
}

// New returns a text logger writing to w at info level. Debug lowers the
// level to debug; Quiet raises it to error and wins over Debug.
func New(w io.Writer, opts Options) *log.Logger {
	level := log.InfoLevel
	switch {
	case opts.Quiet:
		level = log.ErrorLevel
	case opts.Debug:
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

package host

import (
	"io"

	"github.com/retroenv/retrogolib/log"
)

// NewLogger creates the application logger writing to w. debug enables
// debug output, quiet limits output to errors.
func NewLogger(w io.Writer, debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Output = w
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

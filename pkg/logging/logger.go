// Package logging provides structured logging for envsync using zerolog.
// Console output is used when stderr is a terminal and JSON otherwise, so
// the same binary reads well locally and in CI logs.
//
// Library code never owns a logger. It takes one from the context:
//
//	ctx = logging.WithPair(ctx, ".env.template", ".env")
//	logging.FromContext(ctx).Debug().Int("added", 2).Msg("Merged documents")
//
// and falls back to Default when the caller attached none.
package logging

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger atomic.Pointer[zerolog.Logger]

func init() {
	ConfigureFromEnv()
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger, including zerolog's own
// global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger.Store(&logger)
	log.Logger = logger
}

// isTerminal checks if w is a terminal (including Cygwin/MSYS ptys).
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// levelFromEnv returns the initial level: ENVSYNC_LOG_LEVEL, then
// ENVSYNC_DEBUG, then warn.
func levelFromEnv() string {
	if level := os.Getenv(EnvLogLevel); level != "" {
		return level
	}
	if os.Getenv(EnvDebug) != "" {
		return "debug"
	}
	return "warn"
}

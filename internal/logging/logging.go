// Package logging provides the scheduler's package-level structured
// logger, following the teacher's pkg/logger convention of a single
// pre-configured zerolog.Logger other packages pull in by name instead of
// threading a logger through every constructor.
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// Log is the scheduler-wide logger. Scheduler lifecycle events (init,
// destroy, interrupt) and assertion failures (logged at panic level just
// before the panic) go through it with structured fields rather than fmt.Printf, so a crashed worker
// leaves a greppable trail.
var Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Caller().Logger()

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

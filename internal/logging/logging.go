// Package logging configures the process-wide zerolog logger from the
// number of -v flags. Packages log through github.com/rs/zerolog/log.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MaxVerbosity is the largest -v count that changes anything.
const MaxVerbosity = 3

// LevelFor maps a -v count to a level: 0 warn, 1 info, 2 debug, 3+ trace.
func LevelFor(count int) zerolog.Level {
	switch {
	case count <= 0:
		return zerolog.WarnLevel
	case count == 1:
		return zerolog.InfoLevel
	case count == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// SetVerbosity installs a human-readable logger on stderr.
func SetVerbosity(count int) {
	Setup(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}, count)
}

// Setup installs a logger writing to w at the level for count.
func Setup(w io.Writer, count int) {
	if count > MaxVerbosity {
		count = MaxVerbosity
	}
	zerolog.SetGlobalLevel(LevelFor(count))
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

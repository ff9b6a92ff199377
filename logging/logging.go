package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Log is the process-wide logger. Subsystems report non-fatal failures
// (rejected render calls, resource creation errors) through it and keep going.
var Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.StampMilli}).
	With().
	Timestamp().
	Logger()

// SetLevel adjusts the global log level.
func SetLevel(level zerolog.Level) {
	Log = Log.Level(level)
}

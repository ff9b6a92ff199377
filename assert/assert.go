package assert

import (
	"github.com/mivret/glint/logging"
)

// T panics with a formatted message if check is false.
func T(check bool, msg string, args ...any) {

	if check {
		return
	}

	logging.Log.Panic().Msgf(msg, args...)
}

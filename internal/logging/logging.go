package logging

import (
	"github.com/google/uuid"
	"github.com/pion/logging"
)

var loggerFactory = logging.NewDefaultLoggerFactory()

func NewLogger(scope string) logging.LeveledLogger {
	return loggerFactory.NewLogger(scope)
}

// NewInstanceLogger creates a logger for a single effect instance. The returned id
// is unique per instance and is appended to scope so that concurrent instances of
// the same effect can be told apart in the output.
func NewInstanceLogger(scope string) (id string, logger logging.LeveledLogger) {
	id = uuid.New().String()
	return id, loggerFactory.NewLogger(scope + "#" + id[:8])
}

// Package log provides the process-wide structured logger used by every
// package in this module. It wraps github.com/charmbracelet/log so kernel
// components can attach structured fields (vector, task_id, queue) instead
// of formatting strings, matching how the rest of the charm ecosystem this
// module's stack is drawn from does logging.
package log

import (
	"io"
	"os"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

var (
	mu     sync.Mutex
	logger *charmlog.Logger
)

func init() {
	logger = newLogger(os.Stderr, charmlog.InfoLevel)
}

func newLogger(w io.Writer, level charmlog.Level) *charmlog.Logger {
	l := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	return l
}

// Init reconfigures the shared logger. debug raises the level to Debug;
// otherwise it stays at Info. w is the destination (os.Stderr in
// production, a buffer in tests).
func Init(w io.Writer, debug bool) {
	mu.Lock()
	defer mu.Unlock()
	level := charmlog.InfoLevel
	if debug {
		level = charmlog.DebugLevel
	}
	logger = newLogger(w, level)
}

// L returns the shared logger. Safe for concurrent use — every CPU
// goroutine and AMC mailbox may log concurrently.
func L() *charmlog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// With returns a child logger with the given key/value pairs attached to
// every subsequent call, e.g. log.With("task_id", t.ID).
func With(kv ...any) *charmlog.Logger {
	return L().With(kv...)
}

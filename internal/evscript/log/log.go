// Package log configures the process-wide slog default.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"

	charmlog "github.com/charmbracelet/log"
)

var (
	initOnce    sync.Once
	initialized atomic.Bool
)

// Setup installs a charm handler on stderr as the slog default. Only the
// first call has any effect.
func Setup(debug bool) {
	SetupWithWriter(os.Stderr, debug)
}

// SetupWithWriter is Setup with an explicit destination.
func SetupWithWriter(w io.Writer, debug bool) {
	initOnce.Do(func() {
		level := charmlog.InfoLevel
		if debug {
			level = charmlog.DebugLevel
		}

		handler := charmlog.NewWithOptions(w, charmlog.Options{
			Level:        level,
			ReportCaller: debug,
			Prefix:       "evscript",
		})

		slog.SetDefault(slog.New(handler))
		initialized.Store(true)
	})
}

func Initialized() bool {
	return initialized.Load()
}

// RecoverPanic logs a panic with its stack and runs cleanup. It must be
// deferred directly.
func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		if Initialized() {
			slog.Error(fmt.Sprintf("Panic in %s", name),
				"panic", r,
				"stack", string(debug.Stack()))
		}
		if cleanup != nil {
			cleanup()
		}
	}
}

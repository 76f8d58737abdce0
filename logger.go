package heatwave

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/gogpu/heatwave/gpu"
)

// nopHandler drops every record. Enabled reports false, so slog never
// formats attributes for it.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr is read on every log call from the driver goroutine and
// written by SetLogger from anywhere.
var loggerPtr atomic.Pointer[slog.Logger]

func init() { loggerPtr.Store(newNopLogger()) }

// SetLogger configures the logger for heatwave and the GPU backends.
// By default, heatwave produces no log output. Call SetLogger to enable
// logging.
//
// Passing nil restores the silent default. The logger is also handed to
// every registered backend that accepts one, and to backends registered
// later. SetLogger is safe for concurrent use.
//
// Log levels used by heatwave:
//   - [slog.LevelDebug]: per-frame diagnostics (acquire retries, skipped frames)
//   - [slog.LevelInfo]: lifecycle (adapter selected, surface format, state changes)
//   - [slog.LevelWarn]: recovered faults (retry exhausted, surface rebound)
//
// Example:
//
//	heatwave.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	gpu.SetLogger(l)
}

// Logger returns the logger set by SetLogger, or a silent one.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// InitLogger installs a text logger on stderr at the given level and
// returns it. In the browser stderr is the developer console.
func InitLogger(level slog.Level) *slog.Logger {
	return initLogger(os.Stderr, level)
}

func initLogger(w io.Writer, level slog.Level) *slog.Logger {
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	SetLogger(l)
	return l
}

// Package logger provides a small, centralized logging facility
// with configurable verbosity levels.
//
// Verbosity levels (in increasing order):
//
//	Error < Info < Debug < Trace
//
// Records are written by a log/slog text handler on stderr, so
// pricing output on stdout stays clean for pipelines.
//
// Example usage:
//
//	logger.SetVerbosity(2) // Debug
//	logger.Infof("evaluating grid")
//	logger.Debugf("points=%d spot=[%.2f, %.2f]", n, lo, hi)
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// Level represents a logging verbosity level.
// Higher values mean more verbose logging.
type Level int

const (
	Error Level = iota // Error logs only failures.
	Info               // Info logs high-level progress.
	Debug              // Debug logs detailed diagnostic information.
	Trace              // Trace logs per-cell detail; very noisy.
)

// slogTrace sits below slog.LevelDebug so Trace records can be filtered separately.
const slogTrace = slog.Level(-8)

var (
	current atomic.Int32
	level   = new(slog.LevelVar)
	std     atomic.Pointer[slog.Logger]
)

func init() {
	SetOutput(os.Stderr)
	SetVerbosity(int(Info))
}

// SetOutput redirects log records to w. Mainly useful in tests.
func SetOutput(w io.Writer) {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if l, ok := a.Value.Any().(slog.Level); ok && l == slogTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	})
	std.Store(slog.New(h))
}

// SetVerbosity sets the global logging verbosity.
// Values outside [Error, Trace] are clamped.
func SetVerbosity(v int) {
	if v < int(Error) {
		v = int(Error)
	}
	if v > int(Trace) {
		v = int(Trace)
	}
	current.Store(int32(v))
	level.Set(toSlog(Level(v)))
}

// Verbosity returns the active level.
func Verbosity() Level {
	return Level(current.Load())
}

// Slog exposes the underlying logger for packages that want structured attributes.
func Slog() *slog.Logger {
	return std.Load()
}

func toSlog(l Level) slog.Level {
	switch l {
	case Error:
		return slog.LevelError
	case Info:
		return slog.LevelInfo
	case Debug:
		return slog.LevelDebug
	default:
		return slogTrace
	}
}

func logf(l Level, format string, args ...any) {
	lg := std.Load()
	sl := toSlog(l)
	if !lg.Enabled(context.Background(), sl) {
		return
	}
	lg.Log(context.Background(), sl, fmt.Sprintf(format, args...))
}

// Errorf logs an error-level message.
func Errorf(format string, args ...any) {
	logf(Error, format, args...)
}

// Infof logs an informational message.
func Infof(format string, args ...any) {
	logf(Info, format, args...)
}

// Debugf logs debugging information.
func Debugf(format string, args ...any) {
	logf(Debug, format, args...)
}

// Tracef logs very detailed execution traces.
func Tracef(format string, args ...any) {
	logf(Trace, format, args...)
}

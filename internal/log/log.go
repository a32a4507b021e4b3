// Package log owns the process-wide structured logger. Every package
// emits through the leveled helpers here so log shape stays uniform,
// and tests can swap the destination with Replace.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	minLevel = new(slog.LevelVar)

	mu     sync.RWMutex
	logger = slog.New(NewHandler(os.Stderr))
)

// NewHandler builds the logfmt handler the service logs through:
// timestamps normalised to UTC, severity gated by the package level.
func NewHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: minLevel,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.TimeKey && attr.Value.Kind() == slog.KindTime {
				attr.Value = slog.TimeValue(attr.Value.Time().UTC())
			}
			return attr
		},
	})
}

// SetLevel adjusts the minimum severity the process logs. Accepted
// values are debug, info, warn and error in any casing; empty keeps the
// info default.
func SetLevel(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "info":
		minLevel.Set(slog.LevelInfo)
	case "debug":
		minLevel.Set(slog.LevelDebug)
	case "warn":
		minLevel.Set(slog.LevelWarn)
	case "error":
		minLevel.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level %q", value)
	}
	return nil
}

// Logger returns the current process logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Replace installs a different logger, typically one writing to a test
// buffer. Passing nil panics rather than silently dropping output.
func Replace(l *slog.Logger) {
	if l == nil {
		panic("log: nil logger")
	}
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// Debug logs at debug level through the process logger.
func Debug(ctx context.Context, msg string, args ...any) {
	Logger().DebugContext(safe(ctx), msg, args...)
}

// Info logs at info level through the process logger.
func Info(ctx context.Context, msg string, args ...any) {
	Logger().InfoContext(safe(ctx), msg, args...)
}

// Warn logs at warn level through the process logger.
func Warn(ctx context.Context, msg string, args ...any) {
	Logger().WarnContext(safe(ctx), msg, args...)
}

// Error logs at error level through the process logger.
func Error(ctx context.Context, msg string, args ...any) {
	Logger().ErrorContext(safe(ctx), msg, args...)
}

func safe(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

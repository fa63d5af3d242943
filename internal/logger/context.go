package logger

import (
	"context"
	"errors"
	"sync"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrLoggerNotFound is returned when the context carries no logger.
var ErrLoggerNotFound = errors.New("logger not found in context")

var (
	globalMu sync.RWMutex
	global   *Logger
	fallback = &Logger{l: zap.NewNop()}
)

type loggerKey struct{}

type requestIDKey struct{}

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored in ctx.
func FromContext(ctx context.Context) (*Logger, error) {
	if ctx == nil {
		return nil, ErrLoggerNotFound
	}
	logger, ok := ctx.Value(loggerKey{}).(*Logger)
	if !ok {
		return nil, ErrLoggerNotFound
	}
	return logger, nil
}

// SetGlobal installs the process-wide logger used when a context carries none.
func SetGlobal(logger *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = logger
}

// Log returns the context logger, the global logger, or a no-op logger, in that order.
func Log(ctx context.Context) *Logger {
	if logger, err := FromContext(ctx); err == nil {
		return logger
	}

	globalMu.RLock()
	defer globalMu.RUnlock()
	if global != nil {
		return global
	}
	return fallback
}

// WithRequestID stores a request id in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id from ctx, falling back to the id set by chi's RequestID middleware.
func RequestID(ctx context.Context) (string, bool) {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id, true
	}
	if id := middleware.GetReqID(ctx); id != "" {
		return id, true
	}
	return "", false
}

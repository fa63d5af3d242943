package logger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Mode selects the encoder preset.
type Mode string

const (
	Development Mode = "development"
	Production  Mode = "production"
)

// RequestIDField is the field name used for request ids.
const RequestIDField = "request_id"

// Logger wraps a zap logger and enriches entries with request-scoped fields.
type Logger struct {
	l *zap.Logger
}

// New builds a Logger for the given mode and level ("debug", "info", "warn", "error").
func New(mode Mode, level string) (*Logger, error) {
	var cfg zap.Config
	if mode == Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	if strings.TrimSpace(level) != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	zl, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &Logger{l: zl}, nil
}

// Wrap adapts an existing zap logger.
func Wrap(zl *zap.Logger) *Logger {
	return &Logger{l: zl}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{l: zap.NewNop()}
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Debug(msg, withRequestID(ctx, fields)...)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Info(msg, withRequestID(ctx, fields)...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Warn(msg, withRequestID(ctx, fields)...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Error(msg, withRequestID(ctx, fields)...)
}

// With returns a child logger carrying the given fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{l: l.l.With(fields...)}
}

// Zap exposes the underlying zap logger.
func (l *Logger) Zap() *zap.Logger {
	return l.l
}

func (l *Logger) Sync() error {
	return l.l.Sync()
}

func withRequestID(ctx context.Context, fields []zap.Field) []zap.Field {
	if ctx == nil {
		return fields
	}
	if id, ok := RequestID(ctx); ok {
		return append(fields, zap.String(RequestIDField, id))
	}
	return fields
}

// Package logging wraps zap with the small structured-logging surface the
// pipeline uses. One Logger is created at startup (cmd/autoeditor) and
// threaded through every component; tests use [Nop].
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin wrapper around *zap.Logger so callers only deal with
// field constructors, never with zap configuration.
type Logger struct {
	z *zap.Logger
}

// New builds a production logger (JSON, ISO8601 timestamps) or, when
// development is set, a human-readable console logger for interactive runs.
func New(development bool) (*Logger, error) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{z: z}, nil
}

// Nop returns a logger that discards everything. For tests.
func Nop() *Logger {
	return &Logger{z: zap.NewNop()}
}

// With returns a child logger with fields attached to every entry.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{z: l.z.With(fields...)}
}

func (l *Logger) Debug(msg string, fields ...zap.Field) { l.z.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...zap.Field)  { l.z.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.z.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.z.Error(msg, fields...) }

// Sync flushes buffered entries. Call before process exit.
func (l *Logger) Sync() error { return l.z.Sync() }

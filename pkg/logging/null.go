package logging

import (
	"context"
)

// NullLogger discards everything. Used when logging is disabled.
type NullLogger struct{}

// NewNullLogger creates a logger that discards all messages.
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Debug(ctx context.Context, msg string, fields Fields)            {}
func (l *NullLogger) Info(ctx context.Context, msg string, fields Fields)             {}
func (l *NullLogger) Warn(ctx context.Context, msg string, fields Fields)             {}
func (l *NullLogger) Error(ctx context.Context, msg string, err error, fields Fields) {}

func (l *NullLogger) WithFields(fields Fields) Logger { return l }

func (l *NullLogger) Close() error { return nil }

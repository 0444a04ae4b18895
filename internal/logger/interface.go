package logger

import "context"

// Logger is a leveled, printf-style logger. Attributes carried on ctx
// (see WithRunID) are attached to every line.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...interface{})
	Info(ctx context.Context, msg string, args ...interface{})
	Warn(ctx context.Context, msg string, args ...interface{})
	Error(ctx context.Context, msg string, args ...interface{})
}

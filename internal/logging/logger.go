// Package logging defines the structured logger the rest of the project
// depends on, so the backing implementation stays swappable.
package logging

import "context"

// Logger is a leveled, context-aware structured logger. Variadic args are
// alternating key/value pairs:
//
//	log.Info(ctx, "starting server", "addr", addr)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that attaches the given key/value pairs
	// to every record.
	With(args ...any) Logger
}

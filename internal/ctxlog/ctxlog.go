// Package ctxlog provides a context key for safely passing a logging.Logger
// instance through context.Context.
package ctxlog

import (
	"context"

	"github.com/vk/gridcheck/internal/logging"
)

// key is an unexported type to prevent collisions with context keys from other packages.
type key struct{}

// loggerKey is the key for the logging.Logger in a context.Context.
var loggerKey = key{}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *logging.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logging.Logger from a context.
func FromContext(ctx context.Context) *logging.Logger {
	if logger, ok := ctx.Value(loggerKey).(*logging.Logger); ok {
		return logger
	}
	panic("ctxlog: logger missing from context")
}

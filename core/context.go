package core

import "context"

// ctxKey is a private type for context keys defined in this package.
type ctxKey int

// suppressHeaderKey marks a context whose run should not print headers.
// The MCP server uses this to keep stdio clean for the protocol.
const suppressHeaderKey ctxKey = iota

// WithSuppressHeader returns a context that suppresses run headers.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader reports whether run headers are suppressed.
func shouldSuppressHeader(ctx context.Context) bool {
	v, ok := ctx.Value(suppressHeaderKey).(bool)
	return ok && v
}

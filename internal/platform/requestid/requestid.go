// Package requestid carries the per-request correlation ID through a
// context and into log records.
package requestid

import (
	"context"
	"log/slog"
)

// Header is the HTTP header used to pass a request ID in and out.
const Header = "X-Request-ID"

const maxLength = 128

type ctxKey struct{}

// NewContext returns a context that carries the given request ID.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request ID stored in ctx, or an empty string.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Attr returns the request ID of ctx as a log attribute.
func Attr(ctx context.Context) slog.Attr {
	return slog.String("request_id", FromContext(ctx))
}

// Valid reports whether a client-supplied ID is safe to echo back and log:
// non-empty, bounded, and printable ASCII only.
func Valid(id string) bool {
	if id == "" || len(id) > maxLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextIdentityKey ctxKey = "identity"

// IdentityFromContext returns the authenticated identity set by the auth
// middleware, or false if the request is unauthenticated.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	id, ok := ctx.Value(ContextIdentityKey).(*Identity)
	return id, ok
}

func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ContextIdentityKey, id)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}

package middleware

import (
	"context"

	"github.com/truthprism/prism/internal/domain"
)

type contextKey string

const ContextKeyIdentity contextKey = "identity"

func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	v, ok := ctx.Value(ContextKeyIdentity).(domain.Identity)
	return v, ok
}

// WithIdentity attaches an authenticated caller identity to the context.
// Exposed for tests and for the websocket upgrade path, which bypasses
// the HTTP middleware chain.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, identity)
}

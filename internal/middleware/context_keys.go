package middleware

import (
	"context"

	"github.com/opengive/donations-backend/internal/core/domain"
)

// contextKey is a private type for request-context keys. Using a custom
// type prevents collisions.
type contextKey string

const (
	loggerCtxKey   = contextKey("logger")
	identityCtxKey = contextKey("identity")
)

// ContextWithIdentity returns a context carrying the verified identity.
func ContextWithIdentity(ctx context.Context, ident *domain.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, ident)
}

// GetIdentityFromCtx retrieves the verified identity from the request
// context. It returns nil when the request is unauthenticated; the
// authorization strategies guarding an operation decide whether that is
// acceptable.
func GetIdentityFromCtx(ctx context.Context) *domain.Identity {
	ident, ok := ctx.Value(identityCtxKey).(*domain.Identity)
	if !ok {
		return nil
	}
	return ident
}

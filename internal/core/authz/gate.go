package authz

import (
	"context"

	"github.com/opengive/donations-backend/internal/core/domain"
)

// Operation is a guarded unit of work. The identity is passed explicitly
// rather than read from ambient request state so that gated operations and
// the strategies protecting them stay pure functions of their inputs.
type Operation[A, R any] func(ctx context.Context, ident *domain.Identity, args A) (R, error)

// WithAuth wraps an operation with a list of strategies composed with OR
// semantics: the wrapped operation runs only if at least one strategy
// allows. A single-strategy list degenerates to "must pass this one
// check". The check happens strictly before op is invoked, so no side
// effect of op can be observed when the gate denies, and a denial error
// propagates to the caller unchanged.
func WithAuth[A, R any](op Operation[A, R], strategies ...Strategy[A]) Operation[A, R] {
	gate := Any(strategies...)
	return func(ctx context.Context, ident *domain.Identity, args A) (R, error) {
		if err := gate(ident, args); err != nil {
			var zero R
			return zero, err
		}
		return op(ctx, ident, args)
	}
}

// Package authz implements the composable authorization engine that gates
// mutating operations. A Strategy is a pure predicate over an identity and
// an operation's arguments: it returns nil to allow and a typed error to
// deny. Strategies perform no I/O and are fully deterministic given their
// inputs, so combinators may evaluate them in any order without side
// effects.
package authz

import (
	"fmt"

	"github.com/opengive/donations-backend/internal/apperrors"
	"github.com/opengive/donations-backend/internal/core/domain"
)

// Strategy decides whether an identity may perform an operation with the
// given arguments. A nil identity means the request is unauthenticated;
// each strategy decides whether that is acceptable.
type Strategy[A any] func(ident *domain.Identity, args A) error

// AlwaysAllow returns a strategy that never denies.
func AlwaysAllow[A any]() Strategy[A] {
	return func(ident *domain.Identity, args A) error {
		return nil
	}
}

// AlwaysDeny returns a strategy that always denies.
func AlwaysDeny[A any]() Strategy[A] {
	return func(ident *domain.Identity, args A) error {
		return fmt.Errorf("%w: Always False", apperrors.ErrUnauthorized)
	}
}

// HasRole returns a strategy that denies unless the identity is present and
// carries exactly the given role.
func HasRole[A any](role domain.Role) Strategy[A] {
	return func(ident *domain.Identity, args A) error {
		if ident == nil {
			return fmt.Errorf("%w: authentication required for role %q", apperrors.ErrUnauthorized, role)
		}
		if ident.Role != role {
			return fmt.Errorf("%w: role %q required", apperrors.ErrUnauthorized, role)
		}
		return nil
	}
}

// MatchesIdentityField returns a strategy that denies unless the argument
// field extracted by get equals the identity's subject id. The field name
// is only used in error messages; get reports false when the field is
// absent from the arguments, which is a validation failure rather than an
// authorization one.
func MatchesIdentityField[A any](field string, get func(args A) (int64, bool)) Strategy[A] {
	return func(ident *domain.Identity, args A) error {
		v, ok := get(args)
		if !ok {
			return fmt.Errorf("%w: missing required field %q", apperrors.ErrValidation, field)
		}
		if ident == nil {
			return fmt.Errorf("%w: authentication required to match %q", apperrors.ErrUnauthorized, field)
		}
		if v != ident.SubjectID {
			return fmt.Errorf("%w: field %q does not match the authenticated subject", apperrors.ErrUnauthorized, field)
		}
		return nil
	}
}

// All composes strategies with AND semantics: every strategy must allow.
// Evaluation stops at the first denial and that denial is the one
// surfaced.
func All[A any](strategies ...Strategy[A]) Strategy[A] {
	return func(ident *domain.Identity, args A) error {
		for _, s := range strategies {
			if err := s(ident, args); err != nil {
				return err
			}
		}
		return nil
	}
}

// Any composes strategies with OR semantics: the first strategy that allows
// decides. When every strategy denies, the error of the last strategy
// attempted is the one surfaced; callers that care about which reason is
// reported should order strategies accordingly. An empty strategy list
// allows.
func Any[A any](strategies ...Strategy[A]) Strategy[A] {
	return func(ident *domain.Identity, args A) error {
		var lastErr error
		for _, s := range strategies {
			err := s(ident, args)
			if err == nil {
				return nil
			}
			lastErr = err
		}
		return lastErr
	}
}

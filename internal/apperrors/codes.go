package apperrors

import "errors"

// Machine-readable error codes surfaced to API clients alongside the
// human-readable message, regardless of transport.
const (
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeInvalidArguments = "INVALID_ARGUMENTS"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeDuplicate        = "DUPLICATE"
	CodeSettlementFailed = "SETTLEMENT_FAILED"
	CodeInternal         = "INTERNAL"
)

// Code maps an error to its machine-readable code. Unrecognized errors map
// to CodeInternal.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrValidation):
		return CodeInvalidArguments
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrDuplicate):
		return CodeDuplicate
	case errors.Is(err, ErrSettlement):
		return CodeSettlementFailed
	default:
		return CodeInternal
	}
}

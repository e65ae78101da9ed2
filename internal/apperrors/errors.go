package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks, or that
// a required correlating field is missing from an operation's arguments.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates the identity is absent where one is required,
// or present but insufficiently privileged for the attempted operation.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the identity is known but the operation is not permitted.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the operation conflicts with the current state of the
// resource (e.g. settling a cancelled donation).
var ErrConflict = errors.New("conflict with current resource state")

// ErrSettlement indicates a failure while recording or finalizing a donation
// against the storage collaborator.
var ErrSettlement = errors.New("settlement failure")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

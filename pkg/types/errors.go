package types

import "errors"

// Editor operation errors. Every failure at this layer is a validation
// or precondition failure: mutating operations are all-or-nothing, so a
// returned error means no state change was committed.
var (
	ErrUnknownType       = errors.New("unknown object type")
	ErrOutOfRange        = errors.New("object index out of range")
	ErrUnknownField      = errors.New("unknown field")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrMissingField      = errors.New("missing field value")
	ErrReferenceBlocked  = errors.New("deletion blocked by required reference")
	ErrStaleReference    = errors.New("stale reference")
	ErrRequiredReference = errors.New("reference is required")
	ErrSelfReplace       = errors.New("cannot replace an object with itself")
	ErrUnknownResource   = errors.New("unknown resource handle")
)

// Schema validation errors.
var (
	ErrInvalidSchema = errors.New("invalid schema")
	ErrUnknownKind   = errors.New("unknown field kind")
)

// Backend lifecycle errors.
var (
	ErrDetached        = errors.New("backend is detached")
	ErrAlreadyAttached = errors.New("backend is already attached")
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrSyncUnknown    = errors.New("unknown sync strategy")
)

package models

import "errors"

// Engine error taxonomy. Validation errors (ErrInvalidRange, ErrConflict) are
// rejected at the API boundary with no side effects. ErrStale means a timer
// or snapshot read could not be confirmed fresh; callers must retry the read
// and must never resolve a draw on it.
var (
	ErrInvalidRange       = errors.New("value out of allowed range")
	ErrConflict           = errors.New("conflicting state change")
	ErrStale              = errors.New("stale read")
	ErrNotFound           = errors.New("not found")
	ErrPersistenceFailure = errors.New("persistence failure")
)

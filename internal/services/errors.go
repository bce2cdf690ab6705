package services

import "errors"

// Service-level error taxonomy. Handlers map these to HTTP statuses with
// errors.Is; anything that doesn't match is a store or network failure and
// becomes a generic 500.
var (
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation error")
	// ErrConflict marks an attempt to create a document whose unique key is taken.
	ErrConflict = errors.New("already exists")
	// ErrNotFound marks a lookup for a document that is not there.
	ErrNotFound = errors.New("not found")
)

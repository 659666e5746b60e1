package domain

import "errors"

// Error taxonomy shared across services. Remote adapters map transport
// failures onto these sentinels so callers can branch with errors.Is without
// knowing which backend produced the failure.
var (
	// ErrValidation marks malformed local input. No network call was made.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound marks a product or entry lookup miss. Not retryable.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a create that collided with an existing resource,
	// typically a product whose barcode is already in the catalog.
	ErrConflict = errors.New("already exists")

	// ErrTransient marks a network or server failure. Any optimistic local
	// state has been rolled back; the operation is safe to retry.
	ErrTransient = errors.New("transient failure")

	// ErrRecognition marks an AI recognition failure. Composer state is
	// unaffected.
	ErrRecognition = errors.New("recognition failed")
)

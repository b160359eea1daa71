package domain

import "errors"

var (
	// ErrInvalidInput marks a precondition violation by the caller.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a provider has no result for a query.
	ErrNotFound = errors.New("not found")
)

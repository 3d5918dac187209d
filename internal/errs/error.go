package errs

import (
	"errors"
)

var (
	// ErrNotFound - unknown equipment or request id.
	ErrNotFound = errors.New("not found")
	// ErrValidation - malformed or out-of-range input, nothing changed.
	ErrValidation = errors.New("validation failed")
	// ErrInsufficientAvailability - reserve asked for more units than available.
	ErrInsufficientAvailability = errors.New("not enough equipment available")
	// ErrInvalidTransition - request is not in the state the action requires.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrConflict - registry mutation would strand a live reservation.
	ErrConflict = errors.New("conflict with outstanding requests")
	// ErrInvariantViolation - internal consistency failure, always a bug.
	ErrInvariantViolation = errors.New("availability invariant violated")
)

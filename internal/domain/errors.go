package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy for the rental core. Every public operation either returns
// a fresh rental snapshot or one of these; semantic failures are never
// retried, only transient store failures are.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("not a party to this rental")
	ErrValidation    = errors.New("invalid request")
	ErrRangeConflict = errors.New("dates unavailable")
	ErrStateConflict = errors.New("request was already handled")
	ErrCodeMismatch  = errors.New("handoff code does not match")
)

// Validationf wraps ErrValidation with detail about the rejected field.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Semantic reports whether err is a definitive business outcome rather
// than an infrastructure failure. Semantic errors must surface unchanged.
func Semantic(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrRangeConflict) ||
		errors.Is(err, ErrStateConflict) ||
		errors.Is(err, ErrCodeMismatch)
}

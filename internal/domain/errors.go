// Package domain holds types shared across the analytical pipeline.
package domain

import (
	"errors"
	"fmt"
)

// InputError marks a fatal violation of an input invariant: malformed price
// tables, empty portfolios, non-positive simulation parameters, unknown
// scenario names. Numeric edge cases (empty tails, zero denominators) are
// recovered inline and never surface as InputError.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Reason
}

// NewInputError builds an InputError with a formatted reason.
func NewInputError(format string, args ...any) *InputError {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}

// IsInputError reports whether err is (or wraps) an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

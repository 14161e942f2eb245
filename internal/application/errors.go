package application

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrInvalidState is returned when a table is in a state that does not
	// allow the requested transition.
	ErrInvalidState = errors.New("application: invalid table state")
	// ErrNoActiveSession is returned when an operation needs an open session
	// on a table that has none.
	ErrNoActiveSession = errors.New("application: no active session")
	// ErrInsufficientStock is returned when an order exceeds the product's
	// remaining stock.
	ErrInsufficientStock = errors.New("application: insufficient stock")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

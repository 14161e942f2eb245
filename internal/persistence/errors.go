package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a write collides with an existing record.
	ErrDuplicate = errors.New("persistence: duplicate record")
	// ErrConstraintViolation is returned when a write breaks a schema constraint.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrInsufficientStock is returned when an order would drive stock negative.
	ErrInsufficientStock = errors.New("persistence: insufficient stock")
	// ErrSessionOpen is returned when a second session is opened on a table
	// that already has one.
	ErrSessionOpen = errors.New("persistence: table already has an open session")
)

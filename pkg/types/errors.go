package types

import "errors"

// Lookup and write errors.
var (
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidID         = errors.New("invalid entity ID")
	ErrInvalidName       = errors.New("invalid name")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidMode       = errors.New("invalid write mode")
	ErrStillReferenced   = errors.New("still referenced by other records")
)

// Form and selection errors. These are user errors: nothing is written.
var (
	ErrMissingFields = errors.New("please fill in all required fields")
	ErrInvalidInput  = errors.New("invalid input, please enter valid values")
	ErrNoSelection   = errors.New("no row selected")
)

// Session errors.
var (
	ErrConnectionFailed = errors.New("database connection failed")
	ErrSessionClosed    = errors.New("session is closed")
	ErrNoSavepoint      = errors.New("no savepoint has been created")
)

package store

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateUsername reports a registration conflict within one kind's
	// namespace. Recoverable; surfaced as a form error.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrInvalidCredential covers both an unknown username and a wrong
	// password. Callers must not be able to tell the two apart.
	ErrInvalidCredential = errors.New("invalid username or password")

	// ErrNotFound reports a lookup of a record that does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrEmptyCart reports a checkout against an absent or empty cart.
	// Nothing is written when checkout fails with this.
	ErrEmptyCart = errors.New("cart is empty")
)

// PersistenceError wraps a storage failure. It is logged and surfaced as a
// generic failure; user-state errors above never wrap into it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

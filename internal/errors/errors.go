// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated covers missing or invalid device/admin credentials.
// Deliberately a single value so callers cannot tell "code unknown" from
// "secret wrong".
var ErrUnauthenticated = errors.New("invalid credentials")

// ErrForbidden means authenticated but not allowed.
var ErrForbidden = errors.New("admin access required")

// ErrNotFound is a sentinel for an absent entity
type ErrNotFound struct {
	Entity string
	ID     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
}

// Helper constructor
func NewNotFound(entity, id string) error {
	return &ErrNotFound{Entity: entity, ID: id}
}

// ErrValidation means the input was malformed
type ErrValidation struct {
	Msg string
}

func (e *ErrValidation) Error() string {
	return e.Msg
}

func NewValidation(msg string) error {
	return &ErrValidation{Msg: msg}
}

// IsNotFound reports whether err wraps an ErrNotFound.
func IsNotFound(err error) bool {
	var nf *ErrNotFound
	return errors.As(err, &nf)
}

// IsValidation reports whether err wraps an ErrValidation.
func IsValidation(err error) bool {
	var ve *ErrValidation
	return errors.As(err, &ve)
}

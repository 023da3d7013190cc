package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced entity does not exist or does not
// belong to the calling user. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("not found")

// ErrActiveSession is returned when a session start would violate the
// one-active-session-per-user invariant.
var ErrActiveSession = errors.New("user already has a session in progress")

// ValidationError rejects a mutation before anything is persisted.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Invalid builds a ValidationError with a formatted message.
func Invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StateError marks a lifecycle transition attempted from a non-matching
// session status, e.g. completing an already-completed session.
type StateError struct {
	Op     string
	Status SessionStatus
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s session in status %s", e.Op, e.Status)
}

// IsStateError reports whether err is (or wraps) a StateError.
func IsStateError(err error) bool {
	var se *StateError
	return errors.As(err, &se)
}

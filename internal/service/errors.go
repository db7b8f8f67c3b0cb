// Package service implements the business operations over the
// repositories. Every operation failure is reported through one of four
// typed errors, one per CRUD verb, each wrapping the underlying storage
// error with a human-readable message. Callers can match them with
// errors.As and reach the cause through errors.Unwrap.
package service

import "fmt"

// GetFailure reports a failed read or lookup, including lookups whose
// target does not exist.
type GetFailure struct {
	Msg string
	Err error
}

func (e *GetFailure) Error() string { return failureText(e.Msg, e.Err) }
func (e *GetFailure) Unwrap() error { return e.Err }

// AddFailure reports a failed insert.
type AddFailure struct {
	Msg string
	Err error
}

func (e *AddFailure) Error() string { return failureText(e.Msg, e.Err) }
func (e *AddFailure) Unwrap() error { return e.Err }

// ModifyFailure reports a failed update, including the violated
// precondition that an id must be present.
type ModifyFailure struct {
	Msg string
	Err error
}

func (e *ModifyFailure) Error() string { return failureText(e.Msg, e.Err) }
func (e *ModifyFailure) Unwrap() error { return e.Err }

// DeleteFailure reports a failed delete.
type DeleteFailure struct {
	Msg string
	Err error
}

func (e *DeleteFailure) Error() string { return failureText(e.Msg, e.Err) }
func (e *DeleteFailure) Unwrap() error { return e.Err }

func failureText(msg string, err error) string {
	if err == nil {
		return msg
	}
	return fmt.Sprintf("%s: %v", msg, err)
}

package swipe

import (
	"errors"
	"fmt"

	"github.com/oggyb/muzz-interest/internal/ratelimit"
)

// Code is the machine-readable outcome of a failed call.
type Code string

const (
	CodeInvalidUsers      Code = "invalid_users"
	CodeInvalidAction     Code = "invalid_action"
	CodeInvalidTarget     Code = "invalid_target"
	CodeRateLimitMinute   Code = Code(ratelimit.ReasonMinute)
	CodeDailyLikes        Code = Code(ratelimit.ReasonDailyLikes)
	CodeDailySuperLikes   Code = Code(ratelimit.ReasonDailySuperLikes)
	CodeActionExists      Code = "action_exists"
	CodeNoActionToUndo    Code = "no_action_to_undo"
	CodeUndoExpired       Code = "undo_expired"
	CodePersistenceFailed Code = "persistence_error"
)

// Error carries a Code and, for persistence failures, the cause.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code, so errors.Is(err,
// ErrActionExists) works regardless of the wrapped cause.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrInvalidUsers    = &Error{Code: CodeInvalidUsers}
	ErrInvalidAction   = &Error{Code: CodeInvalidAction}
	ErrInvalidTarget   = &Error{Code: CodeInvalidTarget}
	ErrRateLimitMinute = &Error{Code: CodeRateLimitMinute}
	ErrDailyLikes      = &Error{Code: CodeDailyLikes}
	ErrDailySuperLikes = &Error{Code: CodeDailySuperLikes}
	ErrActionExists    = &Error{Code: CodeActionExists}
	ErrNoActionToUndo  = &Error{Code: CodeNoActionToUndo}
	ErrUndoExpired     = &Error{Code: CodeUndoExpired}
	ErrPersistence     = &Error{Code: CodePersistenceFailed}
)

// CodeOf extracts the Code from err, or "" when err is not a swipe error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsFault reports whether err is an infrastructure failure rather than an
// expected outcome.
func IsFault(err error) bool {
	if err == nil {
		return false
	}
	c := CodeOf(err)
	return c == "" || c == CodePersistenceFailed
}

func persistence(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Code: CodePersistenceFailed, Err: err}
}

func rateLimited(reason ratelimit.Reason) error {
	switch reason {
	case ratelimit.ReasonMinute:
		return ErrRateLimitMinute
	case ratelimit.ReasonDailyLikes:
		return ErrDailyLikes
	case ratelimit.ReasonDailySuperLikes:
		return ErrDailySuperLikes
	}
	return &Error{Code: Code(reason)}
}

package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/launchdash/internal/filter"
)

// InputError reports a malformed external event.
//
// Input errors never corrupt session state: the offending change is rejected
// and the session keeps its previous selection.
type InputError struct {
	// Code identifies the error category.
	Code InputErrorCode

	// Message is a human-readable description.
	Message string

	// Session identifies the affected session, if any.
	Session string
}

// InputErrorCode categorizes input errors.
type InputErrorCode string

const (
	// ErrCodeInvalidRange indicates a payload range with Lo > Hi.
	ErrCodeInvalidRange InputErrorCode = "INVALID_RANGE"

	// ErrCodeUnknownSession indicates a session ID the registry does not hold.
	ErrCodeUnknownSession InputErrorCode = "UNKNOWN_SESSION"
)

// Error implements the error interface.
func (e *InputError) Error() string {
	if e.Session != "" {
		return fmt.Sprintf("%s: %s (session=%s)", e.Code, e.Message, e.Session)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewRangeError creates an InputError for an inverted payload range.
func NewRangeError(r filter.PayloadRange) *InputError {
	return &InputError{
		Code:    ErrCodeInvalidRange,
		Message: fmt.Sprintf("payload range %s has lo > hi", r),
	}
}

// NewUnknownSessionError creates an InputError for a missing session.
func NewUnknownSessionError(id string) *InputError {
	return &InputError{
		Code:    ErrCodeUnknownSession,
		Message: "no such session",
		Session: id,
	}
}

// IsUnknownSession reports whether err is an unknown session error.
func IsUnknownSession(err error) bool {
	var ie *InputError
	if errors.As(err, &ie) {
		return ie.Code == ErrCodeUnknownSession
	}
	return false
}

// IsInputError reports whether err is any *InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// internal/fail/fail.go
//
// Status-classified failures shared by every layer of Chorus.
//
// Context
// -------
// Each component either returns a value or a *fail.Error.  The classification
// is fixed at the point of failure and never downgraded on the way up: a
// Forbidden raised by the user service surfaces as a Forbidden from the post
// service and from the HTTP layer.  Only genuinely unexpected store errors
// are wrapped with the generic Internal classification.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package fail

import (
	"errors"
	"fmt"
	"net/http"
)

// Status classifies a failure.  The zero value is not a valid status.
type Status int

const (
	StatusBadRequest Status = iota + 1
	StatusValidation
	StatusNotFound
	StatusConflict
	StatusForbidden
	StatusInternal
)

// String returns the canonical label used in JSON envelopes and logs.
func (s Status) String() string {
	switch s {
	case StatusBadRequest:
		return "bad_request"
	case StatusValidation:
		return "validation_error"
	case StatusNotFound:
		return "not_found"
	case StatusConflict:
		return "conflict"
	case StatusForbidden:
		return "forbidden"
	case StatusInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// HTTPCode maps a status onto the fixed code the transport layer returns.
func (s Status) HTTPCode() int {
	switch s {
	case StatusBadRequest:
		return http.StatusBadRequest
	case StatusValidation:
		return http.StatusUnprocessableEntity
	case StatusNotFound:
		return http.StatusNotFound
	case StatusConflict:
		return http.StatusConflict
	case StatusForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error carries the classification, a headline message, and an ordered list
// of detail strings (one per violation for validation failures).
type Error struct {
	Status  Status
	Message string
	Details []string
	cause   error
}

func (e *Error) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, e.Details[0])
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// BadRequest reports malformed query options (unfilterable column, bad
// condition, missing value, bad sort).
func BadRequest(details ...string) *Error {
	return &Error{Status: StatusBadRequest, Message: "Bad Request", Details: details}
}

// Validation reports a failed submission.  Every violation found is listed,
// not just the first.
func Validation(details []string) *Error {
	return &Error{Status: StatusValidation, Message: "Validation Error", Details: details}
}

// NotFound reports a lookup that matched no row.
func NotFound(details ...string) *Error {
	return &Error{Status: StatusNotFound, Message: "Not Found", Details: details}
}

// Conflict reports a uniqueness violation; the detail names the column.
func Conflict(details ...string) *Error {
	return &Error{Status: StatusConflict, Message: "Conflict", Details: details}
}

// Forbidden reports a failed cross-entity state check or an owner mismatch.
func Forbidden(details ...string) *Error {
	return &Error{Status: StatusForbidden, Message: "Forbidden", Details: details}
}

// Internal wraps an unclassified error with the fixed generic message.  The
// cause stays reachable through errors.Unwrap for logging.
func Internal(cause error) *Error {
	return &Error{Status: StatusInternal, Message: "Internal Server Error", cause: cause}
}

// From returns err as a *Error, wrapping unclassified errors as Internal.
// A nil err returns nil.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	return Internal(err)
}

// Is reports whether err is a *Error with the given status.
func Is(err error, s Status) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Status == s
}

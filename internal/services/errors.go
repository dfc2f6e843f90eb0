package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error kinds. Handlers map these to HTTP status codes.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not logged in")
	ErrForbidden          = errors.New("permission denied")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
)

// Error is a user-facing failure. Message is shown to the user and Redirect,
// when set, names the page they should go back to.
type Error struct {
	Kind     error
	Message  string
	Redirect string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func validationError(message string) *Error {
	return newError(ErrValidation, message)
}

func notFoundError(message string) *Error {
	return newError(ErrNotFound, message)
}

func conflictError(message string) *Error {
	return newError(ErrConflict, message)
}

func forbiddenError(message, redirect string) *Error {
	return &Error{Kind: ErrForbidden, Message: message, Redirect: redirect}
}

const dateLayout = "2006-01-02"

var errBadDate = validationError("Dates must use the YYYY-MM-DD format.")

// parseOptionalDate parses a YYYY-MM-DD form value; blank means no date
func parseOptionalDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, errBadDate
	}
	return &t, nil
}

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", value)
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an application error carrying the HTTP status it should be rendered with.
type Error struct {
	status  int
	message string
}

// New constructs an Error with the given status and message.
func New(status int, message string) *Error {
	return &Error{status: status, message: message}
}

// Newf constructs an Error with a formatted message.
func Newf(status int, format string, args ...any) *Error {
	return New(status, fmt.Sprintf(format, args...))
}

func (e *Error) Error() string {
	return e.message
}

// StatusCode returns the HTTP status of the error.
func (e *Error) StatusCode() int {
	return e.status
}

// Message returns the client-facing message.
func (e *Error) Message() string {
	return e.message
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

func Unprocessable(message string) *Error {
	return New(http.StatusUnprocessableEntity, message)
}

func TooManyRequests(message string) *Error {
	return New(http.StatusTooManyRequests, message)
}

// As reports whether err wraps an *Error and returns it.
func As(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

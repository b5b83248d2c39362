// Package httperr defines the request-level failures that cross the action boundary.
package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// RequestError is an explicit failure with an HTTP status. Details maps a field name to
// its violation messages and is only set for validation failures.
type RequestError struct {
	StatusCode int
	Message    string
	Details    map[string][]string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

func NewRequestError(status int, message string) *RequestError {
	return &RequestError{StatusCode: status, Message: message}
}

func NewValidationError(details map[string][]string) *RequestError {
	return &RequestError{
		StatusCode: http.StatusBadRequest,
		Message:    "Validation failed",
		Details:    details,
	}
}

func NewUnauthorizedError() *RequestError {
	return &RequestError{StatusCode: http.StatusUnauthorized, Message: "Unauthorized"}
}

// NewNotFoundError builds "<resource> not found".
func NewNotFoundError(resource string) *RequestError {
	return &RequestError{StatusCode: http.StatusNotFound, Message: resource + " not found"}
}

func NewConflictError(message string) *RequestError {
	return &RequestError{StatusCode: http.StatusConflict, Message: message}
}

// TimeoutError reports a backend call cancelled by its deadline.
type TimeoutError struct {
	URL   string
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out after %s", e.URL, e.After)
}

// AsRequestError unwraps err to a *RequestError if it holds one.
func AsRequestError(err error) (*RequestError, bool) {
	var re *RequestError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// StatusOf returns the HTTP status carried by err, or 0 when it carries none.
func StatusOf(err error) int {
	if re, ok := AsRequestError(err); ok {
		return re.StatusCode
	}
	if IsTimeout(err) {
		return http.StatusGatewayTimeout
	}
	return 0
}

// IsNotFound reports whether err is a 404 request error.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

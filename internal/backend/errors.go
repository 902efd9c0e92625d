package backend

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned whenever the backend answers 401. Callers
// treat it as "session gone": force a logout and send the user to login.
var ErrUnauthenticated = errors.New("unauthenticated")

// RequestError wraps a transport-level failure: the request never produced an
// HTTP response (connection refused, DNS, context cancellation, ...).
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// APIError is a non-2xx response carrying the server-provided message, or a
// generic fallback when the body had none.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// Message extracts a human-readable message from an error for banner display.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return "could not reach the server"
	}
	return err.Error()
}

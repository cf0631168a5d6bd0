package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the backend rejected the credential (missing,
	// invalid or expired).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnavailable means the backend could not be reached or failed with
	// a server-side error.
	ErrUnavailable = errors.New("server unavailable")
)

// APIError is a non-2xx response that is neither an auth failure nor a
// server-side failure, e.g. a 422 validation error.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Detail)
}

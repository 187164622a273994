package xtream

import "fmt"

// NetworkError wraps a connection or timeout failure; Retry Policy
// always treats it as retryable.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// ApiError wraps a non-2xx HTTP response. 4xx is non-retryable, 5xx is
// retryable (classified in retry.go).
type ApiError struct {
	StatusCode int
	Body       string
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Body)
}

// AuthError is a 401/403 response. Non-retryable; per spec §7 it fails
// the whole sync run immediately since no stage can succeed without
// valid credentials.
type AuthError struct {
	StatusCode int
	Msg        string
}

func (e *AuthError) Error() string { return e.Msg }

// ParseError wraps a response body that failed to decode as the
// expected JSON shape. Always non-retryable.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse error: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// CancelledError is returned when a cancellation handle trips before
// or during a request.
type CancelledError struct{}

func (e *CancelledError) Error() string { return "cancelled" }

package client

import "fmt"

// AuthError means the server rejected the caller's credentials or token.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed (%d): %s", e.Status, e.Message)
}

// ValidationError means the server rejected the request payload, for example a
// duplicate email or a missing field.
type ValidationError struct {
	Status  int
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request (%d): %s", e.Status, e.Message)
}

// NotFoundError means the requested resource does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return "not found: " + e.Message
}

// NetworkError wraps transport failures and server-side (5xx) errors.
type NetworkError struct {
	Status int // 0 when the request never reached the server
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return "network error: " + e.Err.Error()
	}
	return fmt.Sprintf("server error (%d)", e.Status)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

package api

import "fmt"

// The client converts every transport-level failure into one of the error
// kinds below before it reaches the session controller or form layer. No
// raw *url.Error or decode error crosses this boundary.

// AuthError means no usable bearer token: missing, expired, or rejected.
// Surfaced as "please log in"; never retried automatically.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "authentication required"
	}
	return "authentication required: " + e.Reason
}

// NetworkError is a transport failure or timeout. Surfaced with a retry
// affordance; the client itself never retries.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response. Message carries the server-supplied
// error text when present, shown verbatim to the user.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// ConflictError means an entry already exists for the (user, date) pair.
// Distinct from ServerError so the UI can offer an edit path instead of a
// blind retry.
type ConflictError struct {
	Date    string
	Message string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("an entry already exists for %s", e.Date)
}

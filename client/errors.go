package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNoIdentity is returned when an operation needs a signed-in user.
	ErrNoIdentity = errors.New("not signed in")
	// ErrInvalidEmail is returned when an email address does not parse.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrPasswordTooShort is returned for passwords under six characters.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	// ErrInvalidFullName is returned for a full name outside 2 to 100 characters.
	ErrInvalidFullName = errors.New("full name must be between 2 and 100 characters")
	// ErrAlreadyRegistered is returned when sign-up hits an existing account.
	ErrAlreadyRegistered = errors.New("This email is already registered. Please sign in instead.")
	// ErrInvalidCredentials is returned when sign-in is rejected.
	ErrInvalidCredentials = errors.New("Invalid email or password.")
)

// Backend error kinds. HTTPBackend wraps every non-2xx response in an
// *APIError that unwraps to one of these.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrRateLimited  = errors.New("too many requests")
	ErrServer       = errors.New("server error")
)

// APIError is a non-2xx response from the Work-Note API.
type APIError struct {
	Status  int
	Kind    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (HTTP %d)", e.Kind, e.Status)
	}
	return fmt.Sprintf("%s (HTTP %d): %s", e.Kind, e.Status, e.Message)
}

// Unwrap returns the sentinel for the error kind.
func (e *APIError) Unwrap() error {
	switch e.Kind {
	case "bad_request":
		return ErrBadRequest
	case "unauthorized":
		return ErrUnauthorized
	case "not_found":
		return ErrNotFound
	case "conflict":
		return ErrConflict
	case "too_many_requests":
		return ErrRateLimited
	}
	return ErrServer
}

package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidCredentials marks a login rejected by the backend. The
	// concrete error is usually an *AuthError carrying the backend's
	// human-readable message.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionExpired marks a stored token the backend no longer accepts.
	// Handled internally: the session is destroyed and the browser sent back
	// to the login screen, never rendered as an error page.
	ErrSessionExpired = errors.New("session expired")

	// ErrSessionNotFound marks a session ID with no stored record.
	ErrSessionNotFound = errors.New("session not found")

	// ErrLoginInFlight rejects a duplicate login while one is still pending
	// for the same username.
	ErrLoginInFlight = errors.New("login already in progress")

	// ErrBackendUnavailable marks a transport-level failure reaching the
	// clinic backend.
	ErrBackendUnavailable = errors.New("clinic backend unavailable")

	// ErrModuleForbidden marks an authenticated user lacking the role for a
	// gated module. Recovered by redirecting to the default landing route.
	ErrModuleForbidden = errors.New("module access forbidden")

	// ErrUnknownClinic marks a clinic ID outside the known registry.
	ErrUnknownClinic = errors.New("unknown clinic")
)

// AuthError carries the backend's rejection message for a failed login so it
// can be shown inline near the form. errors.Is(err, ErrInvalidCredentials)
// holds for every AuthError.
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string {
	if e.Detail == "" {
		return "Login failed"
	}
	return e.Detail
}

func (e *AuthError) Is(target error) bool {
	return target == ErrInvalidCredentials
}

// RemoteError relays a non-auth backend failure to the browser unchanged:
// the console takes no position on resource-level errors, it passes status
// and message through.
type RemoteError struct {
	StatusCode int
	Detail     string
}

func (e *RemoteError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned %d", e.StatusCode)
	}
	return e.Detail
}

// Status returns the HTTP status to relay, defaulting to 502 when the
// recorded code is out of range.
func (e *RemoteError) Status() int {
	if e.StatusCode < 400 || e.StatusCode > 599 {
		return http.StatusBadGateway
	}
	return e.StatusCode
}

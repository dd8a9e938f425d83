package ports

import (
	"context"

	"github.com/image-ehr/clinic-console/internal/core/domain"
)

// LoginInput carries everything the session service needs to authenticate a
// browser and audit the attempt.
type LoginInput struct {
	Username  string
	Password  string
	IP        string
	UserAgent string
}

// SessionService is the console's session state machine: login, startup
// rehydration, logout, clinic switching. All transitions end in a session
// that is either authenticated or destroyed; nothing in between survives.
type SessionService interface {
	// Login authenticates against the backend and creates a session. On
	// rejection it returns an error satisfying
	// errors.Is(err, domain.ErrInvalidCredentials) without mutating state.
	Login(ctx context.Context, in LoginInput) (*domain.Session, error)

	// Current loads the session and, when its last identity check has gone
	// stale, revalidates the token against the backend. Any revalidation
	// failure destroys the session and returns domain.ErrSessionExpired.
	Current(ctx context.Context, sessionID string) (*domain.Session, error)

	// Logout destroys the session locally after a best-effort backend
	// notify. Idempotent: a second call succeeds with nothing to do.
	Logout(ctx context.Context, sessionID string) error

	// SwitchClinic updates the session's clinic scope. Pure local state; the
	// token is never touched.
	SwitchClinic(ctx context.Context, sessionID string, clinicID int) (*domain.Session, error)
}

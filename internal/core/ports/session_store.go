package ports

import (
	"context"

	"github.com/image-ehr/clinic-console/internal/core/domain"
)

// SessionStore persists session records across requests. It is the sole
// owner of durable session state; expiry beyond the store's own TTL is
// detected only by the backend rejecting the token.
type SessionStore interface {
	// Get returns the stored session or domain.ErrSessionNotFound. A record
	// that cannot be deserialised is treated as absent, not as an error.
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
}

// LoginGuard tracks in-flight logins so a double-submit for the same
// username is rejected instead of racing.
type LoginGuard interface {
	// Acquire reserves the username, reporting false when a login for it is
	// already pending.
	Acquire(ctx context.Context, username string) (bool, error)
	Release(ctx context.Context, username string) error
}

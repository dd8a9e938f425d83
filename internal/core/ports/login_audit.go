package ports

import (
	"context"

	"github.com/image-ehr/clinic-console/internal/core/domain"
)

// LoginAuditRepository persists the login audit trail.
type LoginAuditRepository interface {
	Record(ctx context.Context, attempt *domain.LoginAttempt) error
	// List returns attempts newest first, optionally filtered by username,
	// together with the total count for paging.
	List(ctx context.Context, username string, limit, offset int64) ([]domain.LoginAttempt, int64, error)
}

// AuditSink accepts login attempts for asynchronous recording so that the
// login path never blocks on the audit store.
type AuditSink interface {
	Enqueue(attempt domain.LoginAttempt)
}

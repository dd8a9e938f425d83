package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/image-ehr/clinic-console/internal/core/domain"
	"github.com/image-ehr/clinic-console/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// AuditDispatcher records login attempts asynchronously so the login path
// never blocks on the audit store. Attempts are sharded by username to a
// fixed set of workers, preserving per-user ordering in the trail.
type AuditDispatcher struct {
	workers []chan domain.LoginAttempt
	repo    ports.LoginAuditRepository
	log     zerolog.Logger
}

// NewAuditDispatcher creates an AuditDispatcher with numWorkers sharded
// workers. If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.LoginAuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.LoginAttempt, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.LoginAttempt, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an attempt to the worker responsible for its username.
// When the worker's buffer is full the attempt is dropped with a warning:
// the audit trail is best effort and must never stall a login.
func (d *AuditDispatcher) Enqueue(attempt domain.LoginAttempt) {
	select {
	case d.workers[d.shardIndex(attempt.Username)] <- attempt:
	default:
		d.log.Warn().Str("username", attempt.Username).Msg("audit queue full, attempt dropped")
	}
}

// shardIndex maps a username deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32()) % len(d.workers)
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.LoginAttempt) {
	for {
		select {
		case <-ctx.Done():
			return
		case attempt, ok := <-ch:
			if !ok {
				return
			}
			if err := d.repo.Record(ctx, &attempt); err != nil {
				d.log.Warn().Err(err).
					Str("username", attempt.Username).
					Int("worker_id", id).
					Msg("failed to record login attempt")
			}
		}
	}
}

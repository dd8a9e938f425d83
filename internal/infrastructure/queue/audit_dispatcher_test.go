package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/image-ehr/clinic-console/internal/core/domain"
)

type recordingRepo struct {
	mu       sync.Mutex
	attempts []domain.LoginAttempt
}

func (r *recordingRepo) Record(_ context.Context, attempt *domain.LoginAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, *attempt)
	return nil
}

func (r *recordingRepo) List(context.Context, string, int64, int64) ([]domain.LoginAttempt, int64, error) {
	return nil, 0, nil
}

func (r *recordingRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.attempts)
}

func TestAuditDispatcher_RecordsEnqueuedAttempts(t *testing.T) {
	repo := &recordingRepo{}
	d := NewAuditDispatcher(2, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 10; i++ {
		d.Enqueue(domain.LoginAttempt{Username: "nadia", Success: true})
	}

	deadline := time.Now().Add(2 * time.Second)
	for repo.count() < 10 {
		if time.Now().After(deadline) {
			t.Fatalf("recorded %d of 10 attempts before deadline", repo.count())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestAuditDispatcher_ShardIsStablePerUsername(t *testing.T) {
	d := NewAuditDispatcher(4, &recordingRepo{}, zerolog.Nop())

	first := d.shardIndex("nadia")
	for i := 0; i < 100; i++ {
		if got := d.shardIndex("nadia"); got != first {
			t.Fatalf("shard moved from %d to %d", first, got)
		}
	}
}

func TestAuditDispatcher_FullQueueDropsInsteadOfBlocking(t *testing.T) {
	// Workers never started, so the buffer fills and stays full.
	d := NewAuditDispatcher(1, &recordingRepo{}, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < channelBuffer*2; i++ {
			d.Enqueue(domain.LoginAttempt{Username: "nadia"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("enqueue blocked on a full queue")
	}
}

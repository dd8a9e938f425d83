package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/image-ehr/clinic-console/internal/core/domain"
)

const defaultSessionTTL = 12 * time.Hour

// SessionStore persists session records in Redis as JSON under
// session:<id>. The TTL is a storage bound, not an auth decision: token
// expiry is only ever detected by the backend rejecting the token.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewSessionStore creates a SessionStore. A ttl <= 0 selects the default.
func NewSessionStore(client *redis.Client, ttl time.Duration, log zerolog.Logger) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl, log: log}
}

// Get loads a session. A missing key and an unreadable record both resolve
// to domain.ErrSessionNotFound: a value that cannot be deserialised is
// treated as absent, never as a hard failure.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("session get: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		s.log.Warn().Err(err).Str("session_id", id).Msg("unreadable session record, discarding")
		_ = s.client.Del(ctx, s.key(id)).Err()
		return nil, domain.ErrSessionNotFound
	}

	return &sess, nil
}

// Save writes the session, resetting its TTL.
func (s *SessionStore) Save(ctx context.Context, sess *domain.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sess.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

// Delete removes the session record. Deleting a missing session is a no-op.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionStore) key(id string) string {
	return "session:" + id
}

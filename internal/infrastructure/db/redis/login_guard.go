package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const guardTTL = 10 * time.Second

// LoginGuard rejects duplicate login submits backed by Redis.
// Key format: login_inflight:<username>
type LoginGuard struct {
	client *redis.Client
}

// NewLoginGuard creates a LoginGuard wrapping the given Redis client.
func NewLoginGuard(client *redis.Client) *LoginGuard {
	return &LoginGuard{client: client}
}

// Acquire reserves the username for one in-flight login. The TTL bounds how
// long a crashed login attempt can block the user.
func (g *LoginGuard) Acquire(ctx context.Context, username string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(username), "1", guardTTL).Result()
	if err != nil {
		return false, fmt.Errorf("login guard acquire: %w", err)
	}
	return ok, nil
}

// Release frees the username once the login attempt has resolved.
func (g *LoginGuard) Release(ctx context.Context, username string) error {
	return g.client.Del(ctx, g.key(username)).Err()
}

func (g *LoginGuard) key(username string) string {
	return "login_inflight:" + username
}

// Package redis backs the console's hot session state: the session records
// the cookie resolves to on every request, and the short-lived login
// double-submit guard.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// clientName labels console connections in CLIENT LIST output.
const clientName = "clinic-console"

const defaultTimeout = 5 * time.Second

// Config captures the settings for establishing a Redis connection.
type Config struct {
	Addr string
	DB   int
	// Timeout bounds the startup connectivity check; <= 0 selects the
	// default.
	Timeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a ping.
// Session lookups sit on every authenticated request, so a dead Redis must
// fail startup rather than surface as per-request errors.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:       cfg.Addr,
		DB:         cfg.DB,
		ClientName: clientName,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

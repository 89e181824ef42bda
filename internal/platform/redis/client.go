// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides the expiring key-value store behind the credential
authority.

It backs every record that must disappear on its own: token revocation
entries and opaque session records. Expiry is delegated entirely to Redis
TTLs, so there is no background sweeper anywhere in the service.

Core Responsibilities:

  - Ownership: the client is built once in main, passed to the ledgers that
    need it, and closed on shutdown. No package-level connection exists.
  - Boundedness: each call runs under a short per-operation deadline.
  - Volatility: every write carries a TTL.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dialTimeout = 3 * time.Second
	pingTimeout = 2 * time.Second
)

// ClientOptions tunes the connection pool. Zero values fall back to defaults.
type ClientOptions struct {
	PoolSize         int
	OperationTimeout time.Duration
}

// NewClient parses a Redis URL and returns a connected client.
//
// # Parameters
//   - context: Context for the initial ping.
//   - redisURL: Redis connection URL.
//   - tuning: Pool size and per-command read/write timeout.
//   - logger: Structured logger for connection events.
func NewClient(context stdctx.Context, redisURL string, tuning ClientOptions, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	if tuning.PoolSize <= 0 {
		tuning.PoolSize = 10
	}
	if tuning.OperationTimeout <= 0 {
		tuning.OperationTimeout = DefaultOperationTimeout
	}

	options.PoolSize = tuning.PoolSize
	options.MinIdleConns = 2
	options.DialTimeout = dialTimeout
	options.ReadTimeout = tuning.OperationTimeout
	options.WriteTimeout = tuning.OperationTimeout

	// Honour per-request deadlines instead of only the socket timeouts.
	options.ContextTimeoutEnabled = true

	client := redis.NewClient(options)

	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis client connected",
		slog.String("addr", options.Addr),
		slog.Int("pool_size", options.PoolSize),
		slog.Duration("operation_timeout", tuning.OperationTimeout),
	)

	return client, nil
}

// Ping verifies that the Redis client is healthy.
func Ping(context stdctx.Context, client redis.UniversalClient) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}

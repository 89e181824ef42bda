// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis

import (
	stdctx "context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultOperationTimeout bounds a single store call when the caller does not
// configure one.
const DefaultOperationTimeout = 2 * time.Second

// Store is an expiring key-value store over a Redis client.
//
// Every key is namespaced with the store prefix and every call runs under
// its own short deadline, derived from the caller's context. Errors are
// returned wrapped; a missing key is not an error.
type Store struct {
	client  redis.UniversalClient
	prefix  string
	timeout time.Duration
}

// NewStore wraps client. Keys are written as prefix+key.
func NewStore(client redis.UniversalClient, prefix string, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultOperationTimeout
	}
	return &Store{client: client, prefix: prefix, timeout: timeout}
}

/*
Set stores value under key for ttl.

Description: A non-positive ttl is refused; the store never holds entries
without an expiry.

Parameters:
  - context: stdctx.Context
  - key: string
  - value: string
  - ttl: time.Duration

Returns:
  - error: Validation or connectivity errors
*/
func (store *Store) Set(context stdctx.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("redis_store_set_failed: non-positive ttl %s", ttl)
	}

	opCtx, cancel := stdctx.WithTimeout(context, store.timeout)
	defer cancel()

	if err := store.client.Set(opCtx, store.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis_store_set_failed: %w", err)
	}
	return nil
}

/*
Get returns the value stored under key.

Returns:
  - string: Stored value
  - bool: false if the key is absent or expired
  - error: Connectivity errors
*/
func (store *Store) Get(context stdctx.Context, key string) (string, bool, error) {
	opCtx, cancel := stdctx.WithTimeout(context, store.timeout)
	defer cancel()

	value, err := store.client.Get(opCtx, store.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis_store_get_failed: %w", err)
	}
	return value, true, nil
}

// Exists reports whether key is present.
func (store *Store) Exists(context stdctx.Context, key string) (bool, error) {
	opCtx, cancel := stdctx.WithTimeout(context, store.timeout)
	defer cancel()

	count, err := store.client.Exists(opCtx, store.prefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("redis_store_exists_failed: %w", err)
	}
	return count == 1, nil
}

// Delete removes key. Deleting an absent key is not an error.
func (store *Store) Delete(context stdctx.Context, key string) error {
	opCtx, cancel := stdctx.WithTimeout(context, store.timeout)
	defer cancel()

	if err := store.client.Del(opCtx, store.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis_store_delete_failed: %w", err)
	}
	return nil
}

// TTL returns the remaining lifetime of key, or zero when it is absent.
func (store *Store) TTL(context stdctx.Context, key string) (time.Duration, error) {
	opCtx, cancel := stdctx.WithTimeout(context, store.timeout)
	defer cancel()

	remaining, err := store.client.PTTL(opCtx, store.prefix+key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis_store_ttl_failed: %w", err)
	}
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

// Expire resets the TTL of an existing key. It reports false, and writes
// nothing, when the key is already gone.
func (store *Store) Expire(context stdctx.Context, key string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, fmt.Errorf("redis_store_expire_failed: non-positive ttl %s", ttl)
	}

	opCtx, cancel := stdctx.WithTimeout(context, store.timeout)
	defer cancel()

	ok, err := store.client.PExpire(opCtx, store.prefix+key, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis_store_expire_failed: %w", err)
	}
	return ok, nil
}

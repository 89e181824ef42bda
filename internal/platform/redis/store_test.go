// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/credauth/internal/platform/redis"
)

func newStore(t *testing.T) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewStore(client, "test:", time.Second), server
}

/*
TestStore_SetGetExpire covers the full lifecycle of a single entry.
*/
func TestStore_SetGetExpire(t *testing.T) {
	ctx := context.Background()
	store, server := newStore(t)

	require.NoError(t, store.Set(ctx, "k", "v", 10*time.Second))

	// 1. Stored under the namespaced key
	assert.True(t, server.Exists("test:k"))

	value, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", value)

	remaining, err := store.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, remaining)

	// 2. Purged by the store once the TTL elapses
	server.FastForward(10 * time.Second)

	exists, err := store.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)

	_, found, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

/*
TestStore_Delete is idempotent.
*/
func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Delete(ctx, "k"))

	exists, err := store.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

/*
TestStore_Expire extends live keys and leaves missing ones missing.
*/
func TestStore_Expire(t *testing.T) {
	ctx := context.Background()
	store, server := newStore(t)

	require.NoError(t, store.Set(ctx, "k", "v", 10*time.Second))
	server.FastForward(8 * time.Second)

	ok, err := store.Expire(ctx, "k", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	server.FastForward(8 * time.Second)
	exists, err := store.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)

	ok, err = store.Expire(ctx, "missing", 10*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, server.Exists("test:missing"))
}

/*
TestStore_RejectsNonPositiveTTL never writes an immortal entry.
*/
func TestStore_RejectsNonPositiveTTL(t *testing.T) {
	ctx := context.Background()
	store, server := newStore(t)

	assert.Error(t, store.Set(ctx, "k", "v", 0))
	assert.Error(t, store.Set(ctx, "k", "v", -time.Second))
	assert.False(t, server.Exists("test:k"))
}

/*
TestStore_Unavailable surfaces connection failures as errors, not misses.
*/
func TestStore_Unavailable(t *testing.T) {
	ctx := context.Background()
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	store := redis.NewStore(client, "test:", time.Second)

	_, _, err := store.Get(ctx, "k")
	assert.Error(t, err)

	_, err = store.Exists(ctx, "k")
	assert.Error(t, err)

	assert.Error(t, store.Set(ctx, "k", "v", time.Minute))
}

/*
TestNewClient_PingsOnStartup connects to a live server and rejects bad URLs.
*/
func TestNewClient_PingsOnStartup(t *testing.T) {
	server := miniredis.RunT(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client, err := redis.NewClient(context.Background(), "redis://"+server.Addr(), redis.ClientOptions{}, logger)
	require.NoError(t, err)
	require.NoError(t, redis.Ping(context.Background(), client))
	require.NoError(t, client.Close())

	_, err = redis.NewClient(context.Background(), "://bad", redis.ClientOptions{}, logger)
	assert.Error(t, err)
}

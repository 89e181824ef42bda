// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/credauth/internal/platform/constants"
	"github.com/taibuivan/credauth/internal/platform/metrics"
	"github.com/taibuivan/credauth/internal/platform/redis"
	"github.com/taibuivan/credauth/internal/platform/sec"
	"github.com/taibuivan/credauth/internal/users/auth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// fakeClock is a settable time source shared by the codec and the ledgers.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fakeClock) Advance(step time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(step)
}

// fixture bundles one authority with the collaborators tests poke at.
type fixture struct {
	authority auth.Authority
	directory *auth.MemoryDirectory
	server    *miniredis.Miniredis
	store     *redis.Store
	clock     *fakeClock
	recorder  *metrics.Recorder
}

func newRedisStore(t *testing.T, server *miniredis.Miniredis, prefix string) *redis.Store {
	t.Helper()
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewStore(client, prefix, time.Second)
}

func newTokenFixture(t *testing.T) *fixture {
	t.Helper()

	clock := newFakeClock()
	server := miniredis.RunT(t)
	store := newRedisStore(t, server, constants.RedisPrefixRevoked)
	directory := auth.NewMemoryDirectory()
	recorder := metrics.NewRecorder()

	codec, err := sec.NewHMACTokenService([]byte(testSecret), "credauth.test")
	require.NoError(t, err)
	codec.WithClock(clock.Now)

	authority, err := auth.New(auth.Options{
		Scheme:      auth.SchemeToken,
		Directory:   directory,
		Codec:       codec,
		Revocations: store,
		TokenTTL:    time.Hour,
		Recorder:    recorder,
		Now:         clock.Now,
	})
	require.NoError(t, err)

	return &fixture{authority: authority, directory: directory, server: server, store: store, clock: clock, recorder: recorder}
}

func newSessionFixture(t *testing.T, options auth.SessionOptions) *fixture {
	t.Helper()

	clock := newFakeClock()
	server := miniredis.RunT(t)
	store := newRedisStore(t, server, constants.RedisPrefixSession)
	directory := auth.NewMemoryDirectory()
	recorder := metrics.NewRecorder()

	authority, err := auth.New(auth.Options{
		Scheme:    auth.SchemeSession,
		Directory: directory,
		Sessions:  store,
		Session:   options,
		Recorder:  recorder,
		Now:       clock.Now,
	})
	require.NoError(t, err)

	return &fixture{authority: authority, directory: directory, server: server, store: store, clock: clock, recorder: recorder}
}

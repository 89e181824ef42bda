// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/credauth/internal/api"
	"github.com/taibuivan/credauth/internal/platform/config"
	"github.com/taibuivan/credauth/internal/platform/constants"
	"github.com/taibuivan/credauth/internal/platform/metrics"
	"github.com/taibuivan/credauth/internal/platform/middleware"
	"github.com/taibuivan/credauth/internal/platform/redis"
	"github.com/taibuivan/credauth/internal/users/auth"
	"github.com/taibuivan/credauth/internal/users/requests"
)

func newTestServer(t *testing.T, dependencies api.HealthDependencies) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: store.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	recorder := metrics.NewRecorder()
	authority, err := auth.New(auth.Options{
		Scheme:    auth.SchemeSession,
		Directory: auth.NewMemoryDirectory(),
		Sessions:  redis.NewStore(client, constants.RedisPrefixSession, time.Second),
		Recorder:  recorder,
	})
	require.NoError(t, err)

	if dependencies.CheckStore == nil {
		dependencies.CheckStore = func(ctx context.Context) error { return redis.Ping(ctx, client) }
	}
	liveness, readiness := api.NewHealthHandlers(dependencies, logger)

	server := api.NewServer(&config.Config{ServerPort: "0"}, logger,
		api.Middlewares{
			Guard:    middleware.Authenticate(authority, auth.Carrier(authority.Scheme()), recorder),
			Throttle: middleware.NewRateLimiter(100, 100, false).Middleware,
		},
		api.Handlers{
			Liveness:  liveness,
			Readiness: readiness,
			Metrics:   recorder.Handler(),
			Auth:      auth.NewHandler(authority, false),
			Requests:  requests.NewHandler(requests.NewService(requests.NewMemoryStore(), logger)),
		},
	)

	testServer := httptest.NewServer(server.Handler())
	t.Cleanup(testServer.Close)
	return testServer
}

/*
TestServer_Probes answers liveness, readiness and metrics without credentials.
*/
func TestServer_Probes(t *testing.T) {
	server := newTestServer(t, api.HealthDependencies{})

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		response, err := http.Get(server.URL + path)
		require.NoError(t, err)
		_ = response.Body.Close()
		assert.Equal(t, http.StatusOK, response.StatusCode, path)
	}
}

/*
TestServer_ReadyDegraded reports 503 when a dependency is down.
*/
func TestServer_ReadyDegraded(t *testing.T) {
	server := newTestServer(t, api.HealthDependencies{
		CheckDatabase: func(context.Context) error { return errors.New("connection refused") },
	})

	response, err := http.Get(server.URL + "/ready")
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, response.StatusCode)
	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"degraded"`)
}

/*
TestServer_SessionJourney registers, logs in with a cookie jar and uses a guarded route.
*/
func TestServer_SessionJourney(t *testing.T) {
	server := newTestServer(t, api.HealthDependencies{})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	post := func(path, body string) int {
		response, err := client.Post(server.URL+path, "application/json", strings.NewReader(body))
		require.NoError(t, err)
		_ = response.Body.Close()
		return response.StatusCode
	}

	// 1. Guarded before login
	assert.Equal(t, http.StatusUnauthorized, post("/api/v1/requests", `{"title":"x"}`))

	// 2. Register and log in; the jar keeps the cookie
	require.Equal(t, http.StatusCreated, post("/api/v1/auth/register", `{"email":"a@x.com","password":"password1"}`))
	require.Equal(t, http.StatusOK, post("/api/v1/auth/login", `{"email":"A@x.com","password":"password1"}`))

	// 3. Guarded route works, then stops working after logout
	assert.Equal(t, http.StatusCreated, post("/api/v1/requests", `{"title":"x"}`))
	assert.Equal(t, http.StatusNoContent, post("/api/v1/auth/logout", ""))
	assert.Equal(t, http.StatusUnauthorized, post("/api/v1/requests", `{"title":"x"}`))
}

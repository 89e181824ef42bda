// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/credauth/internal/platform/ctxutil"
	"github.com/taibuivan/credauth/internal/platform/middleware"
)

func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	// 1. Generated when absent
	response := httptest.NewRecorder()
	handler.ServeHTTP(response, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, response.Header().Get("X-Request-ID"))

	// 2. Propagated when present
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "abc")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.Equal(t, "abc", seen)
}

func TestRateLimiter(t *testing.T) {
	limiter := middleware.NewRateLimiter(1, 2, false)
	handler := limiter.Middleware(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	statuses := make([]int, 0, 3)
	for range 3 {
		request := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		request.RemoteAddr = "10.0.0.1:5000"
		response := httptest.NewRecorder()
		handler.ServeHTTP(response, request)
		statuses = append(statuses, response.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)

	// Another client has its own bucket
	assert.True(t, limiter.Allow("10.0.0.2"))
}

/*
TestRateLimiter_ProxyHeaders only honours forwarding headers when trusted.
*/
func TestRateLimiter_ProxyHeaders(t *testing.T) {
	spoofed := []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"}

	run := func(limiter *middleware.RateLimiter) []int {
		handler := limiter.Middleware(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusOK)
		}))

		statuses := make([]int, 0, len(spoofed))
		for _, ip := range spoofed {
			request := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
			request.RemoteAddr = "10.0.0.1:5000"
			request.Header.Set("X-Forwarded-For", ip)
			request.Header.Set("X-Real-IP", ip)
			response := httptest.NewRecorder()
			handler.ServeHTTP(response, request)
			statuses = append(statuses, response.Code)
		}
		return statuses
	}

	t.Run("untrusted", func(t *testing.T) {
		statuses := run(middleware.NewRateLimiter(1, 2, false))
		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
	})

	t.Run("trusted", func(t *testing.T) {
		statuses := run(middleware.NewRateLimiter(1, 2, true))
		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusOK}, statuses)
	})
}

func TestPanicRecovery(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	handler := middleware.StructuredLogger(logger)(middleware.PanicRecovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	response := httptest.NewRecorder()
	handler.ServeHTTP(response, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, response.Code)
	assert.Contains(t, logs.String(), "panic_recovered")
	assert.Contains(t, logs.String(), "http_request_finished")
}

func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", middleware.RealIP(request))

	request.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", middleware.RealIP(request))

	request.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", middleware.RealIP(request))

	// Headers never reach RemoteIP
	assert.Equal(t, "192.0.2.1", middleware.RemoteIP(request))
}

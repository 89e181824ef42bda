// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/credauth/internal/platform/ctxutil"
	"github.com/taibuivan/credauth/internal/platform/metrics"
	"github.com/taibuivan/credauth/internal/platform/middleware"
	"github.com/taibuivan/credauth/internal/platform/sec"
)

// stubValidator returns a fixed result and counts calls.
type stubValidator struct {
	identity *sec.Identity
	err      error
	calls    int
	seen     string
}

func (stub *stubValidator) Validate(_ context.Context, credential string) (*sec.Identity, error) {
	stub.calls++
	stub.seen = credential
	return stub.identity, stub.err
}

func protectedHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		identity := ctxutil.GetIdentity(request.Context())
		require.NotNil(t, identity)
		_, _ = fmt.Fprintf(writer, "%d", identity.UserID)
	})
}

/*
TestAuthenticate_Bearer covers the token carrier end to end.
*/
func TestAuthenticate_Bearer(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		validator  *stubValidator
		wantStatus int
		wantCalls  int
		wantReason string
	}{
		{"valid", "Bearer abc", &stubValidator{identity: &sec.Identity{UserID: 9, Role: sec.RoleUser}}, http.StatusOK, 1, ""},
		{"lowercase_scheme", "bearer abc", &stubValidator{identity: &sec.Identity{UserID: 9, Role: sec.RoleUser}}, http.StatusOK, 1, ""},
		{"missing_header", "", &stubValidator{}, http.StatusUnauthorized, 0, "unauthenticated"},
		{"wrong_scheme", "Basic abc", &stubValidator{}, http.StatusUnauthorized, 0, "unauthenticated"},
		{"empty_token", "Bearer   ", &stubValidator{}, http.StatusUnauthorized, 0, "unauthenticated"},
		{"revoked", "Bearer abc", &stubValidator{err: sec.ErrRevoked}, http.StatusUnauthorized, 1, "revoked"},
		{"invalid", "Bearer abc", &stubValidator{err: sec.ErrInvalidToken}, http.StatusUnauthorized, 1, "invalid_token"},
		{"unavailable", "Bearer abc", &stubValidator{err: fmt.Errorf("%w: timeout", sec.ErrAuthorityUnavailable)}, http.StatusServiceUnavailable, 1, "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := metrics.NewRecorder()
			guard := middleware.Authenticate(tt.validator, middleware.BearerCredential, recorder)

			request := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			response := httptest.NewRecorder()

			guard(protectedHandler(t)).ServeHTTP(response, request)

			assert.Equal(t, tt.wantStatus, response.Code)
			assert.Equal(t, tt.wantCalls, tt.validator.calls)

			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "abc", tt.validator.seen)
				assert.Equal(t, "9", response.Body.String())
				return
			}
			assert.Equal(t, 1.0, testutil.ToFloat64(recorder.Rejections().WithLabelValues(tt.wantReason)))
		})
	}
}

/*
TestAuthenticate_GenericRejection never reveals why a credential failed.
*/
func TestAuthenticate_GenericRejection(t *testing.T) {
	bodies := map[string]string{}

	for name, err := range map[string]error{
		"revoked": sec.ErrRevoked,
		"invalid": sec.ErrInvalidToken,
		"session": sec.ErrInvalidOrExpiredSession,
		"gone":    sec.ErrUserNotFound,
	} {
		guard := middleware.Authenticate(&stubValidator{err: err}, middleware.BearerCredential, nil)
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer x")
		response := httptest.NewRecorder()

		guard(protectedHandler(t)).ServeHTTP(response, request)
		require.Equal(t, http.StatusUnauthorized, response.Code)
		bodies[name] = response.Body.String()
	}

	assert.Equal(t, bodies["revoked"], bodies["invalid"])
	assert.Equal(t, bodies["revoked"], bodies["session"])
	assert.Equal(t, bodies["revoked"], bodies["gone"])
}

/*
TestAuthenticate_SessionCookie reads only the cookie carrier.
*/
func TestAuthenticate_SessionCookie(t *testing.T) {
	validator := &stubValidator{identity: &sec.Identity{UserID: 3, Role: sec.RoleUser}}
	guard := middleware.Authenticate(validator, middleware.SessionCookieCredential, nil)

	// 1. A bearer header is not a session carrier
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer handle")
	response := httptest.NewRecorder()
	guard(protectedHandler(t)).ServeHTTP(response, request)
	assert.Equal(t, http.StatusUnauthorized, response.Code)
	assert.Zero(t, validator.calls)

	// 2. The cookie is
	request = httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: "sessionId", Value: "handle"})
	response = httptest.NewRecorder()
	guard(protectedHandler(t)).ServeHTTP(response, request)
	assert.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "handle", validator.seen)
}

/*
TestRequireCapability enforces the role table.
*/
func TestRequireCapability(t *testing.T) {
	tests := []struct {
		name       string
		identity   *sec.Identity
		wantStatus int
	}{
		{"moderator_reviews", &sec.Identity{UserID: 1, Role: sec.RoleModerator}, http.StatusOK},
		{"user_cannot_review", &sec.Identity{UserID: 2, Role: sec.RoleUser}, http.StatusForbidden},
		{"unknown_role", &sec.Identity{UserID: 3, Role: "admin"}, http.StatusForbidden},
		{"no_identity", nil, http.StatusUnauthorized},
	}

	ok := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/requests/all", nil)
			if tt.identity != nil {
				request = request.WithContext(ctxutil.WithIdentity(request.Context(), tt.identity))
			}
			response := httptest.NewRecorder()

			middleware.RequireCapability(sec.CapabilityReviewRequests)(ok).ServeHTTP(response, request)
			assert.Equal(t, tt.wantStatus, response.Code)
		})
	}
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/credauth/internal/platform/middleware"
	"github.com/taibuivan/credauth/internal/users/auth"
)

func passThrough(next http.Handler) http.Handler { return next }

func newAuthServer(t *testing.T, f *fixture) *httptest.Server {
	t.Helper()
	handler := auth.NewHandler(f.authority, false)
	guard := middleware.Authenticate(f.authority, auth.Carrier(f.authority.Scheme()), f.recorder)

	server := httptest.NewServer(handler.Routes(guard, passThrough))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	response, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = response.Body.Close() })
	return response
}

func send(t *testing.T, method, url string, decorate func(*http.Request)) *http.Response {
	t.Helper()
	request, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	decorate(request)
	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	t.Cleanup(func() { _ = response.Body.Close() })
	return response
}

/*
TestHandler_TokenFlow drives the token scheme over HTTP.
*/
func TestHandler_TokenFlow(t *testing.T) {
	server := newAuthServer(t, newTokenFixture(t))

	// 1. Register, then refuse the duplicate
	response := postJSON(t, server.URL+"/register", `{"email":"a@x.com","password":"password1","name":"Ann"}`)
	require.Equal(t, http.StatusCreated, response.StatusCode)

	var created struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&created))
	assert.Equal(t, "a@x.com", created.Data["email"])
	assert.Equal(t, "user", created.Data["role"])
	assert.NotContains(t, created.Data, "password_hash")
	assert.NotContains(t, created.Data, "PasswordHash")

	response = postJSON(t, server.URL+"/register", `{"email":"a@x.com","password":"password2"}`)
	assert.Equal(t, http.StatusConflict, response.StatusCode)

	// 2. Login
	response = postJSON(t, server.URL+"/login", `{"email":"a@x.com","password":"password1"}`)
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Empty(t, response.Cookies())

	var login struct {
		Data struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&login))
	assert.Equal(t, "Bearer", login.Data.TokenType)
	require.NotEmpty(t, login.Data.AccessToken)

	bearer := func(request *http.Request) {
		request.Header.Set("Authorization", "Bearer "+login.Data.AccessToken)
	}

	// 3. Guarded route, logout, guarded route again
	assert.Equal(t, http.StatusOK, send(t, http.MethodGet, server.URL+"/me", bearer).StatusCode)
	assert.Equal(t, http.StatusNoContent, send(t, http.MethodPost, server.URL+"/logout", bearer).StatusCode)
	assert.Equal(t, http.StatusUnauthorized, send(t, http.MethodGet, server.URL+"/me", bearer).StatusCode)

	// 4. Session cookies are not a token carrier
	cookie := func(request *http.Request) {
		request.AddCookie(&http.Cookie{Name: "sessionId", Value: login.Data.AccessToken})
	}
	assert.Equal(t, http.StatusUnauthorized, send(t, http.MethodGet, server.URL+"/me", cookie).StatusCode)
}

/*
TestHandler_SessionFlow drives the session scheme over HTTP.
*/
func TestHandler_SessionFlow(t *testing.T) {
	server := newAuthServer(t, newSessionFixture(t, auth.SessionOptions{}))

	response := postJSON(t, server.URL+"/register", `{"email":"a@x.com","password":"password1"}`)
	require.Equal(t, http.StatusCreated, response.StatusCode)

	// 1. Login sets the HTTP-only cookie
	response = postJSON(t, server.URL+"/login", `{"email":"a@x.com","password":"password1"}`)
	require.Equal(t, http.StatusOK, response.StatusCode)

	var session *http.Cookie
	for _, cookie := range response.Cookies() {
		if cookie.Name == "sessionId" {
			session = cookie
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.NotEmpty(t, session.Value)

	withCookie := func(request *http.Request) { request.AddCookie(&http.Cookie{Name: "sessionId", Value: session.Value}) }

	// 2. Guarded route, logout, guarded route again
	assert.Equal(t, http.StatusOK, send(t, http.MethodGet, server.URL+"/me", withCookie).StatusCode)

	response = send(t, http.MethodPost, server.URL+"/logout", withCookie)
	assert.Equal(t, http.StatusNoContent, response.StatusCode)
	require.NotEmpty(t, response.Cookies())
	assert.Equal(t, -1, response.Cookies()[0].MaxAge)

	assert.Equal(t, http.StatusUnauthorized, send(t, http.MethodGet, server.URL+"/me", withCookie).StatusCode)
}

/*
TestHandler_Rejections covers responses that do not depend on the scheme.
*/
func TestHandler_Rejections(t *testing.T) {
	server := newAuthServer(t, newTokenFixture(t))

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"bad_json", "/register", `{"email":`, http.StatusBadRequest},
		{"unknown_field", "/register", `{"email":"a@x.com","password":"password1","role":"moderator"}`, http.StatusBadRequest},
		{"bad_email", "/register", `{"email":"nope","password":"password1"}`, http.StatusBadRequest},
		{"short_password", "/register", `{"email":"a@x.com","password":"short"}`, http.StatusBadRequest},
		{"login_unknown", "/login", `{"email":"b@x.com","password":"password1"}`, http.StatusUnauthorized},
		{"login_missing_password", "/login", `{"email":"b@x.com"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, postJSON(t, server.URL+tt.path, tt.body).StatusCode)
		})
	}

	// Logout without any credential still succeeds
	assert.Equal(t, http.StatusNoContent, send(t, http.MethodPost, server.URL+"/logout", func(*http.Request) {}).StatusCode)
	// And a missing credential on a guarded route is a 401
	assert.Equal(t, http.StatusUnauthorized, send(t, http.MethodGet, server.URL+"/me", func(*http.Request) {}).StatusCode)
}

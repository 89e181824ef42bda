// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Credential Carriers: header and cookie names used by the access guard.
  - Store Taxonomy: key prefixes in the expiring key-value store.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "credauth-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// RateLimitCleanupInterval is how often idle client buckets are dropped.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its bucket is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Credential Carriers

const (
	// HeaderAuthorization carries "Bearer <token>" in the token scheme.
	HeaderAuthorization = "Authorization"

	// BearerPrefix is the case-insensitive scheme word of the Authorization header.
	BearerPrefix = "bearer"

	// SessionCookieName is the HTTP-only cookie carrying the opaque session handle.
	SessionCookieName = "sessionId"

	// SessionCookiePath scopes the session cookie to the API.
	SessionCookiePath = "/"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
)

// # JSON Field Identifiers

const (
	FieldError  = "error"
	FieldCode   = "code"
	FieldStatus = "status"
	FieldChecks = "checks"
)

// # Store Prefixes (Cache Taxonomy)

const (
	// RedisPrefixRevoked namespaces revocation entries, keyed by token digest.
	RedisPrefixRevoked = "auth:revoked:"

	// RedisPrefixSession namespaces session records, keyed by handle digest.
	RedisPrefixSession = "auth:session:"
)

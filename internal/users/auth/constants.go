// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// DefaultTokenTTL is how long a signed token stays valid.
	DefaultTokenTTL = 1 * time.Hour

	// DefaultSessionTTL is how long a session record lives in the ledger.
	DefaultSessionTTL = 3600 * time.Second

	// SessionHandleLength is the byte length of a session handle (256 bits).
	SessionHandleLength = 32

	// TokenType is returned alongside signed tokens.
	TokenType = "Bearer"

	// revokedMarker is the value of a revocation entry. Only its presence matters.
	revokedMarker = "1"

	// MinPasswordLength and MaxPasswordBytes bound accepted passwords. bcrypt
	// refuses inputs over 72 bytes.
	MinPasswordLength = 8
	MaxPasswordBytes  = 72

	// MaxNameLength bounds the optional display name.
	MaxNameLength = 100
)

// # Schemes

const (
	SchemeToken   = "token"
	SchemeSession = "session"
)

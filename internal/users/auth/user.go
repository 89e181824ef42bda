// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the revocable credential authority.

It registers and logs users in, then issues one of two credential kinds
depending on the deployment's scheme:

  - Token scheme: a signed token verified statelessly, plus a revocation
    ledger so logout takes effect before the token's natural expiry.
  - Session scheme: an opaque random handle resolved through a session
    ledger on every request.

Both sit behind the [Authority] interface; the access guard and the HTTP
handlers never know which one is running.
*/
package auth

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/taibuivan/credauth/internal/platform/sec"
)

// # Domain Entities

// User is an account in the credential directory.
type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	Name         *string      `json:"name,omitempty"`
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Identity returns the request-scoped view of the account.
func (user *User) Identity() *sec.Identity {
	return &sec.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
}

// NormalizeEmail trims and lower-cases an address so lookups and the unique
// constraint agree on what "the same email" means.
func NormalizeEmail(email string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(email))
}

// # Field Identifiers

const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldName        = "name"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldExpiresIn   = "expires_in"
	FieldUser        = "user"
)

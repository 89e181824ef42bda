// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "errors"

// # Credential Outcomes
//
// These sentinels are the internal vocabulary of the credential authority.
// They are distinct so logs and metrics can tell a revoked token from a
// forged one, but the HTTP boundary collapses every rejection into a single
// generic 401 so none of them become a credential-guessing oracle.

var (
	// ErrDuplicateIdentity is returned by Register when the email is taken.
	ErrDuplicateIdentity = errors.New("duplicate identity")

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRevoked is returned when a token is present in the revocation ledger.
	ErrRevoked = errors.New("token revoked")

	// ErrInvalidToken covers malformed, badly signed and expired tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidOrExpiredSession covers unknown, destroyed and expired sessions.
	ErrInvalidOrExpiredSession = errors.New("invalid or expired session")

	// ErrUserNotFound is returned when a live session points at a deleted account.
	ErrUserNotFound = errors.New("user not found")

	// ErrUnauthenticated is returned when no credential was supplied at all.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrAuthorityUnavailable marks a transient store or directory failure.
	// It is never a verdict on the credential itself.
	ErrAuthorityUnavailable = errors.New("authority unavailable")
)

// Reason returns a stable, low-cardinality label for err, suitable for
// metrics and structured logs.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAuthorityUnavailable):
		return "unavailable"
	case errors.Is(err, ErrDuplicateIdentity):
		return "duplicate_identity"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrRevoked):
		return "revoked"
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, ErrInvalidOrExpiredSession):
		return "invalid_or_expired_session"
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	default:
		return "error"
	}
}

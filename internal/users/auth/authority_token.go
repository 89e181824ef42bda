// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/taibuivan/credauth/internal/platform/metrics"
	"github.com/taibuivan/credauth/internal/platform/sec"
)

// TokenAuthority issues signed tokens and revokes them through a
// [RevocationLedger].
//
// State per token: Issued, Valid, then Revoked or NaturallyExpired. Both end
// states are refused with the same client-visible answer.
type TokenAuthority struct {
	accounts
	codec       TokenCodec
	revocations *RevocationLedger
	ttl         time.Duration
	recorder    *metrics.Recorder
}

// NewTokenAuthority constructs a [TokenAuthority]. A non-positive ttl falls
// back to [DefaultTokenTTL].
func NewTokenAuthority(directory Directory, codec TokenCodec, revocations *RevocationLedger, ttl time.Duration, recorder *metrics.Recorder) *TokenAuthority {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenAuthority{
		accounts:    accounts{directory: directory},
		codec:       codec,
		revocations: revocations,
		ttl:         ttl,
		recorder:    recorder,
	}
}

// Scheme implements [Authority].
func (authority *TokenAuthority) Scheme() string {
	return SchemeToken
}

// Register implements [Authority].
func (authority *TokenAuthority) Register(ctx context.Context, input RegisterInput) (user *User, err error) {
	defer func() { authority.recorder.ObserveOperation(SchemeToken, metrics.OperationRegister, err) }()
	return authority.register(ctx, input)
}

/*
Login checks the password and signs a token carrying {sub, email, role}.

Returns:
  - *Credential: Signed token with its expiry
  - error: sec.ErrInvalidCredentials, sec.ErrAuthorityUnavailable or signing failures
*/
func (authority *TokenAuthority) Login(ctx context.Context, input LoginInput) (credential *Credential, err error) {
	defer func() { authority.recorder.ObserveOperation(SchemeToken, metrics.OperationLogin, err) }()

	user, err := authority.authenticate(ctx, input)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := authority.codec.Issue(*user.Identity(), authority.ttl)
	if err != nil {
		return nil, fmt.Errorf("auth_token_login_sign_failed: %w", err)
	}

	return &Credential{Value: token, ExpiresAt: expiresAt, User: user}, nil
}

/*
Logout revokes token until its natural expiry.

Description: The token is decoded without verification so that expired or
foreign-signed tokens can be logged out too. Undecodable input and tokens
that have already expired are a no-op. The ledger caps the entry at the
token lifetime, so a forged far-future expiry cannot pin a key.

Returns:
  - error: sec.ErrAuthorityUnavailable when the ledger cannot be written;
    callers log it and otherwise treat the logout as done
*/
func (authority *TokenAuthority) Logout(ctx context.Context, token string) (err error) {
	defer func() { authority.recorder.ObserveOperation(SchemeToken, metrics.OperationLogout, err) }()

	claims, decodeErr := authority.codec.Decode(token)
	if decodeErr != nil {
		return nil
	}

	if err := authority.revocations.Revoke(ctx, token, claims.ExpiresAt.Time); err != nil {
		return unavailable(err)
	}
	return nil
}

/*
Validate resolves token into an identity.

Description: The revocation ledger is consulted before the signature, so a
revoked token is refused as revoked even while its signature is still good.

Returns:
  - *sec.Identity: Claims carried by the token
  - error: sec.ErrRevoked, sec.ErrInvalidToken or sec.ErrAuthorityUnavailable
*/
func (authority *TokenAuthority) Validate(ctx context.Context, token string) (identity *sec.Identity, err error) {
	defer func() { authority.recorder.ObserveOperation(SchemeToken, metrics.OperationValidate, err) }()

	// 1. Revocation
	revoked, err := authority.revocations.IsRevoked(ctx, token)
	if err != nil {
		return nil, unavailable(err)
	}
	if revoked {
		return nil, sec.ErrRevoked
	}

	// 2. Signature and expiry
	claims, err := authority.codec.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sec.ErrInvalidToken, err)
	}

	// 3. Claims
	identity, err = claims.Identity()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sec.ErrInvalidToken, err)
	}
	return identity, nil
}

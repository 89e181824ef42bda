// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/credauth/internal/platform/ctxutil"
	"github.com/taibuivan/credauth/internal/platform/metrics"
	"github.com/taibuivan/credauth/internal/platform/sec"
)

// # Contracts & Types

// Authority issues, validates and invalidates credentials for one scheme.
//
// Every error it returns wraps one of the sentinels in package sec. Store
// and directory outages wrap [sec.ErrAuthorityUnavailable] and are never
// reported as a verdict on the credential.
type Authority interface {
	// Scheme names the credential kind: [SchemeToken] or [SchemeSession].
	Scheme() string

	// Register creates an account with the default role.
	Register(ctx context.Context, input RegisterInput) (*User, error)

	// Login checks a password and issues a credential.
	Login(ctx context.Context, input LoginInput) (*Credential, error)

	// Logout invalidates credential. Unknown or malformed credentials are a
	// no-op; only an unreachable store yields an error. Callers log that
	// error and otherwise treat the logout as done.
	Logout(ctx context.Context, credential string) error

	// Validate resolves credential into the identity it was issued for.
	Validate(ctx context.Context, credential string) (*sec.Identity, error)
}

// TokenCodec signs and reads tokens. [*sec.TokenService] implements it.
type TokenCodec interface {
	Issue(identity sec.Identity, timeToLive time.Duration) (string, time.Time, error)
	Verify(token string) (*sec.AuthClaims, error)
	Decode(token string) (*sec.AuthClaims, error)
}

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Email    string
	Password string
	Name     *string
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// Credential is what a successful login hands back to the client.
type Credential struct {
	// Value is the signed token or the session handle.
	Value     string
	ExpiresAt time.Time
	User      *User
}

// # Construction

// Options wires an [Authority]. Only the stores of the chosen scheme are read.
type Options struct {
	Scheme    string
	Directory Directory

	// Token scheme
	Codec       TokenCodec
	Revocations ExpiringStore
	TokenTTL    time.Duration

	// Session scheme
	Sessions ExpiringStore
	Session  SessionOptions

	Recorder *metrics.Recorder
	Now      func() time.Time
}

// New builds the authority for options.Scheme.
func New(options Options) (Authority, error) {
	if options.Directory == nil {
		return nil, errors.New("auth: directory is required")
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	switch options.Scheme {
	case SchemeToken:
		if options.Codec == nil || options.Revocations == nil {
			return nil, errors.New("auth: token scheme needs a codec and a revocation store")
		}
		ledger := NewRevocationLedger(options.Revocations, options.TokenTTL, options.Now)
		return NewTokenAuthority(options.Directory, options.Codec, ledger, options.TokenTTL, options.Recorder), nil

	case SchemeSession:
		if options.Sessions == nil {
			return nil, errors.New("auth: session scheme needs a session store")
		}
		if options.Session.Now == nil {
			options.Session.Now = options.Now
		}
		ledger := NewSessionLedger(options.Sessions, options.Session)
		return NewSessionAuthority(options.Directory, ledger, options.Recorder), nil

	default:
		return nil, fmt.Errorf("auth: unknown scheme %q", options.Scheme)
	}
}

// # Shared Account Flows

// accounts holds the register and password-check logic both schemes share.
type accounts struct {
	directory Directory
}

/*
register validates uniqueness, hashes the password and persists the account.

Returns:
  - *User: Created entity
  - error: sec.ErrDuplicateIdentity, sec.ErrAuthorityUnavailable or hashing failures
*/
func (flows *accounts) register(ctx context.Context, input RegisterInput) (*User, error) {
	email := NormalizeEmail(input.Email)

	// A quick lookup answers the common case; the directory's own uniqueness
	// check covers the race between two registrations.
	_, err := flows.directory.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, sec.ErrDuplicateIdentity
	case !errors.Is(err, sec.ErrUserNotFound):
		return nil, unavailable(err)
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_register_hash_failed: %w", err)
	}

	user := &User{
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         input.Name,
		Role:         sec.RoleUser,
	}

	if err := flows.directory.Create(ctx, user); err != nil {
		if errors.Is(err, sec.ErrDuplicateIdentity) {
			return nil, sec.ErrDuplicateIdentity
		}
		return nil, unavailable(err)
	}

	return user, nil
}

/*
authenticate checks email and password.

Description: An unknown email still pays for a bcrypt comparison so response
time does not reveal which addresses are registered. Both failure modes return
the same error; only the log line tells them apart.

Returns:
  - *User: The matching account
  - error: sec.ErrInvalidCredentials or sec.ErrAuthorityUnavailable
*/
func (flows *accounts) authenticate(ctx context.Context, input LoginInput) (*User, error) {
	logger := ctxutil.GetLogger(ctx)

	user, err := flows.directory.FindByEmail(ctx, NormalizeEmail(input.Email))
	if err != nil {
		if !errors.Is(err, sec.ErrUserNotFound) {
			return nil, unavailable(err)
		}
		sec.CheckPasswordHash(input.Password, "")
		logger.InfoContext(ctx, "auth_login_rejected", slog.String("reason", "unknown_email"))
		return nil, sec.ErrInvalidCredentials
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		logger.InfoContext(ctx, "auth_login_rejected",
			slog.String("reason", "wrong_password"),
			slog.Int64("user_id", user.ID),
		)
		return nil, sec.ErrInvalidCredentials
	}

	return user, nil
}

// unavailable marks err as a transient dependency failure.
func unavailable(err error) error {
	return fmt.Errorf("%w: %w", sec.ErrAuthorityUnavailable, err)
}

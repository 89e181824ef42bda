// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/taibuivan/credauth/internal/platform/metrics"
	"github.com/taibuivan/credauth/internal/platform/sec"
)

// SessionAuthority issues opaque handles backed by a [SessionLedger].
//
// State per session: Created, Active, then Destroyed or Expired.
type SessionAuthority struct {
	accounts
	sessions *SessionLedger
	recorder *metrics.Recorder
}

// NewSessionAuthority constructs a [SessionAuthority].
func NewSessionAuthority(directory Directory, sessions *SessionLedger, recorder *metrics.Recorder) *SessionAuthority {
	return &SessionAuthority{
		accounts: accounts{directory: directory},
		sessions: sessions,
		recorder: recorder,
	}
}

// Scheme implements [Authority].
func (authority *SessionAuthority) Scheme() string {
	return SchemeSession
}

// Register implements [Authority].
func (authority *SessionAuthority) Register(ctx context.Context, input RegisterInput) (user *User, err error) {
	defer func() { authority.recorder.ObserveOperation(SchemeSession, metrics.OperationRegister, err) }()
	return authority.register(ctx, input)
}

/*
Login checks the password and opens a session.

Returns:
  - *Credential: Session handle, its expiry and the account
  - error: sec.ErrInvalidCredentials or sec.ErrAuthorityUnavailable
*/
func (authority *SessionAuthority) Login(ctx context.Context, input LoginInput) (credential *Credential, err error) {
	defer func() { authority.recorder.ObserveOperation(SchemeSession, metrics.OperationLogin, err) }()

	user, err := authority.authenticate(ctx, input)
	if err != nil {
		return nil, err
	}

	handle, expiresAt, err := authority.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, unavailable(err)
	}

	return &Credential{Value: handle, ExpiresAt: expiresAt, User: user}, nil
}

// Logout destroys the session record unconditionally. A store error is
// returned for callers to log; the logout is otherwise treated as done.
func (authority *SessionAuthority) Logout(ctx context.Context, handle string) (err error) {
	defer func() { authority.recorder.ObserveOperation(SchemeSession, metrics.OperationLogout, err) }()

	if err := authority.sessions.Destroy(ctx, handle); err != nil {
		return unavailable(err)
	}
	return nil
}

/*
Validate resolves handle into the identity of its owner.

Description: The account is re-read on every call, so role changes and
deletions take effect on the next request.

Returns:
  - *sec.Identity: Current identity of the session owner
  - error: sec.ErrInvalidOrExpiredSession, sec.ErrUserNotFound or sec.ErrAuthorityUnavailable
*/
func (authority *SessionAuthority) Validate(ctx context.Context, handle string) (identity *sec.Identity, err error) {
	defer func() { authority.recorder.ObserveOperation(SchemeSession, metrics.OperationValidate, err) }()

	// 1. Ledger
	userID, found, err := authority.sessions.Lookup(ctx, handle)
	if err != nil {
		return nil, unavailable(err)
	}
	if !found {
		return nil, sec.ErrInvalidOrExpiredSession
	}

	// 2. Directory
	user, err := authority.directory.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sec.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: session owner %d", sec.ErrUserNotFound, userID)
		}
		return nil, unavailable(err)
	}

	return user.Identity(), nil
}

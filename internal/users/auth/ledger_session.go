// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/taibuivan/credauth/internal/platform/sec"
)

// SessionLedger maps opaque session handles to user IDs.
//
// Records are keyed by the digest of the handle, never the handle itself.
// With sliding enabled every successful lookup pushes the expiry back by
// the full TTL; otherwise a session dies ttl after it was created.
type SessionLedger struct {
	store   ExpiringStore
	ttl     time.Duration
	sliding bool
	now     func() time.Time
}

// SessionOptions configures a [SessionLedger]. Zero values use the defaults.
type SessionOptions struct {
	TTL     time.Duration
	Sliding bool
	Now     func() time.Time
}

// NewSessionLedger creates a ledger over store.
func NewSessionLedger(store ExpiringStore, options SessionOptions) *SessionLedger {
	if options.TTL <= 0 {
		options.TTL = DefaultSessionTTL
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	return &SessionLedger{
		store:   store,
		ttl:     options.TTL,
		sliding: options.Sliding,
		now:     options.Now,
	}
}

// TTL returns the lifetime given to new records.
func (ledger *SessionLedger) TTL() time.Duration {
	return ledger.ttl
}

/*
Create opens a session for userID.

Returns:
  - string: Fresh handle (256 random bits, URL-safe base64)
  - time.Time: When the record expires unless renewed
  - error: Randomness or store failures
*/
func (ledger *SessionLedger) Create(context context.Context, userID int64) (string, time.Time, error) {
	handle, err := sec.GenerateSecureToken(SessionHandleLength)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("session_ledger_handle_failed: %w", err)
	}

	if err := ledger.store.Set(context, sec.HashToken(handle), strconv.FormatInt(userID, 10), ledger.ttl); err != nil {
		return "", time.Time{}, fmt.Errorf("session_ledger_create_failed: %w", err)
	}

	return handle, ledger.now().Add(ledger.ttl), nil
}

/*
Lookup resolves handle to its user ID.

Returns:
  - int64: Owning user
  - bool: false for unknown, destroyed, expired or unreadable records
  - error: Store failures only
*/
func (ledger *SessionLedger) Lookup(context context.Context, handle string) (int64, bool, error) {
	key := sec.HashToken(handle)

	value, found, err := ledger.store.Get(context, key)
	if err != nil {
		return 0, false, fmt.Errorf("session_ledger_lookup_failed: %w", err)
	}
	if !found {
		return 0, false, nil
	}

	userID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false, nil
	}

	if ledger.sliding {
		alive, err := ledger.renew(context, key, value)
		if err != nil {
			return 0, false, fmt.Errorf("session_ledger_renew_failed: %w", err)
		}
		if !alive {
			return 0, false, nil
		}
	}

	return userID, true, nil
}

// expirer is implemented by stores that can extend a key without
// rewriting it.
type expirer interface {
	Expire(context context.Context, key string, ttl time.Duration) (bool, error)
}

// renew pushes the expiry of key back by the full TTL. It must not recreate
// a record that a concurrent Destroy removed, so in-place extension is used
// whenever the store offers it.
func (ledger *SessionLedger) renew(context context.Context, key, value string) (bool, error) {
	if store, ok := ledger.store.(expirer); ok {
		return store.Expire(context, key, ledger.ttl)
	}
	return true, ledger.store.Set(context, key, value, ledger.ttl)
}

// Destroy deletes the record for handle. Unknown handles are not an error.
func (ledger *SessionLedger) Destroy(context context.Context, handle string) error {
	if err := ledger.store.Delete(context, sec.HashToken(handle)); err != nil {
		return fmt.Errorf("session_ledger_destroy_failed: %w", err)
	}
	return nil
}

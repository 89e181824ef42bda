// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/taibuivan/credauth/internal/platform/sec"
)

// RevocationLedger records signed tokens that must be refused before their
// natural expiry.
//
// An entry lives as long as the token it blocks: its TTL is the
// token's remaining lifetime, so the store forgets it at the moment the
// signature check would start refusing the token anyway.
//
// Logout decodes tokens without verifying them, so the embedded expiry is
// untrusted. Entries are capped at maxTTL, the lifetime of tokens this
// service issues; no genuine token has more time left than that.
type RevocationLedger struct {
	store  ExpiringStore
	maxTTL time.Duration
	now    func() time.Time
}

// NewRevocationLedger creates a ledger over store. A non-positive maxTTL
// falls back to [DefaultTokenTTL].
func NewRevocationLedger(store ExpiringStore, maxTTL time.Duration, now func() time.Time) *RevocationLedger {
	if maxTTL <= 0 {
		maxTTL = DefaultTokenTTL
	}
	if now == nil {
		now = time.Now
	}
	return &RevocationLedger{store: store, maxTTL: maxTTL, now: now}
}

/*
Revoke blocks token until expiresAt.

Description: A token that has already expired is not recorded. The entry
never lives longer than the ledger's maxTTL.

Parameters:
  - context: context.Context
  - token: string (the exact credential string)
  - expiresAt: time.Time (the token's embedded expiry)

Returns:
  - error: Store failures
*/
func (ledger *RevocationLedger) Revoke(context context.Context, token string, expiresAt time.Time) error {
	remaining := min(expiresAt.Sub(ledger.now()), ledger.maxTTL)
	if remaining <= 0 {
		return nil
	}

	if err := ledger.store.Set(context, sec.HashToken(token), revokedMarker, remaining); err != nil {
		return fmt.Errorf("revocation_ledger_revoke_failed: %w", err)
	}
	return nil
}

// IsRevoked reports whether token has a live revocation entry.
func (ledger *RevocationLedger) IsRevoked(context context.Context, token string) (bool, error) {
	revoked, err := ledger.store.Exists(context, sec.HashToken(token))
	if err != nil {
		return false, fmt.Errorf("revocation_ledger_lookup_failed: %w", err)
	}
	return revoked, nil
}

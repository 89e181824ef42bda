// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # Credential Directory

// Directory is the user record store the authority reads and appends to.
//
// Implementations report a missing account as [sec.ErrUserNotFound] and a
// taken email as [sec.ErrDuplicateIdentity]. Any other error is treated as
// the directory being unavailable.
type Directory interface {

	/*
		FindByEmail returns the account registered under email.

		Parameters:
		  - context: context.Context
		  - email: string (already normalized)

		Returns:
		  - *User: Hydrated entity
		  - error: sec.ErrUserNotFound or retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *User: Hydrated entity
		  - error: sec.ErrUserNotFound or retrieval failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	/*
		Create persists a new account and fills in its ID and timestamps.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: sec.ErrDuplicateIdentity or persistence failures
	*/
	Create(context context.Context, user *User) error
}

// # Expiring Key-Value Store

// ExpiringStore is the volatile store behind both ledgers. Entries vanish
// on their own once their TTL elapses.
type ExpiringStore interface {

	/*
		Set writes value under key for ttl. A non-positive ttl is refused.

		Parameters:
		  - context: context.Context
		  - key: string
		  - value: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, key, value string, ttl time.Duration) error

	/*
		Get reads key.

		Returns:
		  - string: Stored value
		  - bool: false when absent or expired
		  - error: Connectivity failures only
	*/
	Get(context context.Context, key string) (string, bool, error)

	// Exists reports whether key is present.
	Exists(context context.Context, key string) (bool, error)

	// Delete removes key. Absent keys are not an error.
	Delete(context context.Context, key string) error
}

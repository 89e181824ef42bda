// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuidv7 wraps google/uuid to generate time-ordered identifiers.
//
// The service uses them as request correlation IDs, so log lines sort in
// arrival order.
package uuidv7

import "github.com/google/uuid"

// New generates a UUIDv7 string. If the v7 generator fails it falls back
// to a random v4 value rather than leave a request without an ID.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

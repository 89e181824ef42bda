// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/credauth/internal/platform/sec"
)

/*
TestPasswordHash verifies bcrypt round trips and the empty-hash path.
*/
func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("p1")
	require.NoError(t, err)
	assert.NotEqual(t, "p1", hash)

	assert.True(t, sec.CheckPasswordHash("p1", hash))
	assert.False(t, sec.CheckPasswordHash("wrong", hash))
	assert.False(t, sec.CheckPasswordHash("p1", ""))
}

/*
TestGenerateSecureToken_NoCollisions draws 10,000 handles and expects no repeats.
*/
func TestGenerateSecureToken_NoCollisions(t *testing.T) {
	seen := make(map[string]struct{}, 10_000)
	for i := 0; i < 10_000; i++ {
		token, err := sec.GenerateSecureToken(32)
		require.NoError(t, err)
		_, duplicate := seen[token]
		require.False(t, duplicate, "collision after %d draws", i)
		seen[token] = struct{}{}
	}
}

/*
TestHashToken is deterministic and sensitive to every byte.
*/
func TestHashToken(t *testing.T) {
	assert.Equal(t, sec.HashToken("abc"), sec.HashToken("abc"))
	assert.NotEqual(t, sec.HashToken("abc"), sec.HashToken("abd"))
	assert.Len(t, sec.HashToken("abc"), 64)
}

/*
TestUserRole_Can checks the static capability table.
*/
func TestUserRole_Can(t *testing.T) {
	tests := []struct {
		role       sec.UserRole
		capability sec.Capability
		allowed    bool
	}{
		{sec.RoleUser, sec.CapabilityCreateRequest, true},
		{sec.RoleUser, sec.CapabilityReadOwnRequest, true},
		{sec.RoleUser, sec.CapabilityReviewRequests, false},
		{sec.RoleModerator, sec.CapabilityReviewRequests, true},
		{sec.UserRole("admin"), sec.CapabilityCreateRequest, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s", tt.role, tt.capability), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.role.Can(tt.capability))
		})
	}

	assert.True(t, sec.RoleModerator.Valid())
	assert.False(t, sec.UserRole("").Valid())
}

/*
TestReason maps wrapped sentinels to stable labels.
*/
func TestReason(t *testing.T) {
	assert.Equal(t, "ok", sec.Reason(nil))
	assert.Equal(t, "revoked", sec.Reason(fmt.Errorf("ctx: %w", sec.ErrRevoked)))
	assert.Equal(t, "unavailable", sec.Reason(fmt.Errorf("%w: %w", sec.ErrAuthorityUnavailable, fmt.Errorf("dial tcp"))))
	assert.Equal(t, "error", sec.Reason(fmt.Errorf("something else")))
}

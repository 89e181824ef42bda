// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Default role for every registered account
	RoleUser UserRole = "user"

	// Can review requests submitted by other users
	RoleModerator UserRole = "moderator"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// # Capabilities

// Capability is a single permission a protected operation can require.
//
// Requirements are declared next to the route that needs them; there is no
// runtime metadata lookup.
type Capability string

const (
	CapabilityCreateRequest  Capability = "requests:create"
	CapabilityReadOwnRequest Capability = "requests:read_own"
	CapabilityReviewRequests Capability = "requests:review"
)

// roleCapabilities is the fixed grant table. Unknown roles get nothing.
var roleCapabilities = map[UserRole][]Capability{
	RoleUser: {
		CapabilityCreateRequest,
		CapabilityReadOwnRequest,
	},
	RoleModerator: {
		CapabilityCreateRequest,
		CapabilityReadOwnRequest,
		CapabilityReviewRequests,
	},
}

// Can reports whether the role is granted the capability.
func (r UserRole) Can(capability Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == capability {
			return true
		}
	}
	return false
}

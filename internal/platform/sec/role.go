// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access, may manage other accounts
	RoleAdmin UserRole = "admin"

	// Can publish and manage their own product listings
	RoleSeller UserRole = "seller"

	// Default role for standard registered users
	RoleBuyer UserRole = "buyer"
)

// # Role Membership
//
// Roles are a flat set, not a hierarchy: an admin calling a buyer-only
// endpoint (wishlist, cart) is rejected just like an anonymous caller would
// be. Capability checks are strict membership tests.

// OneOf reports whether the role is a member of the allowed set.
func (r UserRole) OneOf(allowed ...UserRole) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// ParseRole validates a raw string against the known role set.
// The boolean result is false for anything outside {buyer, seller, admin}.
func ParseRole(raw string) (UserRole, bool) {
	switch UserRole(raw) {
	case RoleAdmin, RoleSeller, RoleBuyer:
		return UserRole(raw), true
	default:
		return "", false
	}
}

// # Account Status

// AccountStatus tracks the review state of an account. It is informational:
// the authentication gate does not enforce it.
type AccountStatus string

const (
	StatusPending   AccountStatus = "pending"
	StatusApproved  AccountStatus = "approved"
	StatusCancelled AccountStatus = "cancelled"
)

// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

/*
Package identity implements the user identity and session management layer.

It defines the core domain entity (User) and the logic for authentication,
authorization inputs, and account lifecycle.

# Architecture

This layer is the "Truth" of the system. The entity defined here has no
transport dependencies and encapsulates all business rules related to user
identity. Catalog and cart are collaborators: they consume the resolved
caller identity (id, role) and never see credential fields.
*/
package identity

import (
	"time"

	"github.com/phamquangminh/shoply/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Shoply storefront.
//
// PasswordHash and RefreshToken are credential fields: both are excluded
// from JSON so no handler can serialize them by accident.
type User struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	PasswordHash string            `json:"-"`
	Image        string            `json:"image,omitempty"`
	Role         sec.UserRole      `json:"role"`
	Status       sec.AccountStatus `json:"status"`

	// RefreshToken is the single session slot: the most recently issued
	// refresh token, or empty when logged out. At most one refresh token is
	// valid per account at any time.
	RefreshToken string `json:"-"`

	// Wishlist holds product IDs owned by the catalog collaborator. These are
	// foreign-key references, never embedded product records.
	Wishlist []string `json:"wishList"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Principal returns the sanitized caller view attached to request contexts.
func (u *User) Principal() *sec.Principal {
	return &sec.Principal{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Status: u.Status,
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the identity domain.
const (
	FieldName         = "name"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldRole         = "role"
	FieldUserID       = "userId"
	FieldProductID    = "productId"
	FieldRefreshToken = "refreshToken"
	FieldAccessToken  = "accessToken"
)

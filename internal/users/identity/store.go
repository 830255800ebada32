// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

/*
Data-access contract for the identity domain.

The service depends on this interface rather than a concrete database so the
business rules can be exercised against an in-memory double in tests while
production wires the Postgres implementation from store_postgres.go.
*/

package identity

import (
	"context"

	"github.com/phamquangminh/shoply/internal/platform/sec"
	"github.com/phamquangminh/shoply/pkg/pagination"
)

// UserRepository defines persistence operations for user accounts and their
// session slots.
type UserRepository interface {
	// Create persists a new account. A duplicate email surfaces as a
	// Conflict error.
	Create(ctx context.Context, u *User) error

	// GetByID fetches one account by primary key.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail fetches one account by its unique email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// List returns a page of accounts plus the total count.
	List(ctx context.Context, p pagination.Params) ([]User, int, error)

	// UpdateProfile persists name, email and image changes.
	UpdateProfile(ctx context.Context, u *User) error

	// UpdateRole sets the account role.
	UpdateRole(ctx context.Context, id string, role sec.UserRole) error

	// Delete removes the account row permanently.
	Delete(ctx context.Context, id string) error

	// # Session Slot

	// SetSessionToken unconditionally overwrites the refresh-token slot.
	// Used at login: a fresh login invalidates any previous session.
	SetSessionToken(ctx context.Context, id, token string) error

	// SwapSessionToken atomically replaces the slot only if it still holds
	// old. Returns false when the compare fails, which means the presented
	// token was already rotated or revoked.
	SwapSessionToken(ctx context.Context, id, old, new string) (bool, error)

	// ClearSessionToken empties the slot, ending the session.
	ClearSessionToken(ctx context.Context, id string) error

	// # Wishlist

	// AddWishlistItem appends productID to the wishlist if absent.
	AddWishlistItem(ctx context.Context, id, productID string) error

	// RemoveWishlistItem removes productID from the wishlist if present.
	RemoveWishlistItem(ctx context.Context, id, productID string) error
}

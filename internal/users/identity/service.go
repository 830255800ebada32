// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

/*
Identity use cases: registration, login, session rotation, account
administration, and wishlist membership.

Architecture:

  - Service: Orchestrates business logic over [UserRepository] and
    [SessionRegistry].
  - Repository: Abstracted interface backed by Postgres.
  - Security: bcrypt credential hashing and two HMAC token signing domains.
*/

package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/phamquangminh/shoply/internal/platform/apperr"
	"github.com/phamquangminh/shoply/internal/platform/sec"
	"github.com/phamquangminh/shoply/pkg/pagination"
	"github.com/phamquangminh/shoply/pkg/pointer"
	"github.com/phamquangminh/shoply/pkg/uuid"
)

// Service implements identity use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, login, or
// session rotation logic must be reviewed carefully.
type Service struct {
	users    UserRepository
	sessions *SessionRegistry
}

// NewService constructs the identity [Service] with its dependencies.
func NewService(users UserRepository, sessions *SessionRegistry) *Service {
	return &Service{users: users, sessions: sessions}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string // optional; defaults to buyer
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Emails are lowercased before the uniqueness check so the unique
index is effectively case-insensitive. Registration never opens a session;
the caller must log in afterwards.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Conflict (if the email exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// Verify email uniqueness. Return a client-safe Conflict err.
	if _, err := service.users.GetByEmail(context, email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	role := sec.RoleBuyer
	if input.Role != "" {
		parsed, ok := sec.ParseRole(input.Role)
		if !ok || parsed == sec.RoleAdmin {
			return nil, apperr.ValidationError("Role must be buyer or seller")
		}
		role = parsed
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("identity_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
		Status:       sec.StatusPending,
		Wishlist:     []string{},
	}

	if err := service.users.Create(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult represents a successfully established session.
type LoginResult struct {
	User   *User
	Tokens TokenPair
}

/*
Login validates user credentials and issues a fresh session.

Description: An unknown email is reported as NotFound while a wrong password
is an authentication failure; the session slot is untouched on either
failure. On success the slot is unconditionally overwritten, superseding any
session issued earlier.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: Transport-ready session credentials
  - error: apperr.NotFound, apperr.AuthInvalid, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := service.users.GetByEmail(context, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, err
	}

	// Constant-time comparison inside bcrypt prevents timing attacks.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.AuthInvalid()
	}

	tokens, err := service.sessions.Issue(context, user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: user, Tokens: tokens}, nil
}

/*
Logout ends the caller's session by emptying the slot.

Description: Idempotent. Works purely off the authenticated principal, so an
already-cleared slot is not an error.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Persistence failures
*/
func (service *Service) Logout(context context.Context, userID string) error {
	return service.sessions.Revoke(context, userID)
}

/*
Refresh rotates the presented refresh token for a new pair.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *LoginResult: The account plus replacement credentials
  - error: apperr.AuthExpired, apperr.AuthInvalid, or apperr.SessionRevoked
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*LoginResult, error) {
	user, tokens, err := service.sessions.Rotate(context, refreshToken)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Tokens: tokens}, nil
}

// # Account Management

// UpdateAccountInput carries the mutable profile fields. Nil means unchanged.
type UpdateAccountInput struct {
	Name  *string
	Email *string
}

/*
UpdateAccount modifies the caller's own name and email.

Description: Only the two profile fields move; role, status, wishlist, and
the session slot are never written by this path. Changing the email does not
end the session.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateAccountInput

Returns:
  - *User: Updated entity
  - error: apperr.NotFound, apperr.Conflict (email collision), or storage errors
*/
func (service *Service) UpdateAccount(context context.Context, userID string, input UpdateAccountInput) (*User, error) {
	user, err := service.users.GetByID(context, userID)
	if err != nil {
		return nil, err
	}

	// Stored values are already normalized, so re-normalizing the fallback
	// is a no-op for untouched fields.
	user.Name = strings.TrimSpace(pointer.Fallback(input.Name, user.Name))
	user.Email = strings.ToLower(strings.TrimSpace(pointer.Fallback(input.Email, user.Email)))

	if err := service.users.UpdateProfile(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

/*
GetCurrent loads the caller's own account.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: Hydrated entity
  - error: apperr.NotFound or storage errors
*/
func (service *Service) GetCurrent(context context.Context, userID string) (*User, error) {
	return service.users.GetByID(context, userID)
}

// # Administration

/*
ListUsers returns a page of all accounts. Admin-gated at the transport layer.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []User: Page of accounts
  - int: Total account count
  - error: Storage errors
*/
func (service *Service) ListUsers(context context.Context, params pagination.Params) ([]User, int, error) {
	return service.users.List(context, params)
}

/*
ChangeRole sets another account's role.

Parameters:
  - context: context.Context
  - userID: string
  - role: string (must parse to a known role)

Returns:
  - error: apperr.ValidationError on an unknown role, apperr.NotFound, or storage errors
*/
func (service *Service) ChangeRole(context context.Context, userID, role string) error {
	parsed, ok := sec.ParseRole(role)
	if !ok {
		return apperr.ValidationError("Role must be one of buyer, seller, admin")
	}
	return service.users.UpdateRole(context, userID, parsed)
}

/*
DeleteUser permanently removes an account. Admin-gated at the transport layer.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: apperr.NotFound or storage errors
*/
func (service *Service) DeleteUser(context context.Context, userID string) error {
	return service.users.Delete(context, userID)
}

// # Wishlist

/*
AddWishlist records a product reference on the caller's wishlist.

Description: Membership by product ID only. The dedicated store operation
touches just the wishlist column, so concurrent session rotation is never
disturbed by wishlist traffic.

Parameters:
  - context: context.Context
  - userID: string
  - productID: string

Returns:
  - error: apperr.NotFound or storage errors
*/
func (service *Service) AddWishlist(context context.Context, userID, productID string) error {
	return service.users.AddWishlistItem(context, userID, productID)
}

// RemoveWishlist drops a product reference from the caller's wishlist.
func (service *Service) RemoveWishlist(context context.Context, userID, productID string) error {
	return service.users.RemoveWishlistItem(context, userID, productID)
}

/*
Wishlist returns the caller's stored product references.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []string: Product IDs in insertion order
  - error: apperr.NotFound or storage errors
*/
func (service *Service) Wishlist(context context.Context, userID string) ([]string, error) {
	user, err := service.users.GetByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user.Wishlist, nil
}

// # Gate Integration

/*
ResolvePrincipal loads the sanitized caller identity for the authentication
gate.

Description: Role and status come from storage on every request, never from
token claims, so a role change takes effect on the holder's next request.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *sec.Principal: Sanitized caller view
  - error: apperr.NotFound when the account is gone
*/
func (service *Service) ResolvePrincipal(context context.Context, userID string) (*sec.Principal, error) {
	user, err := service.users.GetByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user.Principal(), nil
}

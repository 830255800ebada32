// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

/*
Session registry: single-slot refresh-token lifecycle.

Each account holds exactly one live refresh token. Issue overwrites the slot,
Rotate swaps it atomically, Revoke empties it. A refresh token that no longer
matches the slot is treated as evidence of replay and kills the session.
*/

package identity

import (
	"context"
	"errors"

	"github.com/phamquangminh/shoply/internal/platform/apperr"
	"github.com/phamquangminh/shoply/internal/platform/sec"
)

// TokenPair bundles the two credentials minted for a session.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// SessionRegistry manages the one-session-per-account refresh-token slot.
type SessionRegistry struct {
	tokens *sec.TokenService
	users  UserRepository
}

// NewSessionRegistry wires the token service and the account store together.
func NewSessionRegistry(tokens *sec.TokenService, users UserRepository) *SessionRegistry {
	return &SessionRegistry{tokens: tokens, users: users}
}

/*
Issue mints a fresh token pair for the user and stores the refresh token as
the account's only live session.

Description: Login semantics. Any previously issued refresh token becomes
invalid the moment the slot is overwritten, so logging in on a second device
silently ends the first device's session.

Parameters:
  - context: context.Context
  - user: *User (Authenticated account)

Returns:
  - TokenPair: Newly minted access and refresh tokens
  - error: Signing or persistence failures
*/
func (registry *SessionRegistry) Issue(context context.Context, user *User) (TokenPair, error) {
	pair, err := registry.mint(user)
	if err != nil {
		return TokenPair{}, err
	}

	if err := registry.users.SetSessionToken(context, user.ID, pair.RefreshToken); err != nil {
		return TokenPair{}, err
	}

	user.RefreshToken = pair.RefreshToken
	return pair, nil
}

/*
Rotate exchanges a presented refresh token for a brand-new pair.

Description: Verifies the token cryptographically, loads the account, then
performs a compare-and-set on the session slot. When two rotations race on
the same token, exactly one wins; the loser (and any replayed token) gets
SessionRevoked, which the transport layer renders identically to a plain
invalid-token failure.

Parameters:
  - context: context.Context
  - presented: string (Refresh token from the client)

Returns:
  - *User: The account the session belongs to
  - TokenPair: Replacement credentials
  - error: apperr.AuthExpired, apperr.AuthInvalid, or apperr.SessionRevoked
*/
func (registry *SessionRegistry) Rotate(context context.Context, presented string) (*User, TokenPair, error) {
	userID, err := registry.tokens.VerifyRefreshToken(presented)
	if err != nil {
		if errors.Is(err, sec.ErrTokenExpired) {
			return nil, TokenPair{}, apperr.AuthExpired()
		}
		return nil, TokenPair{}, apperr.AuthInvalid()
	}

	user, err := registry.users.GetByID(context, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, TokenPair{}, apperr.AuthInvalid()
		}
		return nil, TokenPair{}, err
	}

	pair, err := registry.mint(user)
	if err != nil {
		return nil, TokenPair{}, err
	}

	swapped, err := registry.users.SwapSessionToken(context, user.ID, presented, pair.RefreshToken)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if !swapped {
		// The slot moved on without us: either a concurrent rotation won the
		// race or this token was already spent. Both read as replay.
		return nil, TokenPair{}, apperr.SessionRevoked()
	}

	user.RefreshToken = pair.RefreshToken
	return user, pair, nil
}

/*
Revoke empties the session slot, ending the account's session.

Description: Logout semantics. Idempotent, so logging out twice is harmless.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Persistence failures
*/
func (registry *SessionRegistry) Revoke(context context.Context, userID string) error {
	return registry.users.ClearSessionToken(context, userID)
}

// mint signs a pair of tokens in the two independent signing domains.
func (registry *SessionRegistry) mint(user *User) (TokenPair, error) {
	access, err := registry.tokens.IssueAccessToken(user.ID, user.Email, user.Name)
	if err != nil {
		return TokenPair{}, apperr.Internal(err)
	}

	refresh, err := registry.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return TokenPair{}, apperr.Internal(err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

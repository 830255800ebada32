// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

package identity_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phamquangminh/shoply/internal/platform/apperr"
	"github.com/phamquangminh/shoply/internal/platform/sec"
	"github.com/phamquangminh/shoply/internal/users/identity"
	"github.com/phamquangminh/shoply/pkg/pagination"
	"github.com/phamquangminh/shoply/pkg/pointer"
	"github.com/phamquangminh/shoply/pkg/slice"
)

// memoryUserRepository is an in-memory [identity.UserRepository]. The mutex
// makes SwapSessionToken a true compare-and-set, which the concurrency tests
// below depend on.
type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*identity.User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]*identity.User)}
}

func (r *memoryUserRepository) Create(_ context.Context, u *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return apperr.Conflict("User already exists")
		}
	}
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *u
	return &clone, nil
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *memoryUserRepository) List(_ context.Context, p pagination.Params) ([]identity.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]identity.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, *u)
	}
	return all, len(all), nil
}

func (r *memoryUserRepository) UpdateProfile(_ context.Context, u *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[u.ID]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.Name = u.Name
	stored.Email = u.Email
	stored.Image = u.Image
	return nil
}

func (r *memoryUserRepository) UpdateRole(_ context.Context, id string, role sec.UserRole) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.Role = role
	return nil
}

func (r *memoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(r.users, id)
	return nil
}

func (r *memoryUserRepository) SetSessionToken(_ context.Context, id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.RefreshToken = token
	return nil
}

func (r *memoryUserRepository) SwapSessionToken(_ context.Context, id, old, new string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[id]
	if !ok {
		return false, nil
	}
	if stored.RefreshToken != old {
		return false, nil
	}
	stored.RefreshToken = new
	return true, nil
}

func (r *memoryUserRepository) ClearSessionToken(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.users[id]; ok {
		stored.RefreshToken = ""
	}
	return nil
}

func (r *memoryUserRepository) AddWishlistItem(_ context.Context, id, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	if !slice.Contains(stored.Wishlist, productID) {
		stored.Wishlist = append(stored.Wishlist, productID)
	}
	return nil
}

func (r *memoryUserRepository) RemoveWishlistItem(_ context.Context, id, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.Wishlist = slice.Filter(stored.Wishlist, func(s string) bool { return s != productID })
	return nil
}

// slot reads the current refresh-token slot directly, bypassing the service.
func (r *memoryUserRepository) slot(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u.RefreshToken
	}
	return ""
}

// # Test Harness

type fixture struct {
	repo    *memoryUserRepository
	service *identity.Service
}

func newFixture(t *testing.T, refreshTTL time.Duration) *fixture {
	t.Helper()
	tokens, err := sec.NewTokenService(
		"identity-access-secret", "identity-refresh-secret",
		15*time.Minute, refreshTTL, "shoply.app",
	)
	require.NoError(t, err)

	repo := newMemoryUserRepository()
	registry := identity.NewSessionRegistry(tokens, repo)
	return &fixture{
		repo:    repo,
		service: identity.NewService(repo, registry),
	}
}

func (f *fixture) register(t *testing.T, email string) *identity.User {
	t.Helper()
	user, err := f.service.Register(context.Background(), identity.RegisterInput{
		Name:     "Minh Pham",
		Email:    email,
		Password: "a-strong-password",
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) login(t *testing.T, email string) *identity.LoginResult {
	t.Helper()
	result, err := f.service.Login(context.Background(), identity.LoginInput{
		Email:    email,
		Password: "a-strong-password",
	})
	require.NoError(t, err)
	return result
}

// # Registration

/*
TestService_Register covers defaults, normalization, and conflicts.
*/
func TestService_Register(t *testing.T) {
	f := newFixture(t, 24*time.Hour)
	ctx := context.Background()

	t.Run("defaults_to_buyer", func(t *testing.T) {
		user := f.register(t, "Buyer@Shoply.App")
		assert.Equal(t, sec.RoleBuyer, user.Role)
		assert.Equal(t, sec.StatusPending, user.Status)
		// Email is lowercased before storage
		assert.Equal(t, "buyer@shoply.app", user.Email)
		// No session opened by registration
		assert.Empty(t, f.repo.slot(user.ID))
	})

	t.Run("duplicate_email_conflicts", func(t *testing.T) {
		_, err := f.service.Register(ctx, identity.RegisterInput{
			Name: "Other", Email: "buyer@shoply.app", Password: "another-password",
		})
		assert.True(t, apperr.IsCode(err, "CONFLICT"))
	})

	t.Run("seller_role_accepted", func(t *testing.T) {
		user, err := f.service.Register(ctx, identity.RegisterInput{
			Name: "Seller", Email: "seller@shoply.app", Password: "a-strong-password", Role: "seller",
		})
		require.NoError(t, err)
		assert.Equal(t, sec.RoleSeller, user.Role)
	})

	t.Run("admin_role_rejected", func(t *testing.T) {
		_, err := f.service.Register(ctx, identity.RegisterInput{
			Name: "Mallory", Email: "mallory@shoply.app", Password: "a-strong-password", Role: "admin",
		})
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})
}

// # Login

/*
TestService_Login covers the credential failure taxonomy and slot behavior.
*/
func TestService_Login(t *testing.T) {
	f := newFixture(t, 24*time.Hour)
	ctx := context.Background()
	user := f.register(t, "minh@shoply.app")

	t.Run("unknown_email_is_not_found", func(t *testing.T) {
		_, err := f.service.Login(ctx, identity.LoginInput{
			Email: "nobody@shoply.app", Password: "whatever",
		})
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("wrong_password_is_auth_invalid_and_slot_untouched", func(t *testing.T) {
		_, err := f.service.Login(ctx, identity.LoginInput{
			Email: "minh@shoply.app", Password: "wrong",
		})
		assert.True(t, apperr.IsCode(err, "AUTH_INVALID"))
		assert.Empty(t, f.repo.slot(user.ID))
	})

	t.Run("success_fills_slot", func(t *testing.T) {
		result := f.login(t, "minh@shoply.app")
		assert.NotEmpty(t, result.Tokens.AccessToken)
		assert.NotEmpty(t, result.Tokens.RefreshToken)
		assert.Equal(t, result.Tokens.RefreshToken, f.repo.slot(user.ID))
	})

	t.Run("second_login_supersedes_first", func(t *testing.T) {
		first := f.login(t, "minh@shoply.app")
		second := f.login(t, "minh@shoply.app")
		assert.Equal(t, second.Tokens.RefreshToken, f.repo.slot(user.ID))

		// The superseded token is cryptographically valid but no longer current
		_, err := f.service.Refresh(ctx, first.Tokens.RefreshToken)
		assert.True(t, apperr.IsCode(err, "SESSION_REVOKED"))
	})
}

// # Session Rotation

/*
TestService_Refresh covers rotation, replay detection, and the expiry path.
*/
func TestService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("rotation_replaces_slot", func(t *testing.T) {
		f := newFixture(t, 24*time.Hour)
		user := f.register(t, "minh@shoply.app")
		session := f.login(t, "minh@shoply.app")

		rotated, err := f.service.Refresh(ctx, session.Tokens.RefreshToken)
		require.NoError(t, err)
		assert.NotEqual(t, session.Tokens.RefreshToken, rotated.Tokens.RefreshToken)
		assert.Equal(t, rotated.Tokens.RefreshToken, f.repo.slot(user.ID))
	})

	t.Run("replayed_token_is_session_revoked", func(t *testing.T) {
		f := newFixture(t, 24*time.Hour)
		f.register(t, "minh@shoply.app")
		session := f.login(t, "minh@shoply.app")

		_, err := f.service.Refresh(ctx, session.Tokens.RefreshToken)
		require.NoError(t, err)

		// Presenting the spent token again reads as replay
		_, err = f.service.Refresh(ctx, session.Tokens.RefreshToken)
		assert.True(t, apperr.IsCode(err, "SESSION_REVOKED"))
	})

	t.Run("revoked_serializes_like_plain_invalid", func(t *testing.T) {
		// The two failures stay internally distinct but share one client message.
		assert.Equal(t, apperr.AuthInvalid().Message, apperr.SessionRevoked().Message)
		assert.NotEqual(t, apperr.AuthInvalid().Code, apperr.SessionRevoked().Code)
	})

	t.Run("garbage_token_is_auth_invalid", func(t *testing.T) {
		f := newFixture(t, 24*time.Hour)
		_, err := f.service.Refresh(ctx, "not-a-jwt")
		assert.True(t, apperr.IsCode(err, "AUTH_INVALID"))
	})

	t.Run("expired_token_is_auth_expired", func(t *testing.T) {
		f := newFixture(t, -time.Minute)
		f.register(t, "minh@shoply.app")
		session := f.login(t, "minh@shoply.app")

		_, err := f.service.Refresh(ctx, session.Tokens.RefreshToken)
		assert.True(t, apperr.IsCode(err, "AUTH_EXPIRED"))
	})

	t.Run("logout_then_refresh_is_session_revoked", func(t *testing.T) {
		f := newFixture(t, 24*time.Hour)
		user := f.register(t, "minh@shoply.app")
		session := f.login(t, "minh@shoply.app")

		require.NoError(t, f.service.Logout(ctx, user.ID))
		assert.Empty(t, f.repo.slot(user.ID))

		_, err := f.service.Refresh(ctx, session.Tokens.RefreshToken)
		assert.True(t, apperr.IsCode(err, "SESSION_REVOKED"))

		// Logout is idempotent
		assert.NoError(t, f.service.Logout(ctx, user.ID))
	})
}

/*
TestService_ConcurrentRotation stresses the compare-and-set: many rotations
racing on one token must yield exactly one winner.
*/
func TestService_ConcurrentRotation(t *testing.T) {
	f := newFixture(t, 24*time.Hour)
	f.register(t, "minh@shoply.app")
	session := f.login(t, "minh@shoply.app")

	const attempts = 32
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.Refresh(context.Background(), session.Tokens.RefreshToken)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.True(t, apperr.IsCode(err, "SESSION_REVOKED"))
		}
	}
	assert.Equal(t, 1, winners)
}

// # Account & Administration

/*
TestService_UpdateAccount verifies the profile update path leaves the
session slot and role alone.
*/
func TestService_UpdateAccount(t *testing.T) {
	f := newFixture(t, 24*time.Hour)
	ctx := context.Background()
	user := f.register(t, "minh@shoply.app")
	session := f.login(t, "minh@shoply.app")

	updated, err := f.service.UpdateAccount(ctx, user.ID, identity.UpdateAccountInput{
		Name:  pointer.To("Minh P."),
		Email: pointer.To("Minh.New@Shoply.App"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Minh P.", updated.Name)
	assert.Equal(t, "minh.new@shoply.app", updated.Email)

	// Nil fields are left untouched
	updated, err = f.service.UpdateAccount(ctx, user.ID, identity.UpdateAccountInput{
		Name: pointer.To("Minh Q."),
	})
	require.NoError(t, err)
	assert.Equal(t, "Minh Q.", updated.Name)
	assert.Equal(t, "minh.new@shoply.app", updated.Email)

	// Session survives the email change
	assert.Equal(t, session.Tokens.RefreshToken, f.repo.slot(user.ID))
	_, err = f.service.Refresh(ctx, session.Tokens.RefreshToken)
	assert.NoError(t, err)
}

/*
TestService_ChangeRole verifies enum validation and immediate effect via
principal resolution.
*/
func TestService_ChangeRole(t *testing.T) {
	f := newFixture(t, 24*time.Hour)
	ctx := context.Background()
	user := f.register(t, "minh@shoply.app")

	t.Run("unknown_role_rejected", func(t *testing.T) {
		err := f.service.ChangeRole(ctx, user.ID, "superuser")
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("missing_user_not_found", func(t *testing.T) {
		err := f.service.ChangeRole(ctx, "no-such-id", "seller")
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("role_change_visible_on_next_resolution", func(t *testing.T) {
		require.NoError(t, f.service.ChangeRole(ctx, user.ID, "seller"))

		principal, err := f.service.ResolvePrincipal(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, sec.RoleSeller, principal.Role)
	})
}

// # Wishlist

/*
TestService_Wishlist verifies membership semantics and that wishlist writes
never disturb the session slot.
*/
func TestService_Wishlist(t *testing.T) {
	f := newFixture(t, 24*time.Hour)
	ctx := context.Background()
	user := f.register(t, "minh@shoply.app")
	session := f.login(t, "minh@shoply.app")

	require.NoError(t, f.service.AddWishlist(ctx, user.ID, "prod-1"))
	require.NoError(t, f.service.AddWishlist(ctx, user.ID, "prod-2"))
	// Re-adding is idempotent
	require.NoError(t, f.service.AddWishlist(ctx, user.ID, "prod-1"))

	ids, err := f.service.Wishlist(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"prod-1", "prod-2"}, ids)

	require.NoError(t, f.service.RemoveWishlist(ctx, user.ID, "prod-1"))
	ids, err = f.service.Wishlist(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"prod-2"}, ids)

	// The session slot never moved
	assert.Equal(t, session.Tokens.RefreshToken, f.repo.slot(user.ID))
}

/*
TestService_ResolvePrincipal verifies sanitization: no credential material on
the principal.
*/
func TestService_ResolvePrincipal(t *testing.T) {
	f := newFixture(t, 24*time.Hour)
	ctx := context.Background()
	user := f.register(t, "minh@shoply.app")

	principal, err := f.service.ResolvePrincipal(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.ID)
	assert.Equal(t, user.Email, principal.Email)

	_, err = f.service.ResolvePrincipal(ctx, "gone")
	assert.True(t, apperr.IsNotFound(err))
}

// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phamquangminh/shoply/internal/platform/sec"
)

func newTokenService(t *testing.T, accessTTL, refreshTTL time.Duration) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService(
		"access-secret-for-tests", "refresh-secret-for-tests",
		accessTTL, refreshTTL, "shoply.app",
	)
	require.NoError(t, err)
	return service
}

/*
TestTokenService_Constructor verifies the signing-domain guardrails.
*/
func TestTokenService_Constructor(t *testing.T) {
	t.Run("rejects_empty_secret", func(t *testing.T) {
		_, err := sec.NewTokenService("", "refresh", time.Minute, time.Hour, "shoply.app")
		assert.Error(t, err)
	})

	t.Run("rejects_shared_secret", func(t *testing.T) {
		_, err := sec.NewTokenService("same", "same", time.Minute, time.Hour, "shoply.app")
		assert.Error(t, err)
	})

	t.Run("accepts_distinct_secrets", func(t *testing.T) {
		service, err := sec.NewTokenService("a-secret", "b-secret", time.Minute, time.Hour, "shoply.app")
		require.NoError(t, err)
		assert.Equal(t, time.Minute, service.AccessTTL())
		assert.Equal(t, time.Hour, service.RefreshTTL())
	})
}

/*
TestTokenService_AccessRoundTrip verifies issuance and verification of
access tokens, including the identity claims.
*/
func TestTokenService_AccessRoundTrip(t *testing.T) {
	service := newTokenService(t, 15*time.Minute, 24*time.Hour)

	token, err := service.IssueAccessToken("user-1", "minh@shoply.app", "Minh Pham")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "minh@shoply.app", claims.Email)
	assert.Equal(t, "Minh Pham", claims.Name)
	assert.Equal(t, "shoply.app", claims.Issuer)
}

/*
TestTokenService_RefreshRoundTrip verifies that refresh tokens carry only the
subject and verify in their own domain.
*/
func TestTokenService_RefreshRoundTrip(t *testing.T) {
	service := newTokenService(t, 15*time.Minute, 24*time.Hour)

	token, err := service.IssueRefreshToken("user-1")
	require.NoError(t, err)

	subject, err := service.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
}

/*
TestTokenService_DistinctIssuance verifies that back-to-back issuance for the
same subject always produces distinct tokens. Session rotation compares the
stored token byte-for-byte against the presented one, so two mints landing in
the same clock second must still differ; otherwise a rotation would swap a
token for itself and the spent token would stay current.
*/
func TestTokenService_DistinctIssuance(t *testing.T) {
	service := newTokenService(t, 15*time.Minute, 24*time.Hour)

	t.Run("refresh_tokens", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			token, err := service.IssueRefreshToken("user-1")
			require.NoError(t, err)
			assert.False(t, seen[token], "duplicate refresh token minted")
			seen[token] = true
		}
	})

	t.Run("access_tokens", func(t *testing.T) {
		first, err := service.IssueAccessToken("user-1", "minh@shoply.app", "Minh")
		require.NoError(t, err)
		second, err := service.IssueAccessToken("user-1", "minh@shoply.app", "Minh")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}

/*
TestTokenService_DomainSeparation verifies that a token signed in one domain
never verifies in the other.
*/
func TestTokenService_DomainSeparation(t *testing.T) {
	service := newTokenService(t, 15*time.Minute, 24*time.Hour)

	access, err := service.IssueAccessToken("user-1", "minh@shoply.app", "Minh")
	require.NoError(t, err)
	refresh, err := service.IssueRefreshToken("user-1")
	require.NoError(t, err)

	// Refresh token in the access verifier
	_, err = service.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, sec.ErrTokenInvalid)

	// Access token in the refresh verifier
	_, err = service.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, sec.ErrTokenInvalid)
}

/*
TestTokenService_Expiry verifies that an expired token maps to the dedicated
sentinel rather than the generic invalid error.
*/
func TestTokenService_Expiry(t *testing.T) {
	service := newTokenService(t, -time.Minute, -time.Minute)

	access, err := service.IssueAccessToken("user-1", "minh@shoply.app", "Minh")
	require.NoError(t, err)
	_, err = service.VerifyAccessToken(access)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)

	refresh, err := service.IssueRefreshToken("user-1")
	require.NoError(t, err)
	_, err = service.VerifyRefreshToken(refresh)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
}

/*
TestTokenService_Tampered verifies that a modified payload fails signature
verification.
*/
func TestTokenService_Tampered(t *testing.T) {
	service := newTokenService(t, 15*time.Minute, 24*time.Hour)

	token, err := service.IssueAccessToken("user-1", "minh@shoply.app", "Minh")
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "xxxx"
	_, err = service.VerifyAccessToken(tampered)
	assert.ErrorIs(t, err, sec.ErrTokenInvalid)
}

/*
TestTokenService_Garbage verifies that structurally invalid strings are
rejected cleanly.
*/
func TestTokenService_Garbage(t *testing.T) {
	service := newTokenService(t, 15*time.Minute, 24*time.Hour)

	for _, input := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := service.VerifyAccessToken(input)
		assert.ErrorIs(t, err, sec.ErrTokenInvalid)

		_, err = service.VerifyRefreshToken(input)
		assert.ErrorIs(t, err, sec.ErrTokenInvalid)
	}
}

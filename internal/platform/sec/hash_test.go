// Copyright (c) 2026 Shoply. All rights reserved.
// Author: minh.phamquang.vn@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phamquangminh/shoply/internal/platform/sec"
)

/*
TestHashPassword verifies the bcrypt round trip and that mismatches are a
boolean result, not an error.
*/
func TestHashPassword(t *testing.T) {
	hash, err := sec.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	// The hash never equals the plaintext
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, sec.CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, sec.CheckPasswordHash("wrong password", hash))
	assert.False(t, sec.CheckPasswordHash("", hash))
}

/*
TestHashPassword_Salted verifies that hashing the same input twice yields
different hashes.
*/
func TestHashPassword_Salted(t *testing.T) {
	first, err := sec.HashPassword("same input")
	require.NoError(t, err)
	second, err := sec.HashPassword("same input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, sec.CheckPasswordHash("same input", first))
	assert.True(t, sec.CheckPasswordHash("same input", second))
}

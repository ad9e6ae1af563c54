// File: internal/common/password_test.go
package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, CheckPasswordHash("wrong password", hash))

	again, err := HashPassword("correct horse battery staple", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "each hash carries its own salt")
	assert.True(t, CheckPasswordHash("correct horse battery staple", again))
}

func TestHashPassword_DefaultCost(t *testing.T) {
	hash, err := HashPassword("password123", 0)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestHashPassword_RejectsOverlongInput(t *testing.T) {
	long := strings.Repeat("a", 73)
	_, err := HashPassword(long, bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	exact := strings.Repeat("a", 72)
	_, err = HashPassword(exact, bcrypt.MinCost)
	assert.NoError(t, err)
}

func TestCheckPasswordHash_MalformedDigest(t *testing.T) {
	assert.False(t, CheckPasswordHash("password123", "not-a-bcrypt-digest"))
	assert.False(t, CheckPasswordHash("password123", ""))
}

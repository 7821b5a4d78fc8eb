package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("hashes and verifies", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery staple")
		require.NoError(t, err)
		assert.NotEqual(t, "correct horse battery staple", hash)
		assert.NoError(t, VerifyPassword(hash, "correct horse battery staple"))
	})

	t.Run("rejects a short password", func(t *testing.T) {
		_, err := HashPassword("short")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("rejects a password past the bcrypt limit", func(t *testing.T) {
		_, err := HashPassword(strings.Repeat("x", MaxPasswordLen+1))
		assert.ErrorIs(t, err, ErrPasswordTooLong)
	})

	t.Run("hashes are salted", func(t *testing.T) {
		a, err := HashPassword("correct horse battery staple")
		require.NoError(t, err)
		b, err := HashPassword("correct horse battery staple")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	t.Run("wrong password fails", func(t *testing.T) {
		assert.ErrorIs(t, VerifyPassword(hash, "wrong password"), ErrWrongPassword)
	})

	t.Run("garbage hash fails", func(t *testing.T) {
		assert.ErrorIs(t, VerifyPassword("not-a-hash", "anything at all"), ErrWrongPassword)
	})
}

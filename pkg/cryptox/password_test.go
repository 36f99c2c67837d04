package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotContains(t, hash, "correct horse")

	require.NoError(t, VerifyPassword("correct horse battery staple", hash))
	require.ErrorIs(t, VerifyPassword("wrong", hash), ErrPasswordMismatch)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	t.Parallel()

	// Garbage hashes report the same mismatch as wrong passwords.
	require.ErrorIs(t, VerifyPassword("anything", "not-a-bcrypt-hash"), ErrPasswordMismatch)
	require.ErrorIs(t, VerifyPassword("anything", ""), ErrPasswordMismatch)
}

func TestHashPasswordSalted(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("same password")
	require.NoError(t, err)
	b, err := HashPassword("same password")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

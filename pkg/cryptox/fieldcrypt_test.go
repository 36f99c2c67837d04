package cryptox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeeperRoundTrip(t *testing.T) {
	t.Parallel()

	keeper, err := NewKeeper([]byte("unit-test-key"))
	require.NoError(t, err)

	for _, plaintext := range []string{"Jane Doe", "", "04 1234 5678", "üñïçødé"} {
		token, err := keeper.Seal(plaintext)
		require.NoError(t, err)

		got, err := keeper.Open(token)
		require.NoError(t, err)
		require.Equal(t, plaintext, got)
	}
}

func TestKeeperNonDeterministicCiphertext(t *testing.T) {
	t.Parallel()

	keeper, err := NewKeeper([]byte("unit-test-key"))
	require.NoError(t, err)

	a, err := keeper.Seal("Jane Doe")
	require.NoError(t, err)
	b, err := keeper.Seal("Jane Doe")
	require.NoError(t, err)

	// Fresh nonce per call: tokens differ, plaintexts agree.
	require.NotEqual(t, a, b)

	pa, err := keeper.Open(a)
	require.NoError(t, err)
	pb, err := keeper.Open(b)
	require.NoError(t, err)
	require.Equal(t, pa, pb)
}

func TestKeeperOpenFailures(t *testing.T) {
	t.Parallel()

	keeper, err := NewKeeper([]byte("unit-test-key"))
	require.NoError(t, err)

	t.Run("tampered token", func(t *testing.T) {
		token, err := keeper.Seal("Jane Doe")
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)
		raw[len(raw)-1] ^= 0xff
		tampered := base64.RawURLEncoding.EncodeToString(raw)

		got, err := keeper.Open(tampered)
		require.ErrorIs(t, err, ErrDecrypt)
		require.Empty(t, got)
	})

	t.Run("foreign key", func(t *testing.T) {
		other, err := NewKeeper([]byte("a-different-key"))
		require.NoError(t, err)

		token, err := other.Seal("Jane Doe")
		require.NoError(t, err)

		got, err := keeper.Open(token)
		require.ErrorIs(t, err, ErrDecrypt)
		require.Empty(t, got)
	})

	t.Run("garbage input", func(t *testing.T) {
		for _, token := range []string{"", "not base64!!", "c2hvcnQ"} {
			_, err := keeper.Open(token)
			require.ErrorIs(t, err, ErrDecrypt, "token %q", token)
		}
	})
}

func TestNewKeeperFromFile(t *testing.T) {
	t.Parallel()

	path := t.TempDir() + "/field.key"

	// First call generates the key file, second call reuses it.
	first, err := NewKeeperFromFile(path)
	require.NoError(t, err)
	second, err := NewKeeperFromFile(path)
	require.NoError(t, err)

	token, err := first.Seal("persisted")
	require.NoError(t, err)
	got, err := second.Open(token)
	require.NoError(t, err)
	require.Equal(t, "persisted", got)
}

func TestNewKeeperEmptyKey(t *testing.T) {
	t.Parallel()

	_, err := NewKeeper(nil)
	require.Error(t, err)
}

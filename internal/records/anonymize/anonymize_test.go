package anonymize

import (
	"testing"

	"github.com/oakfieldhealth/wardgate/internal/records/domain"
	"github.com/oakfieldhealth/wardgate/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newTestAnonymizer(t *testing.T, key string) *Anonymizer {
	t.Helper()
	keeper, err := cryptox.NewKeeper([]byte(key))
	require.NoError(t, err)
	return New(keeper)
}

func TestPseudonymizeRoundTrip(t *testing.T) {
	t.Parallel()

	a := newTestAnonymizer(t, "test-key")

	token, err := a.Pseudonymize("Jane Doe")
	require.NoError(t, err)
	require.NotEqual(t, "Jane Doe", token)

	got, err := a.Recover(token)
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", got)
}

func TestRecoverFailsClosed(t *testing.T) {
	t.Parallel()

	a := newTestAnonymizer(t, "test-key")
	other := newTestAnonymizer(t, "other-key")

	foreign, err := other.Pseudonymize("Jane Doe")
	require.NoError(t, err)

	for _, token := range []string{foreign, "garbage", ""} {
		got, err := a.Recover(token)
		require.ErrorIs(t, err, domain.ErrDecryptionFailure, "token %q", token)
		require.Empty(t, got)
	}
}

func TestDisplayMasksAreDeterministic(t *testing.T) {
	t.Parallel()

	a := newTestAnonymizer(t, "test-key")

	require.Equal(t, a.MaskName("Jane Doe"), a.MaskName("Jane Doe"))
	require.Equal(t, a.MaskContact("04 1234 5678"), a.MaskContact("04 1234 5678"))
	require.Equal(t, "Respiratory", a.MaskDiagnosis("Asthma (mild)"))
}

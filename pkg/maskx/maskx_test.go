package maskx

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "J. D.", Name("Jane Doe"))
	require.Equal(t, "J. v. D.", Name("Jane van Doe"))
	require.Equal(t, "a.", Name("alice"))
	require.Equal(t, "", Name("   "))
	require.Equal(t, "", Name(""))

	// Deterministic: same input, same mask.
	require.Equal(t, Name("Jane Doe"), Name("Jane Doe"))
}

func TestContact(t *testing.T) {
	t.Parallel()

	t.Run("masks the middle, keeps the lead and last four", func(t *testing.T) {
		require.Equal(t, "0X XXXX 5678", Contact("04 1234 5678"))
		require.Equal(t, "5XX-XXX-4321", Contact("555-123-4321"))
		require.Equal(t, "+6X XXX XX0 000", Contact("+61 400 000 000"))
	})

	t.Run("preserves length", func(t *testing.T) {
		for _, in := range []string{"04 1234 5678", "+61 400 000 000", "5551234"} {
			require.Len(t, []rune(Contact(in)), len([]rune(in)))
		}
	})

	t.Run("short values reveal nothing", func(t *testing.T) {
		// Five digits or fewer would leave no middle to mask, so the lead
		// and tail are not preserved either.
		for _, in := range []string{"1234", "12345"} {
			for _, r := range Contact(in) {
				if unicode.IsDigit(r) {
					t.Fatalf("short contact %q leaked a digit as %q", in, Contact(in))
				}
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		require.Equal(t, Contact("04 1234 5678"), Contact("04 1234 5678"))
	})
}

func TestDiagnosisCategory(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Type 2 Diabetes":             "Endocrine",
		"hypertension, stage 1":       "Cardiovascular",
		"Asthma (mild)":               "Respiratory",
		"Migraine with aura":          "Neurological",
		"femur fracture":              "Musculoskeletal",
		"COVID-19":                    "Infectious",
		"generalised anxiety":         "Mental Health",
		"completely novel condition":  "General",
		"":                            "General",
	}
	for in, want := range cases {
		require.Equal(t, want, DiagnosisCategory(in), "input %q", in)
	}

	// The category must never contain the raw text.
	require.NotContains(t, DiagnosisCategory("Type 2 Diabetes"), "Diabetes")
}

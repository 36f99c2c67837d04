package policy

import (
	"testing"

	"github.com/oakfieldhealth/wardgate/internal/records/domain"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	t.Parallel()

	t.Run("admin holds full access on every class", func(t *testing.T) {
		for _, class := range []DataClass{ClassIdentity, ClassClinical, ClassAuditTrail, ClassPatientWrite, ClassRecovery} {
			require.Equal(t, ViewFull, Decide(domain.RoleAdmin, class), class.String())
		}
	})

	t.Run("doctor sees anonymized identity and clinical data only", func(t *testing.T) {
		require.Equal(t, ViewAnonymized, Decide(domain.RoleDoctor, ClassIdentity))
		require.Equal(t, ViewAnonymized, Decide(domain.RoleDoctor, ClassClinical))
		require.Equal(t, ViewDenied, Decide(domain.RoleDoctor, ClassAuditTrail))
		require.Equal(t, ViewDenied, Decide(domain.RoleDoctor, ClassPatientWrite))
		require.Equal(t, ViewDenied, Decide(domain.RoleDoctor, ClassRecovery))
	})

	t.Run("receptionist writes demographics but never reads diagnoses", func(t *testing.T) {
		require.Equal(t, ViewFull, Decide(domain.RoleReceptionist, ClassIdentity))
		require.Equal(t, ViewFull, Decide(domain.RoleReceptionist, ClassPatientWrite))
		require.Equal(t, ViewDenied, Decide(domain.RoleReceptionist, ClassClinical))
		require.Equal(t, ViewDenied, Decide(domain.RoleReceptionist, ClassAuditTrail))
		require.Equal(t, ViewDenied, Decide(domain.RoleReceptionist, ClassRecovery))
	})

	t.Run("unknown pairs fail closed", func(t *testing.T) {
		roles := []string{"", "nurse", "superadmin", "ADMIN", domain.RoleAdmin + " "}
		classes := []DataClass{ClassIdentity, ClassClinical, ClassAuditTrail, ClassPatientWrite, DataClass(42), DataClass(-1)}
		for _, role := range roles {
			for _, class := range classes {
				require.Equal(t, ViewDenied, Decide(role, class),
					"role=%q class=%v must be denied", role, class)
			}
		}
		// Classes outside the enum are denied for known roles too.
		require.Equal(t, ViewDenied, Decide(domain.RoleAdmin, DataClass(99)))
	})
}

func TestViewLevelString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "full", ViewFull.String())
	require.Equal(t, "anonymized", ViewAnonymized.String())
	require.Equal(t, "denied", ViewDenied.String())
	require.Equal(t, "denied", ViewLevel(7).String())
}

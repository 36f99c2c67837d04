package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oakfieldhealth/wardgate/internal/records/domain"
)

// seedAgedPatient inserts a record whose created_at lies age in the past so
// the sweeper considers it expired.
func seedAgedPatient(t *testing.T, f *gateFixture, age time.Duration) string {
	t.Helper()
	p, err := f.gate.buildPatient(samplePatient())
	require.NoError(t, err)
	p.CreatedAt = f.clock.Now().Add(-age)
	require.NoError(t, f.store.Patients().CreatePatient(context.Background(), p))
	return p.ID
}

func TestSweep(t *testing.T) {
	t.Run("threshold below the floor is rejected", func(t *testing.T) {
		f := newGateFixture(t)
		admin := f.login(t, "admin", "admin123")

		_, err := f.gate.Sweep(context.Background(), admin, 7, 0)
		require.True(t, domain.IsValidation(err))

		entries := f.lastAudit(t, 1)
		require.Equal(t, domain.ActionRetentionSweep, entries[0].Action)
		require.Equal(t, domain.OutcomeFailure, entries[0].Outcome)
	})

	t.Run("non-admin roles are denied", func(t *testing.T) {
		f := newGateFixture(t)
		recep := f.login(t, "alice_recep", "rec123")

		_, err := f.gate.Sweep(context.Background(), recep, 365, 0)
		require.ErrorIs(t, err, domain.ErrDenied)
	})

	t.Run("expired records are purged and the purge is on the trail", func(t *testing.T) {
		f := newGateFixture(t)
		recep := f.login(t, "alice_recep", "rec123")
		admin := f.login(t, "admin", "admin123")

		seedAgedPatient(t, f, 400*24*time.Hour)
		fresh := samplePatient()
		fresh.Name = "Tom Atkins"
		kept, err := f.gate.CreatePatient(context.Background(), recep, fresh)
		require.NoError(t, err)

		res, err := f.gate.Sweep(context.Background(), admin, 365, 0)
		require.NoError(t, err)
		require.EqualValues(t, 1, res.PatientsPurged)

		patients, err := f.store.Patients().ListPatients(context.Background())
		require.NoError(t, err)
		require.Len(t, patients, 1)
		require.Equal(t, kept.ID, patients[0].ID)

		entries, err := f.store.Audit().List(context.Background(), domain.AuditFilter{Action: domain.ActionRetentionSweep})
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		require.Contains(t, entries[0].Detail, "purged 1 patient records")
		require.Equal(t, domain.RoleAdmin, entries[0].ActorRole)
	})

	t.Run("a pass with nothing to purge stays off the trail", func(t *testing.T) {
		f := newGateFixture(t)

		res, err := sweep(context.Background(), f.store, nil, domain.SystemActor, "", 365, 730, f.clock.Now())
		require.NoError(t, err)
		require.EqualValues(t, 0, res.PatientsPurged)
		require.EqualValues(t, 0, res.AuditPurged)

		entries, err := f.store.Audit().List(context.Background(), domain.AuditFilter{Action: domain.ActionRetentionSweep})
		require.NoError(t, err)
		require.Empty(t, entries)
	})

	t.Run("background sweeper attributes purges to the system actor", func(t *testing.T) {
		f := newGateFixture(t)
		seedAgedPatient(t, f, 400*24*time.Hour)

		res, err := sweep(context.Background(), f.store, nil, domain.SystemActor, "", 365, 730, f.clock.Now())
		require.NoError(t, err)
		require.EqualValues(t, 1, res.PatientsPurged)

		entries, err := f.store.Audit().List(context.Background(), domain.AuditFilter{Action: domain.ActionRetentionSweep})
		require.NoError(t, err)
		require.Equal(t, domain.SystemActor, entries[0].ActorID)
	})

	t.Run("audit purge logs itself before deleting", func(t *testing.T) {
		f := newGateFixture(t)

		stale := domain.AuditEntry{
			ID:         "01ARZ3NDEKTSV4RRFFQ69G5FAV",
			OccurredAt: f.clock.Now().Add(-800 * 24 * time.Hour),
			ActorID:    domain.SystemActor,
			Action:     domain.ActionLogin,
			Outcome:    domain.OutcomeSuccess,
		}
		require.NoError(t, f.store.Audit().Append(context.Background(), stale))

		res, err := sweep(context.Background(), f.store, nil, domain.SystemActor, "", 365, 730, f.clock.Now())
		require.NoError(t, err)
		require.EqualValues(t, 1, res.AuditPurged)

		// The stale entry is gone; the entry describing the purge survives.
		entries, err := f.store.Audit().List(context.Background(), domain.AuditFilter{})
		require.NoError(t, err)
		for _, e := range entries {
			require.NotEqual(t, stale.ID, e.ID)
		}
		found := false
		for _, e := range entries {
			if e.Action == domain.ActionRetentionSweep {
				found = true
			}
		}
		require.True(t, found)
	})
}

func TestRetentionServiceLifecycle(t *testing.T) {
	f := newGateFixture(t)
	logger := f.gate.logger

	seedAgedPatient(t, f, 400*24*time.Hour)

	svc := NewRetentionService(f.store, logger, nil, time.Hour, 365, 730)
	svc.Start()
	svc.Stop()

	// The startup pass ran, purged the expired record and logged itself.
	entries, err := f.store.Audit().List(context.Background(), domain.AuditFilter{Action: domain.ActionRetentionSweep})
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	require.Equal(t, domain.SystemActor, entries[0].ActorID)
}

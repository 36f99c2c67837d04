package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oakfieldhealth/wardgate/internal/records/domain"
	"github.com/oakfieldhealth/wardgate/internal/records/store"
	"github.com/oakfieldhealth/wardgate/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedRoleAndUser(t *testing.T, s *Store, roleName, username string) domain.User {
	t.Helper()
	ctx := context.Background()

	role, err := s.Roles().GetRoleByName(ctx, roleName)
	if errors.Is(err, store.ErrNotFound) {
		role = domain.Role{ID: idx.New().String(), Name: roleName}
		require.NoError(t, s.Roles().CreateRole(ctx, role))
	} else {
		require.NoError(t, err)
	}

	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: "$2a$10$placeholderplaceholderplaceplaceholderplaceholder1234",
		RoleID:       role.ID,
	}
	require.NoError(t, s.Users().CreateUser(ctx, user))
	return user
}

func testPatient(attending *string) domain.Patient {
	return domain.Patient{
		ID:            idx.New().String(),
		Name:          "Jane Doe",
		Contact:       "04 1234 5678",
		Diagnosis:     "Asthma",
		NameCipher:    "cipher-a",
		ContactCipher: "cipher-b",
		AttendingID:   attending,
	}
}

func TestUsersRepo(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	user := seedRoleAndUser(t, s, domain.RoleAdmin, "admin")

	got, err := s.Users().GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.Nil(t, got.MFASecret)

	_, err = s.Users().GetUserByUsername(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)

	t.Run("duplicate username rejected", func(t *testing.T) {
		dup := domain.User{
			ID:           idx.New().String(),
			Username:     "admin",
			PasswordHash: "x",
			RoleID:       got.RoleID,
		}
		require.ErrorIs(t, s.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("mfa secret round trip", func(t *testing.T) {
		secret := "JBSWY3DPEHPK3PXP"
		require.NoError(t, s.Users().UpdateMFASecret(ctx, user.ID, &secret))
		got, err := s.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, got.MFASecret)
		require.Equal(t, secret, *got.MFASecret)

		require.NoError(t, s.Users().UpdateMFASecret(ctx, user.ID, nil))
		got, err = s.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.Nil(t, got.MFASecret)
	})
}

func TestPatientsRepoConstraints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doctor := seedRoleAndUser(t, s, domain.RoleDoctor, "dr_bob")

	t.Run("foreign key on attending enforced", func(t *testing.T) {
		ghost := idx.New().String()
		err := s.Patients().CreatePatient(ctx, testPatient(&ghost))
		require.ErrorIs(t, err, store.ErrConstraint)

		patients, err := s.Patients().ListPatients(ctx)
		require.NoError(t, err)
		require.Empty(t, patients, "failed write must not leave rows behind")
	})

	t.Run("check constraint on empty name enforced", func(t *testing.T) {
		p := testPatient(nil)
		p.Name = "   "
		require.ErrorIs(t, s.Patients().CreatePatient(ctx, p), store.ErrConstraint)
	})

	t.Run("valid write succeeds", func(t *testing.T) {
		p := testPatient(&doctor.ID)
		require.NoError(t, s.Patients().CreatePatient(ctx, p))

		got, err := s.Patients().GetPatientByID(ctx, p.ID)
		require.NoError(t, err)
		require.Equal(t, "Jane Doe", got.Name)
		require.Equal(t, doctor.ID, *got.AttendingID)
	})
}

func TestPatientsRetentionQueries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := testPatient(nil)
	old.CreatedAt = time.Now().UTC().Add(-90 * 24 * time.Hour)
	require.NoError(t, s.Patients().CreatePatient(ctx, old))

	fresh := testPatient(nil)
	require.NoError(t, s.Patients().CreatePatient(ctx, fresh))

	cutoff := time.Now().UTC().Add(-30 * 24 * time.Hour)

	count, err := s.Patients().CountPatientsBefore(ctx, cutoff)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	deleted, err := s.Patients().DeletePatientsBefore(ctx, cutoff)
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)

	remaining, err := s.Patients().ListPatients(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, fresh.ID, remaining[0].ID)
}

func TestAuditRepo(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entry := func(action, actor, outcome string, at time.Time) domain.AuditEntry {
		return domain.AuditEntry{
			ID:         idx.New().String(),
			OccurredAt: at,
			ActorID:    actor,
			ActorRole:  domain.RoleAdmin,
			Action:     action,
			Outcome:    outcome,
		}
	}

	now := time.Now().UTC()
	require.NoError(t, s.Audit().Append(ctx, entry(domain.ActionLogin, "u1", domain.OutcomeSuccess, now.Add(-2*time.Hour))))
	require.NoError(t, s.Audit().Append(ctx, entry(domain.ActionViewPatients, "u1", domain.OutcomeSuccess, now.Add(-time.Hour))))
	require.NoError(t, s.Audit().Append(ctx, entry(domain.ActionViewPatients, "u2", domain.OutcomeDenied, now)))

	t.Run("list newest first", func(t *testing.T) {
		all, err := s.Audit().List(ctx, domain.AuditFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		require.True(t, all[0].OccurredAt.After(all[2].OccurredAt))
	})

	t.Run("filters compose", func(t *testing.T) {
		got, err := s.Audit().List(ctx, domain.AuditFilter{Action: domain.ActionViewPatients, ActorID: "u1"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, domain.OutcomeSuccess, got[0].Outcome)
	})

	t.Run("limit applies", func(t *testing.T) {
		got, err := s.Audit().List(ctx, domain.AuditFilter{Limit: 2})
		require.NoError(t, err)
		require.Len(t, got, 2)
	})

	t.Run("entries cannot be updated", func(t *testing.T) {
		_, err := s.db.ExecContext(ctx, `UPDATE audit_entries SET outcome = 'success'`)
		require.Error(t, err, "append-only trigger must reject updates")
	})

	t.Run("delete before cutoff", func(t *testing.T) {
		count, err := s.Audit().CountBefore(ctx, now.Add(-30*time.Minute))
		require.NoError(t, err)
		require.EqualValues(t, 2, count)

		deleted, err := s.Audit().DeleteBefore(ctx, now.Add(-30*time.Minute))
		require.NoError(t, err)
		require.EqualValues(t, 2, deleted)
	})
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Patients().CreatePatient(ctx, testPatient(nil)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	patients, err := s.Patients().ListPatients(ctx)
	require.NoError(t, err)
	require.Empty(t, patients)
}

func TestWithTxCommits(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testPatient(nil)
	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Patients().CreatePatient(ctx, p)
	}))

	got, err := s.Patients().GetPatientByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)
}

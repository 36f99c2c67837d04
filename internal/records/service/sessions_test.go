package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oakfieldhealth/wardgate/internal/records/domain"
)

func testUser() domain.User {
	return domain.User{ID: "01HTESTUSER0000000000000000", Username: "dr_bob"}
}

func TestSessionManager(t *testing.T) {
	t.Run("issue and touch round-trip", func(t *testing.T) {
		sm := NewSessionManager([]byte("secret"), time.Minute, nil)

		handle, sess, err := sm.Issue(testUser(), domain.RoleDoctor)
		require.NoError(t, err)
		require.Equal(t, domain.RoleDoctor, sess.Role)

		got, err := sm.Touch(handle)
		require.NoError(t, err)
		require.Equal(t, sess.ID, got.ID)
		require.Equal(t, sess.UserID, got.UserID)
	})

	t.Run("garbage and foreign-signature handles are rejected", func(t *testing.T) {
		sm := NewSessionManager([]byte("secret"), time.Minute, nil)
		other := NewSessionManager([]byte("different"), time.Minute, nil)

		_, err := sm.Touch("garbage")
		require.ErrorIs(t, err, domain.ErrAuthFailure)

		foreign, _, err := other.Issue(testUser(), domain.RoleDoctor)
		require.NoError(t, err)
		_, err = sm.Touch(foreign)
		require.ErrorIs(t, err, domain.ErrAuthFailure)
	})

	t.Run("handle for a revoked session is dead even though the JWT verifies", func(t *testing.T) {
		sm := NewSessionManager([]byte("secret"), time.Minute, nil)

		handle, _, err := sm.Issue(testUser(), domain.RoleDoctor)
		require.NoError(t, err)

		sm.Revoke(handle)
		_, err = sm.Touch(handle)
		require.ErrorIs(t, err, domain.ErrAuthFailure)
		require.Zero(t, sm.Len())
	})

	t.Run("idle window slides on each touch", func(t *testing.T) {
		clock := &fakeClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
		sm := NewSessionManager([]byte("secret"), 30*time.Minute, nil)
		sm.now = clock.Now

		handle, _, err := sm.Issue(testUser(), domain.RoleDoctor)
		require.NoError(t, err)

		for i := 0; i < 4; i++ {
			clock.Advance(29 * time.Minute)
			_, err = sm.Touch(handle)
			require.NoError(t, err)
		}

		clock.Advance(31 * time.Minute)
		_, err = sm.Touch(handle)
		require.ErrorIs(t, err, domain.ErrAuthFailure)

		// Expired sessions are evicted, not just refused.
		require.Zero(t, sm.Len())
	})

	t.Run("handle is a three-part JWT, not a raw session id", func(t *testing.T) {
		sm := NewSessionManager([]byte("secret"), time.Minute, nil)
		handle, sess, err := sm.Issue(testUser(), domain.RoleDoctor)
		require.NoError(t, err)
		require.Len(t, strings.Split(handle, "."), 3)
		require.NotEqual(t, sess.ID, handle)
	})
}

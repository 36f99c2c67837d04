package service

import (
	"context"
	"testing"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"github.com/oakfieldhealth/wardgate/internal/records/domain"
)

func TestMFAEnrollment(t *testing.T) {
	t.Run("enroll, verify, then login requires a code", func(t *testing.T) {
		f := newGateFixture(t)
		doc := f.login(t, "dr_bob", "doc123")

		enrollment, err := f.gate.EnrollMFA(context.Background(), doc)
		require.NoError(t, err)
		require.NotEmpty(t, enrollment.Secret)
		require.Contains(t, enrollment.URL, "otpauth://")

		code, err := totp.GenerateCode(enrollment.Secret, f.clock.Now())
		require.NoError(t, err)
		require.NoError(t, f.gate.VerifyMFA(context.Background(), doc, code))

		// Password alone no longer suffices.
		_, _, err = f.gate.Login(context.Background(), "dr_bob", "doc123", "")
		require.ErrorIs(t, err, domain.ErrAuthFailure)

		code, err = totp.GenerateCode(enrollment.Secret, f.clock.Now())
		require.NoError(t, err)
		_, _, err = f.gate.Login(context.Background(), "dr_bob", "doc123", code)
		require.NoError(t, err)
	})

	t.Run("wrong code keeps the enrollment pending", func(t *testing.T) {
		f := newGateFixture(t)
		doc := f.login(t, "dr_bob", "doc123")

		enrollment, err := f.gate.EnrollMFA(context.Background(), doc)
		require.NoError(t, err)

		err = f.gate.VerifyMFA(context.Background(), doc, "000000")
		require.True(t, domain.IsValidation(err))

		// A later correct code still completes the enrollment.
		code, err := totp.GenerateCode(enrollment.Secret, f.clock.Now())
		require.NoError(t, err)
		require.NoError(t, f.gate.VerifyMFA(context.Background(), doc, code))
	})

	t.Run("verify without enrollment fails", func(t *testing.T) {
		f := newGateFixture(t)
		doc := f.login(t, "dr_bob", "doc123")

		err := f.gate.VerifyMFA(context.Background(), doc, "123456")
		require.True(t, domain.IsValidation(err))
	})
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/pquerna/otp/totp"

	"github.com/oakfieldhealth/wardgate/internal/records/domain"
	"github.com/oakfieldhealth/wardgate/internal/records/store"
)

// MFAEnrollment is returned once at enrollment time. The secret is never
// retrievable again; callers are expected to load it into an authenticator
// immediately.
type MFAEnrollment struct {
	Secret string `json:"secret"`
	URL    string `json:"url"` // otpauth:// provisioning URL
}

// EnrollMFA generates a TOTP secret for the calling user and provisionally
// stores it. The secret does not gate logins until VerifyMFA confirms the
// authenticator produces matching codes.
func (g *Gate) EnrollMFA(ctx context.Context, handle string) (MFAEnrollment, error) {
	sess, err := g.authenticate(ctx, handle, domain.ActionMFAEnroll)
	if err != nil {
		return MFAEnrollment{}, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "wardgate",
		AccountName: sess.Username,
	})
	if err != nil {
		return MFAEnrollment{}, err
	}

	secret := key.Secret()
	g.pending.put(sess.UserID, secret)

	entry := g.newEntry(sess, domain.ActionMFAEnroll, domain.OutcomeSuccess)
	entry.Detail = "secret issued, pending verification"
	if err := g.auditOnly(ctx, entry); err != nil {
		return MFAEnrollment{}, err
	}
	g.metrics.IncRequest(domain.ActionMFAEnroll, domain.OutcomeSuccess)

	return MFAEnrollment{Secret: secret, URL: key.URL()}, nil
}

// VerifyMFA confirms a pending enrollment by checking one code from the
// caller's authenticator. On match the secret is committed and future logins
// require a code.
func (g *Gate) VerifyMFA(ctx context.Context, handle, code string) error {
	sess, err := g.authenticate(ctx, handle, domain.ActionMFAEnroll)
	if err != nil {
		return err
	}

	secret, ok := g.pending.take(sess.UserID)
	if !ok {
		if err := g.fail(ctx, sess, domain.ActionMFAEnroll, "no pending enrollment", nil); err != nil {
			return err
		}
		return domain.NewValidationError("no pending enrollment")
	}

	if !validTOTP(code, secret, g.now()) {
		// Put it back so the user can retry with the next code.
		g.pending.put(sess.UserID, secret)
		if err := g.fail(ctx, sess, domain.ActionMFAEnroll, "code mismatch", nil); err != nil {
			return err
		}
		return domain.NewValidationError("code mismatch")
	}

	err = g.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdateMFASecret(ctx, sess.UserID, &secret); err != nil {
			return err
		}
		entry := g.newEntry(sess, domain.ActionMFAEnroll, domain.OutcomeSuccess)
		entry.Detail = "enrollment confirmed"
		return g.append(ctx, tx.Audit(), entry)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrAuthFailure
		}
		return storageErr(err, "commit mfa secret")
	}

	g.metrics.IncRequest(domain.ActionMFAEnroll, domain.OutcomeSuccess)
	return nil
}

func validTOTP(code, secret string, at time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, at, totp.ValidateOpts{
		Period: 30,
		Skew:   1,
		Digits: 6,
	})
	return err == nil && ok
}

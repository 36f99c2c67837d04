package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/oakfieldhealth/wardgate/internal/records/service"
	"github.com/oakfieldhealth/wardgate/pkg/httpx"
	"github.com/oakfieldhealth/wardgate/pkg/wardsdk"
)

// MFAHandler handles TOTP enrollment.
type MFAHandler struct {
	Gate   *service.Gate
	Logger *slog.Logger
}

// HandleEnroll handles POST /v1/mfa/totp/enroll
//
//	@Summary		Enroll in TOTP MFA
//	@Description	Generates a TOTP secret for the calling account. The secret is shown
//	@Description	once and does not gate logins until verified.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	wardsdk.TOTPEnrollResponse	"Secret and otpauth URL"
//	@Failure		401	{object}	wardsdk.ErrorResponse		"Invalid or expired session"
//	@Router			/v1/mfa/totp/enroll [post].
func (h *MFAHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	enrollment, err := h.Gate.EnrollMFA(ctx, httpx.SessionTokenFromCtx(ctx))
	if err != nil {
		writeGateError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, wardsdk.TOTPEnrollResponse{
		Secret: enrollment.Secret,
		URL:    enrollment.URL,
	})
}

// HandleVerify handles POST /v1/mfa/totp/verify
//
//	@Summary		Confirm TOTP enrollment
//	@Description	Checks one authenticator code against the pending secret. On match
//	@Description	the secret is committed and future logins require a code.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Success		204	"Enrollment confirmed"
//	@Failure		401	{object}	wardsdk.ErrorResponse	"Invalid or expired session"
//	@Failure		422	{object}	wardsdk.ErrorResponse	"No pending enrollment or code mismatch"
//	@Router			/v1/mfa/totp/verify [post].
func (h *MFAHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req wardsdk.TOTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		wardsdk.ErrInvalidRequest.WithDescription("invalid JSON body").WriteError(w)
		return
	}

	if err := h.Gate.VerifyMFA(ctx, httpx.SessionTokenFromCtx(ctx), req.Code); err != nil {
		writeGateError(w, err)
		return
	}
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

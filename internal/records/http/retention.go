package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/oakfieldhealth/wardgate/internal/records/service"
	"github.com/oakfieldhealth/wardgate/pkg/httpx"
	"github.com/oakfieldhealth/wardgate/pkg/slogx"
	"github.com/oakfieldhealth/wardgate/pkg/wardsdk"
)

// RetentionHandler triggers on-demand retention sweeps.
type RetentionHandler struct {
	Gate   *service.Gate
	Logger *slog.Logger
}

// HandleSweep handles POST /v1/retention/sweep
//
//	@Summary		Run a retention sweep now
//	@Description	Purges patient records older than the threshold and audit entries past
//	@Description	the audit horizon. The purge is logged to the trail before anything is
//	@Description	deleted, attributed to the calling admin.
//	@Tags			Retention
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		wardsdk.SweepRequest	true	"Thresholds in days"
//	@Success		200		{object}	wardsdk.SweepResponse
//	@Failure		401		{object}	wardsdk.ErrorResponse	"Invalid or expired session"
//	@Failure		403		{object}	wardsdk.ErrorResponse	"Not an admin"
//	@Failure		422		{object}	wardsdk.ErrorResponse	"Threshold out of bounds"
//	@Router			/v1/retention/sweep [post].
func (h *RetentionHandler) HandleSweep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req wardsdk.SweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		wardsdk.ErrInvalidRequest.WithDescription("invalid JSON body").WriteError(w)
		return
	}

	res, err := h.Gate.Sweep(ctx, httpx.SessionTokenFromCtx(ctx), req.ThresholdDays, req.AuditDays)
	if err != nil {
		writeGateError(w, err)
		return
	}

	log.Info("on-demand retention sweep",
		"patients_purged", res.PatientsPurged,
		"audit_purged", res.AuditPurged)

	httpx.WriteJSON(w, http.StatusOK, wardsdk.SweepResponse{
		PatientsPurged: res.PatientsPurged,
		AuditPurged:    res.AuditPurged,
	})
}

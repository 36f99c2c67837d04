package http

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/oakfieldhealth/wardgate/internal/records/domain"
	"github.com/oakfieldhealth/wardgate/internal/records/service"
	"github.com/oakfieldhealth/wardgate/pkg/httpx"
)

// ExportHandler streams CSV downloads. The gate buffers rows before any
// bytes hit the wire, so a failed export never sends a partial file with a
// 200 status.
type ExportHandler struct {
	Gate   *service.Gate
	Logger *slog.Logger
}

func writeCSV(w http.ResponseWriter, filename string, buf *bytes.Buffer) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// HandlePatients handles GET /v1/export/patients.csv
//
//	@Summary		Export patient records as CSV
//	@Description	Same policy shaping as the JSON listing: the CSV carries exactly what
//	@Description	the caller's role is entitled to see.
//	@Tags			Export
//	@Security		BearerAuth
//	@Produce		text/csv
//	@Success		200	{string}	string					"CSV file"
//	@Failure		401	{object}	wardsdk.ErrorResponse	"Invalid or expired session"
//	@Failure		403	{object}	wardsdk.ErrorResponse	"Role holds no view on patient data"
//	@Router			/v1/export/patients.csv [get].
func (h *ExportHandler) HandlePatients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var buf bytes.Buffer
	if err := h.Gate.ExportPatientsCSV(ctx, httpx.SessionTokenFromCtx(ctx), &buf); err != nil {
		writeGateError(w, err)
		return
	}
	writeCSV(w, "patients.csv", &buf)
}

// HandleAudit handles GET /v1/export/audit.csv
//
//	@Summary		Export the audit trail as CSV
//	@Tags			Export
//	@Security		BearerAuth
//	@Produce		text/csv
//	@Success		200	{string}	string					"CSV file"
//	@Failure		401	{object}	wardsdk.ErrorResponse	"Invalid or expired session"
//	@Failure		403	{object}	wardsdk.ErrorResponse	"Role holds no view on the audit trail"
//	@Router			/v1/export/audit.csv [get].
func (h *ExportHandler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var buf bytes.Buffer
	if err := h.Gate.ExportAuditCSV(ctx, httpx.SessionTokenFromCtx(ctx), domain.AuditFilter{}, &buf); err != nil {
		writeGateError(w, err)
		return
	}
	writeCSV(w, "audit.csv", &buf)
}

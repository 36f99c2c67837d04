package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/oakfieldhealth/wardgate/internal/records/domain"
	"github.com/oakfieldhealth/wardgate/internal/records/service"
	"github.com/oakfieldhealth/wardgate/pkg/httpx"
	"github.com/oakfieldhealth/wardgate/pkg/wardsdk"
)

// AuditHandler exposes the audit trail to roles with a full view on it.
type AuditHandler struct {
	Gate   *service.Gate
	Logger *slog.Logger
}

func auditFilterFromQuery(r *http.Request) domain.AuditFilter {
	q := r.URL.Query()
	f := domain.AuditFilter{
		Action:    q.Get("action"),
		ActorID:   q.Get("actor_id"),
		ActorRole: q.Get("actor_role"),
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Limit = n
		}
	}
	if v := q.Get("since"); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			f.Since = ts
		}
	}
	return f
}

func toAuditResponse(e domain.AuditEntry) wardsdk.AuditEntryResponse {
	resp := wardsdk.AuditEntryResponse{
		ID:         e.ID,
		OccurredAt: e.OccurredAt,
		ActorID:    e.ActorID,
		ActorRole:  e.ActorRole,
		Action:     e.Action,
		Outcome:    e.Outcome,
		ViewLevel:  e.ViewLevel,
		Detail:     e.Detail,
	}
	if e.TargetID != nil {
		resp.TargetID = *e.TargetID
	}
	return resp
}

// HandleList handles GET /v1/audit
//
//	@Summary		Read the audit trail
//	@Description	Returns audit entries newest first. Reading the trail is itself
//	@Description	recorded on it.
//	@Tags			Audit
//	@Security		BearerAuth
//	@Produce		json
//	@Param			action		query		string	false	"Filter by action, e.g. LOGIN"
//	@Param			actor_id	query		string	false	"Filter by actor id"
//	@Param			actor_role	query		string	false	"Filter by actor role"
//	@Param			since		query		string	false	"RFC3339 lower bound on occurred_at"
//	@Param			limit		query		int		false	"Maximum entries to return"
//	@Success		200			{object}	wardsdk.AuditListResponse
//	@Failure		401			{object}	wardsdk.ErrorResponse	"Invalid or expired session"
//	@Failure		403			{object}	wardsdk.ErrorResponse	"Role holds no view on the audit trail"
//	@Router			/v1/audit [get].
func (h *AuditHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entries, err := h.Gate.AuditLog(ctx, httpx.SessionTokenFromCtx(ctx), auditFilterFromQuery(r))
	if err != nil {
		writeGateError(w, err)
		return
	}

	resp := wardsdk.AuditListResponse{
		Entries: make([]wardsdk.AuditEntryResponse, 0, len(entries)),
		Count:   len(entries),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, toAuditResponse(e))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

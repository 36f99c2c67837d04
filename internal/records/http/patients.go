package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/oakfieldhealth/wardgate/internal/records/domain"
	"github.com/oakfieldhealth/wardgate/internal/records/service"
	"github.com/oakfieldhealth/wardgate/pkg/httpx"
	"github.com/oakfieldhealth/wardgate/pkg/slogx"
	"github.com/oakfieldhealth/wardgate/pkg/wardsdk"
)

// PatientsHandler handles the patient record endpoints.
type PatientsHandler struct {
	Gate   *service.Gate
	Logger *slog.Logger
}

func toPatientResponse(v domain.PatientView) wardsdk.PatientResponse {
	return wardsdk.PatientResponse{
		ID:        v.ID,
		Name:      v.Name,
		Contact:   v.Contact,
		Diagnosis: v.Diagnosis,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func toPatientFields(req wardsdk.PatientRequest) domain.PatientFields {
	return domain.PatientFields{
		Name:        req.Name,
		Contact:     req.Contact,
		Diagnosis:   req.Diagnosis,
		AttendingID: req.AttendingID,
	}
}

// HandleList handles GET /v1/patients
//
//	@Summary		List patient records
//	@Description	Returns all patient records shaped to the caller's view level. Admins
//	@Description	may pass view=anonymized to downgrade their own view; nobody can
//	@Description	upgrade past what the policy grants.
//	@Tags			Patients
//	@Security		BearerAuth
//	@Produce		json
//	@Param			view	query		string	false	"Set to 'anonymized' to request the downgraded view"
//	@Success		200		{object}	wardsdk.PatientListResponse
//	@Failure		401		{object}	wardsdk.ErrorResponse	"Invalid or expired session"
//	@Failure		403		{object}	wardsdk.ErrorResponse	"Role holds no view on patient data"
//	@Router			/v1/patients [get].
func (h *PatientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	views, err := h.Gate.GetPatients(ctx, httpx.SessionTokenFromCtx(ctx), r.URL.Query().Get("view"))
	if err != nil {
		writeGateError(w, err)
		return
	}

	resp := wardsdk.PatientListResponse{
		Patients: make([]wardsdk.PatientResponse, 0, len(views)),
		Count:    len(views),
	}
	for _, v := range views {
		resp.Patients = append(resp.Patients, toPatientResponse(v))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleCreate handles POST /v1/patients
//
//	@Summary		Add a patient record
//	@Description	Creates a record. Name and contact are also stored as reversible
//	@Description	pseudonyms so privileged roles can recover them later.
//	@Tags			Patients
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		wardsdk.PatientRequest	true	"Patient fields"
//	@Success		201		{object}	wardsdk.PatientResponse
//	@Failure		401		{object}	wardsdk.ErrorResponse	"Invalid or expired session"
//	@Failure		403		{object}	wardsdk.ErrorResponse	"Role may not write patient records"
//	@Failure		422		{object}	wardsdk.ErrorResponse	"A write constraint was violated"
//	@Router			/v1/patients [post].
func (h *PatientsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req wardsdk.PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		wardsdk.ErrInvalidRequest.WithDescription("invalid JSON body").WriteError(w)
		return
	}

	view, err := h.Gate.CreatePatient(ctx, httpx.SessionTokenFromCtx(ctx), toPatientFields(req))
	if err != nil {
		if domain.IsValidation(err) {
			log.Warn("patient create rejected", "err", err)
		}
		writeGateError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toPatientResponse(view))
}

// HandleUpdate handles PUT /v1/patients/{id}
//
//	@Summary		Update a patient record
//	@Description	Rewrites the record's fields. The reversible pseudonyms are re-sealed
//	@Description	from the new values.
//	@Tags			Patients
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Patient id"
//	@Param			request	body		wardsdk.PatientRequest	true	"Patient fields"
//	@Success		200		{object}	wardsdk.PatientResponse
//	@Failure		401		{object}	wardsdk.ErrorResponse	"Invalid or expired session"
//	@Failure		403		{object}	wardsdk.ErrorResponse	"Role may not write patient records"
//	@Failure		422		{object}	wardsdk.ErrorResponse	"A write constraint was violated"
//	@Router			/v1/patients/{id} [put].
func (h *PatientsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req wardsdk.PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		wardsdk.ErrInvalidRequest.WithDescription("invalid JSON body").WriteError(w)
		return
	}

	view, err := h.Gate.UpdatePatient(ctx, httpx.SessionTokenFromCtx(ctx), r.PathValue("id"), toPatientFields(req))
	if err != nil {
		writeGateError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPatientResponse(view))
}

// HandleRecoverIdentity handles GET /v1/patients/{id}/identity
//
//	@Summary		Recover a patient's raw identity
//	@Description	Decrypts the stored name and contact pseudonyms. Available only to
//	@Description	roles holding a full identity view; every attempt lands on the audit
//	@Description	trail, recoveries and refusals alike.
//	@Tags			Patients
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Patient id"
//	@Success		200	{object}	wardsdk.PatientResponse
//	@Failure		401	{object}	wardsdk.ErrorResponse	"Invalid or expired session"
//	@Failure		403	{object}	wardsdk.ErrorResponse	"Role holds no full identity view"
//	@Failure		409	{object}	wardsdk.ErrorResponse	"Stored pseudonym failed to decrypt"
//	@Router			/v1/patients/{id}/identity [get].
func (h *PatientsHandler) HandleRecoverIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := h.Gate.RecoverIdentity(ctx, httpx.SessionTokenFromCtx(ctx), r.PathValue("id"))
	if err != nil {
		writeGateError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPatientResponse(view))
}

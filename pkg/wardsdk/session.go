package wardsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Session is an authenticated handle on the service. Methods mirror the
// server's endpoints; the server still re-checks policy on every call, so a
// Session grants nothing the account's role does not.
type Session struct {
	client *Client
	token  string

	Role     string
	Username string
}

// Token exposes the raw bearer handle, for callers wiring their own HTTP.
func (s *Session) Token() string { return s.token }

// Logout revokes the session server-side.
func (s *Session) Logout(ctx context.Context) error {
	return s.client.doJSON(ctx, http.MethodPost, "/v1/logout", s.token, nil, nil)
}

// Patients lists patient records shaped to the session's role. Pass
// view "anonymized" to request the downgraded view.
func (s *Session) Patients(ctx context.Context, view string) (PatientListResponse, error) {
	path := "/v1/patients"
	if view != "" {
		path += "?view=" + url.QueryEscape(view)
	}
	var resp PatientListResponse
	err := s.client.doJSON(ctx, http.MethodGet, path, s.token, nil, &resp)
	return resp, err
}

// CreatePatient adds a new record.
func (s *Session) CreatePatient(ctx context.Context, req PatientRequest) (PatientResponse, error) {
	var resp PatientResponse
	err := s.client.doJSON(ctx, http.MethodPost, "/v1/patients", s.token, req, &resp)
	return resp, err
}

// UpdatePatient rewrites an existing record's fields.
func (s *Session) UpdatePatient(ctx context.Context, id string, req PatientRequest) (PatientResponse, error) {
	var resp PatientResponse
	err := s.client.doJSON(ctx, http.MethodPut, "/v1/patients/"+url.PathEscape(id), s.token, req, &resp)
	return resp, err
}

// RecoverIdentity decrypts the stored pseudonyms of one patient.
func (s *Session) RecoverIdentity(ctx context.Context, id string) (PatientResponse, error) {
	var resp PatientResponse
	err := s.client.doJSON(ctx, http.MethodGet, "/v1/patients/"+url.PathEscape(id)+"/identity", s.token, nil, &resp)
	return resp, err
}

// AuditLog reads the audit trail, optionally filtered by action and actor.
func (s *Session) AuditLog(ctx context.Context, action, actorID string, limit int) (AuditListResponse, error) {
	q := url.Values{}
	if action != "" {
		q.Set("action", action)
	}
	if actorID != "" {
		q.Set("actor_id", actorID)
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	path := "/v1/audit"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}
	var resp AuditListResponse
	err := s.client.doJSON(ctx, http.MethodGet, path, s.token, nil, &resp)
	return resp, err
}

// Sweep triggers an on-demand retention sweep.
func (s *Session) Sweep(ctx context.Context, req SweepRequest) (SweepResponse, error) {
	var resp SweepResponse
	err := s.client.doJSON(ctx, http.MethodPost, "/v1/retention/sweep", s.token, req, &resp)
	return resp, err
}

// EnrollTOTP starts TOTP enrollment for the session's account.
func (s *Session) EnrollTOTP(ctx context.Context) (TOTPEnrollResponse, error) {
	var resp TOTPEnrollResponse
	err := s.client.doJSON(ctx, http.MethodPost, "/v1/mfa/totp/enroll", s.token, nil, &resp)
	return resp, err
}

// VerifyTOTP confirms enrollment with one authenticator code.
func (s *Session) VerifyTOTP(ctx context.Context, code string) error {
	return s.client.doJSON(ctx, http.MethodPost, "/v1/mfa/totp/verify", s.token, TOTPVerifyRequest{Code: code}, nil)
}

// ExportPatientsCSV downloads the patient export.
func (s *Session) ExportPatientsCSV(ctx context.Context) ([]byte, error) {
	return s.client.doRaw(ctx, http.MethodGet, "/v1/export/patients.csv", s.token)
}

// ExportAuditCSV downloads the audit trail export.
func (s *Session) ExportAuditCSV(ctx context.Context) ([]byte, error) {
	return s.client.doRaw(ctx, http.MethodGet, "/v1/export/audit.csv", s.token)
}

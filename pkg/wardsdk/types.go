package wardsdk

import "time"

// LoginRequest carries credentials for POST /v1/login. MFACode is required
// only for accounts with a confirmed TOTP enrollment.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	MFACode  string `json:"mfa_code,omitempty"`
}

// LoginResponse returns the bearer handle for the new session.
type LoginResponse struct {
	Token    string    `json:"token"`
	Role     string    `json:"role"`
	Username string    `json:"username"`
	IssuedAt time.Time `json:"issued_at"`
}

// PatientRequest carries the writable fields of a patient record.
type PatientRequest struct {
	Name        string  `json:"name"`
	Contact     string  `json:"contact"`
	Diagnosis   string  `json:"diagnosis"`
	AttendingID *string `json:"attending_id,omitempty"`
}

// PatientResponse is a patient record shaped to the caller's view level.
// Fields the caller's role may not see are absent, not blanked.
type PatientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Contact   string    `json:"contact,omitempty"`
	Diagnosis string    `json:"diagnosis,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PatientListResponse wraps a patient listing.
type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Count    int               `json:"count"`
}

// AuditEntryResponse is one audit trail entry.
type AuditEntryResponse struct {
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
	ActorID    string    `json:"actor_id"`
	ActorRole  string    `json:"actor_role,omitempty"`
	Action     string    `json:"action"`
	TargetID   string    `json:"target_id,omitempty"`
	Outcome    string    `json:"outcome"`
	ViewLevel  string    `json:"view_level,omitempty"`
	Detail     string    `json:"detail,omitempty"`
}

// AuditListResponse wraps an audit trail listing.
type AuditListResponse struct {
	Entries []AuditEntryResponse `json:"entries"`
	Count   int                  `json:"count"`
}

// SweepRequest triggers an on-demand retention sweep.
type SweepRequest struct {
	ThresholdDays int `json:"threshold_days"`
	AuditDays     int `json:"audit_days,omitempty"`
}

// SweepResponse reports what a retention sweep removed.
type SweepResponse struct {
	PatientsPurged int64 `json:"patients_purged"`
	AuditPurged    int64 `json:"audit_purged"`
}

// TOTPEnrollResponse returns the generated secret exactly once.
type TOTPEnrollResponse struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

// TOTPVerifyRequest confirms an enrollment with one authenticator code.
type TOTPVerifyRequest struct {
	Code string `json:"code"`
}

// HealthResponse is returned by the health probes.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

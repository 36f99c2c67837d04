package domain

import "time"

// Audit actions. Kept as a flat namespace so the dashboard can filter on them.
const (
	ActionLogin          = "LOGIN"
	ActionLogout         = "LOGOUT"
	ActionViewPatients   = "VIEW_PATIENTS"
	ActionCreatePatient  = "CREATE_PATIENT"
	ActionUpdatePatient  = "UPDATE_PATIENT"
	ActionRecoverPatient = "RECOVER_IDENTITY"
	ActionViewAudit      = "VIEW_AUDIT_LOG"
	ActionExportCSV      = "EXPORT_CSV"
	ActionRetentionSweep = "RETENTION_SWEEP"
	ActionMFAEnroll      = "MFA_ENROLL"
	ActionSessionReject  = "SESSION_REJECTED"
)

// AnonymousActor is recorded when a request carried no valid session, so
// there is no authenticated identity to attribute it to.
const AnonymousActor = "anonymous"

// Audit outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeDenied  = "denied"
	OutcomeFailure = "failure"
)

// SystemActor is recorded when the service itself performs an operation,
// such as the retention sweeper purging old rows.
const SystemActor = "system"

// AuditEntry is append-only. Entries are never edited; only the retention
// sweeper removes them, and that purge is itself logged first.
type AuditEntry struct {
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
	ActorID    string    `json:"actor_id"`   // user id, attempted username, or "system"
	ActorRole  string    `json:"actor_role"` // empty when the actor never authenticated
	Action     string    `json:"action"`
	TargetID   *string   `json:"target_id,omitempty"`
	Outcome    string    `json:"outcome"`
	ViewLevel  string    `json:"view_level,omitempty"` // view granted by policy, if any
	Detail     string    `json:"detail,omitempty"`
}

// AuditFilter narrows an audit query. Zero values match everything; the
// store applies filters verbatim and leaves authorization to the gate.
type AuditFilter struct {
	Action    string
	ActorID   string
	ActorRole string
	Since     time.Time
	Limit     int
}

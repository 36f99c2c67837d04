package domain

import "time"

// Patient is the stored record. Name and Contact are the raw values;
// NameCipher and ContactCipher hold the reversible pseudonyms produced by the
// anonymizer so the originals can be recovered by holders of Full access.
type Patient struct {
	ID            string
	Name          string
	Contact       string
	Diagnosis     string
	NameCipher    string  // AES-GCM token, base64url
	ContactCipher string  // AES-GCM token, base64url
	AttendingID   *string // Foreign key to users table (nullable)
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PatientView is the role-shaped representation handed to callers. Which
// fields are raw, masked, or absent depends on the access policy decision,
// never on the caller's say-so.
type PatientView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Contact   string    `json:"contact,omitempty"`
	Diagnosis string    `json:"diagnosis,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PatientFields carries the writable fields of a create/update request.
type PatientFields struct {
	Name        string
	Contact     string
	Diagnosis   string
	AttendingID *string
}

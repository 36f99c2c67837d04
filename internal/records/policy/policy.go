// Package policy is the single access-control table for the service. Every
// role/class decision anywhere in the codebase goes through Decide; there is
// no other place where role names are compared.
package policy

import "github.com/oakfieldhealth/wardgate/internal/records/domain"

// DataClass partitions the data the service guards. Write authorization is
// modelled as its own class so the table stays a plain (role, class) lookup.
type DataClass int

const (
	ClassIdentity DataClass = iota // patient name and contact
	ClassClinical                  // diagnosis
	ClassAuditTrail                // audit log entries
	ClassPatientWrite              // create/update of patient records
	ClassRecovery                  // decryption of stored pseudonyms
)

func (c DataClass) String() string {
	switch c {
	case ClassIdentity:
		return "identity"
	case ClassClinical:
		return "clinical"
	case ClassAuditTrail:
		return "audit"
	case ClassPatientWrite:
		return "patient-write"
	case ClassRecovery:
		return "recovery"
	default:
		return "unknown"
	}
}

// ViewLevel is the representation a role is entitled to. The zero value is
// Denied so any pair missing from the table fails closed.
type ViewLevel int

const (
	ViewDenied ViewLevel = iota
	ViewAnonymized
	ViewFull
)

func (v ViewLevel) String() string {
	switch v {
	case ViewFull:
		return "full"
	case ViewAnonymized:
		return "anonymized"
	default:
		return "denied"
	}
}

type pair struct {
	role  string
	class DataClass
}

// The fixed policy table. Admins see everything raw, doctors see masked
// identity and category-level diagnosis, receptionists manage demographics
// but never read diagnoses or the audit trail.
var table = map[pair]ViewLevel{
	{domain.RoleAdmin, ClassIdentity}:     ViewFull,
	{domain.RoleAdmin, ClassClinical}:     ViewFull,
	{domain.RoleAdmin, ClassAuditTrail}:   ViewFull,
	{domain.RoleAdmin, ClassPatientWrite}: ViewFull,
	{domain.RoleAdmin, ClassRecovery}:     ViewFull,

	{domain.RoleDoctor, ClassIdentity}: ViewAnonymized,
	{domain.RoleDoctor, ClassClinical}: ViewAnonymized,

	{domain.RoleReceptionist, ClassIdentity}:     ViewFull,
	{domain.RoleReceptionist, ClassPatientWrite}: ViewFull,
}

// Decide returns the view level the role holds on the data class. It is a
// pure, total function: any pair not in the table is ViewDenied.
func Decide(role string, class DataClass) ViewLevel {
	return table[pair{role, class}]
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oakfieldhealth/wardgate/internal/records/domain"
	"github.com/oakfieldhealth/wardgate/internal/records/policy"
	"github.com/oakfieldhealth/wardgate/internal/records/store"
	"github.com/oakfieldhealth/wardgate/pkg/idx"
)

// ViewPreference lets a caller ask for LESS than their entitlement, never
// more. The only meaningful value is "anonymized".
const ViewAnonymized = "anonymized"

// GetPatients lists every patient, shaped to the caller's view levels. A
// role denied on both identity and clinical data gets ErrDenied. Callers
// entitled to full views may pass ViewAnonymized to downgrade themselves.
func (g *Gate) GetPatients(ctx context.Context, handle, viewPref string) ([]domain.PatientView, error) {
	sess, err := g.authenticate(ctx, handle, domain.ActionViewPatients)
	if err != nil {
		return nil, err
	}

	identity := policy.Decide(sess.Role, policy.ClassIdentity)
	clinical := policy.Decide(sess.Role, policy.ClassClinical)
	if identity == policy.ViewDenied && clinical == policy.ViewDenied {
		return nil, g.deny(ctx, sess, domain.ActionViewPatients, nil)
	}

	// Voluntary downgrade. Full -> Anonymized only; Denied stays Denied.
	if viewPref == ViewAnonymized {
		if identity == policy.ViewFull {
			identity = policy.ViewAnonymized
		}
		if clinical == policy.ViewFull {
			clinical = policy.ViewAnonymized
		}
	}

	var views []domain.PatientView
	err = g.store.WithTx(ctx, func(tx store.Tx) error {
		patients, err := tx.Patients().ListPatients(ctx)
		if err != nil {
			return err
		}
		views = make([]domain.PatientView, 0, len(patients))
		for _, p := range patients {
			views = append(views, g.shape(p, identity, clinical))
		}

		entry := g.newEntry(sess, domain.ActionViewPatients, domain.OutcomeSuccess)
		entry.ViewLevel = effectiveLevel(identity, clinical)
		entry.Detail = fmt.Sprintf("%d records", len(views))
		return g.append(ctx, tx.Audit(), entry)
	})
	if err != nil {
		return nil, storageErr(err, "list patients")
	}

	g.metrics.IncRequest(domain.ActionViewPatients, domain.OutcomeSuccess)
	return views, nil
}

// CreatePatient validates fields, seals the reversible pseudonyms, and
// inserts the record and its audit entry in one transaction.
func (g *Gate) CreatePatient(ctx context.Context, handle string, fields domain.PatientFields) (domain.PatientView, error) {
	sess, err := g.authenticate(ctx, handle, domain.ActionCreatePatient)
	if err != nil {
		return domain.PatientView{}, err
	}
	if policy.Decide(sess.Role, policy.ClassPatientWrite) != policy.ViewFull {
		return domain.PatientView{}, g.deny(ctx, sess, domain.ActionCreatePatient, nil)
	}

	if verr := validateFields(fields); verr != nil {
		if err := g.fail(ctx, sess, domain.ActionCreatePatient, verr.Constraint, nil); err != nil {
			return domain.PatientView{}, err
		}
		return domain.PatientView{}, verr
	}

	p, err := g.buildPatient(fields)
	if err != nil {
		return domain.PatientView{}, err
	}

	err = g.store.WithTx(ctx, func(tx store.Tx) error {
		if fields.AttendingID != nil {
			if _, err := tx.Users().GetUserByID(ctx, *fields.AttendingID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return domain.NewValidationError("attending unknown")
				}
				return err
			}
		}
		if err := tx.Patients().CreatePatient(ctx, p); err != nil {
			if errors.Is(err, store.ErrConstraint) {
				return domain.NewValidationError("attending unknown")
			}
			return err
		}

		entry := g.newEntry(sess, domain.ActionCreatePatient, domain.OutcomeSuccess)
		entry.TargetID = &p.ID
		return g.append(ctx, tx.Audit(), entry)
	})
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			if aerr := g.fail(ctx, sess, domain.ActionCreatePatient, verr.Constraint, nil); aerr != nil {
				return domain.PatientView{}, aerr
			}
			return domain.PatientView{}, verr
		}
		return domain.PatientView{}, storageErr(err, "create patient")
	}

	g.metrics.IncRequest(domain.ActionCreatePatient, domain.OutcomeSuccess)
	return g.shape(p,
		policy.Decide(sess.Role, policy.ClassIdentity),
		policy.Decide(sess.Role, policy.ClassClinical)), nil
}

// UpdatePatient rewrites the mutable fields of an existing record. The
// pseudonym ciphers are re-sealed from the new values.
func (g *Gate) UpdatePatient(ctx context.Context, handle, patientID string, fields domain.PatientFields) (domain.PatientView, error) {
	sess, err := g.authenticate(ctx, handle, domain.ActionUpdatePatient)
	if err != nil {
		return domain.PatientView{}, err
	}
	if policy.Decide(sess.Role, policy.ClassPatientWrite) != policy.ViewFull {
		return domain.PatientView{}, g.deny(ctx, sess, domain.ActionUpdatePatient, &patientID)
	}

	if verr := validateFields(fields); verr != nil {
		if err := g.fail(ctx, sess, domain.ActionUpdatePatient, verr.Constraint, &patientID); err != nil {
			return domain.PatientView{}, err
		}
		return domain.PatientView{}, verr
	}

	var updated domain.Patient
	err = g.store.WithTx(ctx, func(tx store.Tx) error {
		existing, err := tx.Patients().GetPatientByID(ctx, patientID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.NewValidationError("patient unknown")
			}
			return err
		}
		if fields.AttendingID != nil {
			if _, err := tx.Users().GetUserByID(ctx, *fields.AttendingID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return domain.NewValidationError("attending unknown")
				}
				return err
			}
		}

		updated, err = g.buildPatient(fields)
		if err != nil {
			return err
		}
		updated.ID = existing.ID
		updated.CreatedAt = existing.CreatedAt

		if err := tx.Patients().UpdatePatient(ctx, updated); err != nil {
			if errors.Is(err, store.ErrConstraint) {
				return domain.NewValidationError("attending unknown")
			}
			return err
		}

		entry := g.newEntry(sess, domain.ActionUpdatePatient, domain.OutcomeSuccess)
		entry.TargetID = &patientID
		return g.append(ctx, tx.Audit(), entry)
	})
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			if aerr := g.fail(ctx, sess, domain.ActionUpdatePatient, verr.Constraint, &patientID); aerr != nil {
				return domain.PatientView{}, aerr
			}
			return domain.PatientView{}, verr
		}
		return domain.PatientView{}, storageErr(err, "update patient")
	}

	g.metrics.IncRequest(domain.ActionUpdatePatient, domain.OutcomeSuccess)
	return g.shape(updated,
		policy.Decide(sess.Role, policy.ClassIdentity),
		policy.Decide(sess.Role, policy.ClassClinical)), nil
}

// RecoverIdentity decrypts the stored pseudonyms of one patient. Only roles
// holding the recovery class reach the keeper; a tampered cipher surfaces
// as ErrDecryptionFailure with the attempt on record.
func (g *Gate) RecoverIdentity(ctx context.Context, handle, patientID string) (domain.PatientView, error) {
	sess, err := g.authenticate(ctx, handle, domain.ActionRecoverPatient)
	if err != nil {
		return domain.PatientView{}, err
	}
	if policy.Decide(sess.Role, policy.ClassRecovery) != policy.ViewFull {
		return domain.PatientView{}, g.deny(ctx, sess, domain.ActionRecoverPatient, &patientID)
	}

	var view domain.PatientView
	err = g.store.WithTx(ctx, func(tx store.Tx) error {
		p, err := tx.Patients().GetPatientByID(ctx, patientID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.NewValidationError("patient unknown")
			}
			return err
		}

		name, err := g.anon.Recover(p.NameCipher)
		if err != nil {
			return err
		}
		contact, err := g.anon.Recover(p.ContactCipher)
		if err != nil {
			return err
		}

		view = domain.PatientView{
			ID:        p.ID,
			Name:      name,
			Contact:   contact,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		}
		if policy.Decide(sess.Role, policy.ClassClinical) == policy.ViewFull {
			view.Diagnosis = p.Diagnosis
		}

		entry := g.newEntry(sess, domain.ActionRecoverPatient, domain.OutcomeSuccess)
		entry.TargetID = &patientID
		entry.ViewLevel = policy.ViewFull.String()
		return g.append(ctx, tx.Audit(), entry)
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDecryptionFailure):
			if aerr := g.fail(ctx, sess, domain.ActionRecoverPatient, "decryption failed", &patientID); aerr != nil {
				return domain.PatientView{}, aerr
			}
			return domain.PatientView{}, domain.ErrDecryptionFailure
		case domain.IsValidation(err):
			var verr *domain.ValidationError
			errors.As(err, &verr)
			if aerr := g.fail(ctx, sess, domain.ActionRecoverPatient, verr.Constraint, &patientID); aerr != nil {
				return domain.PatientView{}, aerr
			}
			return domain.PatientView{}, verr
		default:
			return domain.PatientView{}, storageErr(err, "recover identity")
		}
	}

	g.metrics.IncRequest(domain.ActionRecoverPatient, domain.OutcomeSuccess)
	return view, nil
}

// buildPatient seals the pseudonym ciphers and assembles a new record.
func (g *Gate) buildPatient(fields domain.PatientFields) (domain.Patient, error) {
	nameCipher, err := g.anon.Pseudonymize(fields.Name)
	if err != nil {
		return domain.Patient{}, fmt.Errorf("seal name: %w", err)
	}
	contactCipher, err := g.anon.Pseudonymize(fields.Contact)
	if err != nil {
		return domain.Patient{}, fmt.Errorf("seal contact: %w", err)
	}
	now := g.now()
	return domain.Patient{
		ID:            idx.New().String(),
		Name:          fields.Name,
		Contact:       fields.Contact,
		Diagnosis:     fields.Diagnosis,
		NameCipher:    nameCipher,
		ContactCipher: contactCipher,
		AttendingID:   fields.AttendingID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// shape renders a stored patient at the given view levels. Denied fields
// are omitted entirely rather than blanked, so serialized views carry no
// trace of what was withheld.
func (g *Gate) shape(p domain.Patient, identity, clinical policy.ViewLevel) domain.PatientView {
	v := domain.PatientView{
		ID:        p.ID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	switch identity {
	case policy.ViewFull:
		v.Name = p.Name
		v.Contact = p.Contact
	case policy.ViewAnonymized:
		v.Name = g.anon.MaskName(p.Name)
		v.Contact = g.anon.MaskContact(p.Contact)
	}
	switch clinical {
	case policy.ViewFull:
		v.Diagnosis = p.Diagnosis
	case policy.ViewAnonymized:
		v.Diagnosis = g.anon.MaskDiagnosis(p.Diagnosis)
	}
	return v
}

// effectiveLevel summarises a pair of view levels for the audit trail.
func effectiveLevel(identity, clinical policy.ViewLevel) string {
	if identity == policy.ViewFull || clinical == policy.ViewFull {
		return policy.ViewFull.String()
	}
	if identity == policy.ViewAnonymized || clinical == policy.ViewAnonymized {
		return policy.ViewAnonymized.String()
	}
	return policy.ViewDenied.String()
}

func validateFields(f domain.PatientFields) *domain.ValidationError {
	if strings.TrimSpace(f.Name) == "" {
		return domain.NewValidationError("name required")
	}
	if strings.TrimSpace(f.Contact) == "" {
		return domain.NewValidationError("contact required")
	}
	if digitCount(f.Contact) < 7 {
		return domain.NewValidationError("contact format")
	}
	if strings.TrimSpace(f.Diagnosis) == "" {
		return domain.NewValidationError("diagnosis required")
	}
	return nil
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// storageErr wraps a transaction error as ErrStorageUnavailable unless it
// already carries a domain sentinel.
func storageErr(err error, op string) error {
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrStorageUnavailable, op, err)
}

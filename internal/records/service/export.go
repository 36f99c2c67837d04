package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/oakfieldhealth/wardgate/internal/records/domain"
	"github.com/oakfieldhealth/wardgate/internal/records/policy"
	"github.com/oakfieldhealth/wardgate/internal/records/store"
)

// ExportPatientsCSV streams the patient list to w as CSV, shaped by the same
// policy decisions as GetPatients. The rows are collected inside the
// transaction alongside the audit entry; writing to w happens after commit
// so a slow consumer cannot hold a database transaction open.
func (g *Gate) ExportPatientsCSV(ctx context.Context, handle string, w io.Writer) error {
	sess, err := g.authenticate(ctx, handle, domain.ActionExportCSV)
	if err != nil {
		return err
	}

	identity := policy.Decide(sess.Role, policy.ClassIdentity)
	clinical := policy.Decide(sess.Role, policy.ClassClinical)
	if identity == policy.ViewDenied && clinical == policy.ViewDenied {
		return g.deny(ctx, sess, domain.ActionExportCSV, nil)
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

		entry := g.newEntry(sess, domain.ActionExportCSV, domain.OutcomeSuccess)
		entry.ViewLevel = effectiveLevel(identity, clinical)
		entry.Detail = fmt.Sprintf("patients.csv, %d rows", len(views))
		return g.append(ctx, tx.Audit(), entry)
	})
	if err != nil {
		return storageErr(err, "export patients")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "contact", "diagnosis", "created_at", "updated_at"}); err != nil {
		return err
	}
	for _, v := range views {
		row := []string{
			v.ID,
			v.Name,
			v.Contact,
			v.Diagnosis,
			v.CreatedAt.UTC().Format(time.RFC3339),
			v.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()

	g.metrics.IncRequest(domain.ActionExportCSV, domain.OutcomeSuccess)
	return cw.Error()
}

// ExportAuditCSV streams the audit trail to w as CSV. Same authorization as
// AuditLog: a Full view on the trail.
func (g *Gate) ExportAuditCSV(ctx context.Context, handle string, filter domain.AuditFilter, w io.Writer) error {
	sess, err := g.authenticate(ctx, handle, domain.ActionExportCSV)
	if err != nil {
		return err
	}
	if policy.Decide(sess.Role, policy.ClassAuditTrail) != policy.ViewFull {
		return g.deny(ctx, sess, domain.ActionExportCSV, nil)
	}

	var entries []domain.AuditEntry
	err = g.store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		entries, err = tx.Audit().List(ctx, filter)
		if err != nil {
			return err
		}
		entry := g.newEntry(sess, domain.ActionExportCSV, domain.OutcomeSuccess)
		entry.Detail = fmt.Sprintf("audit.csv, %d rows", len(entries))
		return g.append(ctx, tx.Audit(), entry)
	})
	if err != nil {
		return storageErr(err, "export audit")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "occurred_at", "actor_id", "actor_role", "action", "target_id", "outcome", "view_level", "detail"}); err != nil {
		return err
	}
	for _, e := range entries {
		target := ""
		if e.TargetID != nil {
			target = *e.TargetID
		}
		row := []string{
			e.ID,
			e.OccurredAt.UTC().Format(time.RFC3339),
			e.ActorID,
			e.ActorRole,
			e.Action,
			target,
			e.Outcome,
			e.ViewLevel,
			e.Detail,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()

	g.metrics.IncRequest(domain.ActionExportCSV, domain.OutcomeSuccess)
	return cw.Error()
}

package service

import (
	"context"
	"fmt"

	"github.com/oakfieldhealth/wardgate/internal/records/domain"
	"github.com/oakfieldhealth/wardgate/internal/records/policy"
	"github.com/oakfieldhealth/wardgate/internal/records/store"
)

// AuditLog returns audit entries matching the filter, newest first. Reading
// the trail is itself on the trail: the viewing entry is appended in the
// same transaction, after the query, so it never lists itself.
func (g *Gate) AuditLog(ctx context.Context, handle string, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	sess, err := g.authenticate(ctx, handle, domain.ActionViewAudit)
	if err != nil {
		return nil, err
	}
	if policy.Decide(sess.Role, policy.ClassAuditTrail) != policy.ViewFull {
		return nil, g.deny(ctx, sess, domain.ActionViewAudit, nil)
	}

	var entries []domain.AuditEntry
	err = g.store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		entries, err = tx.Audit().List(ctx, filter)
		if err != nil {
			return err
		}
		entry := g.newEntry(sess, domain.ActionViewAudit, domain.OutcomeSuccess)
		entry.Detail = fmt.Sprintf("%d entries", len(entries))
		return g.append(ctx, tx.Audit(), entry)
	})
	if err != nil {
		return nil, storageErr(err, "list audit")
	}

	g.metrics.IncRequest(domain.ActionViewAudit, domain.OutcomeSuccess)
	return entries, nil
}

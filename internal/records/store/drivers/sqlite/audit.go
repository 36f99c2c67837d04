package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/oakfieldhealth/wardgate/internal/records/domain"
)

type auditRepo struct {
	db dbtx
}

func (r *auditRepo) Append(ctx context.Context, e domain.AuditEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_entries (id, occurred_at, actor_id, actor_role, action, target_id, outcome, view_level, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.OccurredAt.UTC(), e.ActorID, e.ActorRole, e.Action,
		mapOptionalString(e.TargetID), e.Outcome, e.ViewLevel, e.Detail)
	return err
}

func (r *auditRepo) List(ctx context.Context, f domain.AuditFilter) ([]domain.AuditEntry, error) {
	var (
		conds []string
		args  []any
	)
	if f.Action != "" {
		conds = append(conds, "action = ?")
		args = append(args, f.Action)
	}
	if f.ActorID != "" {
		conds = append(conds, "actor_id = ?")
		args = append(args, f.ActorID)
	}
	if f.ActorRole != "" {
		conds = append(conds, "actor_role = ?")
		args = append(args, f.ActorRole)
	}
	if !f.Since.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, f.Since.UTC())
	}

	query := `SELECT id, occurred_at, actor_id, actor_role, action, target_id, outcome, view_level, detail
	          FROM audit_entries`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY occurred_at DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var target sql.NullString
		if err := rows.Scan(&e.ID, &e.OccurredAt, &e.ActorID, &e.ActorRole,
			&e.Action, &target, &e.Outcome, &e.ViewLevel, &e.Detail); err != nil {
			return nil, err
		}
		e.TargetID = mapNullStringPtr(target)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *auditRepo) CountBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_entries WHERE occurred_at < ?`, cutoff.UTC()).Scan(&count)
	return count, err
}

func (r *auditRepo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM audit_entries WHERE occurred_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

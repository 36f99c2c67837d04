package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oakfieldhealth/wardgate/internal/records/domain"
	"github.com/oakfieldhealth/wardgate/internal/records/metrics"
	"github.com/oakfieldhealth/wardgate/internal/records/policy"
	"github.com/oakfieldhealth/wardgate/internal/records/store"
	"github.com/oakfieldhealth/wardgate/pkg/idx"
)

// Retention threshold bounds, in days. A sweep below the floor would purge
// live clinical data; anything above the ceiling is a typo.
const (
	MinRetentionDays = 30
	MaxRetentionDays = 3650
)

// SweepResult reports what one retention pass removed.
type SweepResult struct {
	PatientsPurged int64 `json:"patients_purged"`
	AuditPurged    int64 `json:"audit_purged"`
}

// RetentionService runs periodic retention sweeps in the background. Each
// pass purges patient records past the retention threshold and audit entries
// past the (longer) audit horizon, logging each purge to the trail before
// deleting.
type RetentionService struct {
	Store         store.Store
	Logger        *slog.Logger
	Metrics       *metrics.Metrics
	Interval      time.Duration
	RetentionDays int
	AuditDays     int

	stopCh chan struct{}
	doneCh chan struct{}

	now func() time.Time
}

// NewRetentionService builds the background sweeper. An interval of zero or
// less defaults to 24 hours; out-of-bounds thresholds are clamped.
func NewRetentionService(st store.Store, logger *slog.Logger, m *metrics.Metrics, interval time.Duration, retentionDays, auditDays int) *RetentionService {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if retentionDays < MinRetentionDays {
		retentionDays = MinRetentionDays
	}
	if retentionDays > MaxRetentionDays {
		retentionDays = MaxRetentionDays
	}
	if auditDays < retentionDays {
		auditDays = retentionDays
	}
	return &RetentionService{
		Store:         st,
		Logger:        logger,
		Metrics:       m,
		Interval:      interval,
		RetentionDays: retentionDays,
		AuditDays:     auditDays,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
		now:           time.Now,
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut down.
func (s *RetentionService) Start() {
	go s.run()
	s.Logger.Info("retention service started",
		"interval", s.Interval,
		"retention_days", s.RetentionDays,
		"audit_days", s.AuditDays)
}

// Stop shuts down the worker, blocking until any in-progress sweep finishes.
func (s *RetentionService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("retention service stopped")
}

func (s *RetentionService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.sweepOnce()

	for {
		select {
		case <-ticker.C:
			s.sweepOnce()
		case <-s.stopCh:
			return
		}
	}
}

func (s *RetentionService) sweepOnce() {
	ctx := context.Background()
	res, err := sweep(ctx, s.Store, s.Metrics, domain.SystemActor, "", s.RetentionDays, s.AuditDays, s.now())
	if err != nil {
		s.Logger.Error("retention sweep failed", "error", err)
		return
	}
	s.Logger.Info("retention sweep complete",
		"patients_purged", res.PatientsPurged,
		"audit_purged", res.AuditPurged)
}

// Sweep runs one retention pass on demand, attributed to the calling admin.
// thresholdDays overrides the configured patient retention for this pass and
// must sit within [MinRetentionDays, MaxRetentionDays].
func (g *Gate) Sweep(ctx context.Context, handle string, thresholdDays int, auditDays int) (SweepResult, error) {
	sess, err := g.authenticate(ctx, handle, domain.ActionRetentionSweep)
	if err != nil {
		return SweepResult{}, err
	}
	if policy.Decide(sess.Role, policy.ClassAuditTrail) != policy.ViewFull {
		return SweepResult{}, g.deny(ctx, sess, domain.ActionRetentionSweep, nil)
	}

	if thresholdDays < MinRetentionDays || thresholdDays > MaxRetentionDays {
		constraint := fmt.Sprintf("retention threshold out of bounds (%d-%d days)", MinRetentionDays, MaxRetentionDays)
		if err := g.fail(ctx, sess, domain.ActionRetentionSweep, constraint, nil); err != nil {
			return SweepResult{}, err
		}
		return SweepResult{}, domain.NewValidationError(constraint)
	}
	if auditDays < thresholdDays {
		auditDays = thresholdDays
	}

	res, err := sweep(ctx, g.store, g.metrics, sess.UserID, sess.Role, thresholdDays, auditDays, g.now())
	if err != nil {
		return SweepResult{}, storageErr(err, "retention sweep")
	}

	g.metrics.IncRequest(domain.ActionRetentionSweep, domain.OutcomeSuccess)
	return res, nil
}

// sweep purges old patient records, then old audit entries. Each purge runs
// in its own transaction: count, log the purge to the trail, delete. A pass
// that finds nothing to purge appends nothing. The entry logging an audit
// purge carries the current timestamp, so it always survives the deletion it
// describes.
func sweep(ctx context.Context, st store.Store, m *metrics.Metrics, actorID, actorRole string, retentionDays, auditDays int, now time.Time) (SweepResult, error) {
	var res SweepResult

	patientCutoff := now.AddDate(0, 0, -retentionDays)
	err := st.WithTx(ctx, func(tx store.Tx) error {
		count, err := tx.Patients().CountPatientsBefore(ctx, patientCutoff)
		if err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		entry := domain.AuditEntry{
			ID:         idx.New().String(),
			OccurredAt: now,
			ActorID:    actorID,
			ActorRole:  actorRole,
			Action:     domain.ActionRetentionSweep,
			Outcome:    domain.OutcomeSuccess,
			Detail:     fmt.Sprintf("purged %d patient records older than %d days", count, retentionDays),
		}
		if err := tx.Audit().Append(ctx, entry); err != nil {
			return err
		}
		deleted, err := tx.Patients().DeletePatientsBefore(ctx, patientCutoff)
		if err != nil {
			return err
		}
		res.PatientsPurged = deleted
		return nil
	})
	if err != nil {
		return SweepResult{}, err
	}

	auditCutoff := now.AddDate(0, 0, -auditDays)
	err = st.WithTx(ctx, func(tx store.Tx) error {
		count, err := tx.Audit().CountBefore(ctx, auditCutoff)
		if err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		entry := domain.AuditEntry{
			ID:         idx.New().String(),
			OccurredAt: now,
			ActorID:    actorID,
			ActorRole:  actorRole,
			Action:     domain.ActionRetentionSweep,
			Outcome:    domain.OutcomeSuccess,
			Detail:     fmt.Sprintf("purged %d audit entries older than %d days", count, auditDays),
		}
		if err := tx.Audit().Append(ctx, entry); err != nil {
			return err
		}
		deleted, err := tx.Audit().DeleteBefore(ctx, auditCutoff)
		if err != nil {
			return err
		}
		res.AuditPurged = deleted
		return nil
	})
	if err != nil {
		return SweepResult{}, err
	}

	m.AddSweepPurged(res.PatientsPurged)
	return res, nil
}

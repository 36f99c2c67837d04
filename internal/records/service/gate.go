// Package service implements the session gate: the single choke point
// between callers and patient data. Every operation authenticates the
// session, consults the access policy, shapes the response to the granted
// view level, and appends exactly one audit entry describing what happened.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oakfieldhealth/wardgate/internal/records/anonymize"
	"github.com/oakfieldhealth/wardgate/internal/records/domain"
	"github.com/oakfieldhealth/wardgate/internal/records/metrics"
	"github.com/oakfieldhealth/wardgate/internal/records/store"
	"github.com/oakfieldhealth/wardgate/pkg/cryptox"
	"github.com/oakfieldhealth/wardgate/pkg/httpx"
	"github.com/oakfieldhealth/wardgate/pkg/idx"
)

// Gate mediates all access to patient records. It owns no policy of its own;
// decisions come from the policy table and the audit trail records them.
type Gate struct {
	store    store.Store
	anon     *anonymize.Anonymizer
	sessions *SessionManager
	logger   *slog.Logger
	metrics  *metrics.Metrics

	// TOTP secrets issued by EnrollMFA, held until VerifyMFA confirms the
	// authenticator. Lost on restart, which just means enrolling again.
	pending pendingSecrets

	now func() time.Time
}

type pendingSecrets struct {
	mu sync.Mutex
	m  map[string]string
}

func (p *pendingSecrets) put(userID, secret string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.m == nil {
		p.m = make(map[string]string)
	}
	p.m[userID] = secret
}

func (p *pendingSecrets) take(userID string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	secret, ok := p.m[userID]
	if ok {
		delete(p.m, userID)
	}
	return secret, ok
}

func NewGate(st store.Store, anon *anonymize.Anonymizer, sessions *SessionManager, logger *slog.Logger, m *metrics.Metrics) *Gate {
	return &Gate{
		store:    st,
		anon:     anon,
		sessions: sessions,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
}

// newEntry builds an audit entry stamped with a fresh id and the gate clock.
func (g *Gate) newEntry(sess domain.Session, action, outcome string) domain.AuditEntry {
	return domain.AuditEntry{
		ID:         idx.New().String(),
		OccurredAt: g.now(),
		ActorID:    sess.UserID,
		ActorRole:  sess.Role,
		Action:     action,
		Outcome:    outcome,
	}
}

// append writes one audit entry through a. A failed append is a storage
// failure: access without a trail is refused, so the caller's operation
// fails too.
func (g *Gate) append(ctx context.Context, a store.Audit, e domain.AuditEntry) error {
	if err := a.Append(ctx, e); err != nil {
		g.logger.ErrorContext(ctx, "audit append failed",
			slog.String("action", e.Action),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: audit append: %v", domain.ErrStorageUnavailable, err)
	}
	g.metrics.IncAuditEntry()
	return nil
}

// auditOnly appends a standalone entry outside any transaction. Used for
// denials and failures, where there is no data write to be atomic with.
func (g *Gate) auditOnly(ctx context.Context, e domain.AuditEntry) error {
	return g.append(ctx, g.store.Audit(), e)
}

// authenticate resolves the session behind handle, auditing the rejection
// when the handle is invalid or idle-expired.
func (g *Gate) authenticate(ctx context.Context, handle, action string) (domain.Session, error) {
	sess, err := g.sessions.Touch(handle)
	if err != nil {
		entry := domain.AuditEntry{
			ID:         idx.New().String(),
			OccurredAt: g.now(),
			ActorID:    domain.AnonymousActor,
			Action:     action,
			Outcome:    domain.OutcomeFailure,
			Detail:     "invalid or expired session",
		}
		if aerr := g.auditOnly(ctx, entry); aerr != nil {
			return domain.Session{}, aerr
		}
		g.metrics.IncRequest(action, domain.OutcomeFailure)
		return domain.Session{}, domain.ErrAuthFailure
	}
	return sess, nil
}

// deny audits a policy refusal and returns ErrDenied.
func (g *Gate) deny(ctx context.Context, sess domain.Session, action string, targetID *string) error {
	entry := g.newEntry(sess, action, domain.OutcomeDenied)
	entry.TargetID = targetID
	if err := g.auditOnly(ctx, entry); err != nil {
		return err
	}
	g.metrics.IncRequest(action, domain.OutcomeDenied)
	return domain.ErrDenied
}

// fail audits an operation failure with the given detail.
func (g *Gate) fail(ctx context.Context, sess domain.Session, action, detail string, targetID *string) error {
	entry := g.newEntry(sess, action, domain.OutcomeFailure)
	entry.TargetID = targetID
	entry.Detail = detail
	if err := g.auditOnly(ctx, entry); err != nil {
		return err
	}
	g.metrics.IncRequest(action, domain.OutcomeFailure)
	return nil
}

// Login verifies credentials and, when the account has TOTP enrolled, the
// one-time code. Unknown usernames burn the same bcrypt cost as wrong
// passwords so response timing never reveals which it was.
func (g *Gate) Login(ctx context.Context, username, password, mfaCode string) (string, domain.Session, error) {
	reject := func(actor string) (string, domain.Session, error) {
		entry := domain.AuditEntry{
			ID:         idx.New().String(),
			OccurredAt: g.now(),
			ActorID:    actor,
			Action:     domain.ActionLogin,
			Outcome:    domain.OutcomeFailure,
			Detail:     "invalid credentials",
		}
		if err := g.auditOnly(ctx, entry); err != nil {
			return "", domain.Session{}, err
		}
		g.metrics.IncRequest(domain.ActionLogin, domain.OutcomeFailure)
		return "", domain.Session{}, domain.ErrAuthFailure
	}

	user, err := g.store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			cryptox.DummyVerify(password)
			return reject(username)
		}
		return "", domain.Session{}, fmt.Errorf("%w: lookup user: %v", domain.ErrStorageUnavailable, err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return reject(username)
	}

	if user.MFASecret != nil {
		if !validTOTP(mfaCode, *user.MFASecret, g.now()) {
			return reject(username)
		}
	}

	role, err := g.store.Roles().GetRoleByID(ctx, user.RoleID)
	if err != nil {
		return "", domain.Session{}, fmt.Errorf("%w: lookup role: %v", domain.ErrStorageUnavailable, err)
	}

	handle, sess, err := g.sessions.Issue(user, role.Name)
	if err != nil {
		return "", domain.Session{}, err
	}

	if err := g.auditOnly(ctx, g.newEntry(sess, domain.ActionLogin, domain.OutcomeSuccess)); err != nil {
		g.sessions.Revoke(handle)
		return "", domain.Session{}, err
	}
	g.metrics.IncRequest(domain.ActionLogin, domain.OutcomeSuccess)

	g.logger.InfoContext(ctx, "login",
		slog.String("user_id", sess.UserID),
		slog.String("role", sess.Role))

	return handle, sess, nil
}

// Logout revokes the session behind handle.
func (g *Gate) Logout(ctx context.Context, handle string) error {
	sess, err := g.authenticate(ctx, handle, domain.ActionLogout)
	if err != nil {
		return err
	}
	g.sessions.Revoke(handle)
	if err := g.auditOnly(ctx, g.newEntry(sess, domain.ActionLogout, domain.OutcomeSuccess)); err != nil {
		return err
	}
	g.metrics.IncRequest(domain.ActionLogout, domain.OutcomeSuccess)
	return nil
}

// ValidateSession implements httpx.SessionValidator for the HTTP middleware.
// Rejections are audited here because the middleware short-circuits before
// any handler runs.
func (g *Gate) ValidateSession(ctx context.Context, token string) (httpx.SessionInfo, error) {
	sess, err := g.sessions.Touch(token)
	if err != nil {
		entry := domain.AuditEntry{
			ID:         idx.New().String(),
			OccurredAt: g.now(),
			ActorID:    domain.AnonymousActor,
			Action:     domain.ActionSessionReject,
			Outcome:    domain.OutcomeFailure,
			Detail:     "invalid or expired session",
		}
		if aerr := g.auditOnly(ctx, entry); aerr != nil {
			return httpx.SessionInfo{}, aerr
		}
		g.metrics.IncRequest(domain.ActionSessionReject, domain.OutcomeFailure)
		return httpx.SessionInfo{}, domain.ErrAuthFailure
	}
	return httpx.SessionInfo{UserID: sess.UserID, Role: sess.Role}, nil
}

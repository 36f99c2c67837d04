package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oakfieldhealth/wardgate/internal/records/domain"
	"github.com/oakfieldhealth/wardgate/internal/records/metrics"
	"github.com/oakfieldhealth/wardgate/pkg/idx"
)

// DefaultIdleTimeout is the sliding inactivity window after which a session
// is no longer usable and the caller must authenticate again.
const DefaultIdleTimeout = 30 * time.Minute

// SessionManager keeps all live sessions in process memory. The handle given
// to callers is an HS256 JWT carrying the session id, but the in-memory map
// is authoritative: a restart, a Revoke or an idle expiry invalidates the
// handle no matter what the token says.
type SessionManager struct {
	secret  []byte
	idle    time.Duration
	metrics *metrics.Metrics

	mu       sync.Mutex
	sessions map[string]*domain.Session

	now func() time.Time
}

// NewSessionManager builds a manager signing handles with secret. An idle
// duration of zero falls back to DefaultIdleTimeout.
func NewSessionManager(secret []byte, idle time.Duration, m *metrics.Metrics) *SessionManager {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &SessionManager{
		secret:   secret,
		idle:     idle,
		metrics:  m,
		sessions: make(map[string]*domain.Session),
		now:      time.Now,
	}
}

// Issue creates a session for user and returns the signed handle alongside
// the session itself.
func (sm *SessionManager) Issue(user domain.User, roleName string) (string, domain.Session, error) {
	now := sm.now()
	sess := domain.Session{
		ID:           idx.New().String(),
		UserID:       user.ID,
		Username:     user.Username,
		Role:         roleName,
		IssuedAt:     now,
		LastActivity: now,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sess.ID,
		"sub": user.ID,
		"iat": now.Unix(),
	})
	handle, err := token.SignedString(sm.secret)
	if err != nil {
		return "", domain.Session{}, fmt.Errorf("sign session handle: %w", err)
	}

	sm.mu.Lock()
	sm.sessions[sess.ID] = &sess
	sm.mu.Unlock()

	return handle, sess, nil
}

// Touch verifies handle, enforces the sliding idle window and, on success,
// resets the window and returns a copy of the session. Every failure mode
// collapses to ErrAuthFailure.
func (sm *SessionManager) Touch(handle string) (domain.Session, error) {
	sid, err := sm.parseHandle(handle)
	if err != nil {
		return domain.Session{}, domain.ErrAuthFailure
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	sess, ok := sm.sessions[sid]
	if !ok {
		return domain.Session{}, domain.ErrAuthFailure
	}

	now := sm.now()
	if now.Sub(sess.LastActivity) > sm.idle {
		delete(sm.sessions, sid)
		sm.metrics.IncSessionExpired()
		return domain.Session{}, domain.ErrAuthFailure
	}

	sess.LastActivity = now
	return *sess, nil
}

// Revoke drops the session behind handle, if any. Invalid handles are a
// no-op so logout never fails.
func (sm *SessionManager) Revoke(handle string) {
	sid, err := sm.parseHandle(handle)
	if err != nil {
		return
	}
	sm.mu.Lock()
	delete(sm.sessions, sid)
	sm.mu.Unlock()
}

// Len reports the number of live sessions, expired ones included until their
// next Touch.
func (sm *SessionManager) Len() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.sessions)
}

func (sm *SessionManager) parseHandle(handle string) (string, error) {
	token, err := jwt.Parse(handle, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return sm.secret, nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrAuthFailure
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrAuthFailure
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", domain.ErrAuthFailure
	}
	return sid, nil
}

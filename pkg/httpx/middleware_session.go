package httpx

import (
	"context"
	"net/http"
	"strings"
)

// SessionInfo is what the gate reveals about a verified session: enough for
// middleware concerns (rate limit keys, logging) without leaking the session
// object itself.
type SessionInfo struct {
	UserID string
	Role   string
}

// SessionValidator checks a bearer token against the live session registry.
// Implemented by the gate; expired and unknown sessions both fail.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (SessionInfo, error)
}

// SessionMiddleware extracts the bearer token, validates it, and injects the
// token and session identity into the request context. The gate re-checks the
// session on every operation; this middleware exists so unauthenticated
// requests are rejected before touching any handler.
func SessionMiddleware(v SessionValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			info, err := v.ValidateSession(r.Context(), token)
			if err != nil {
				writeBearerError(w, "session invalid or expired")
				return
			}

			ctx := context.WithValue(r.Context(), CtxKeySessionToken, token)
			ctx = context.WithValue(ctx, CtxKeyUserID, info.UserID)
			ctx = context.WithValue(ctx, CtxKeyRole, info.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-style error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}

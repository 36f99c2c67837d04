package httpx

import "context"

type ctxKey string

const (
	// CtxKeySessionToken holds the raw bearer token for the request.
	CtxKeySessionToken ctxKey = "session_token"
	// CtxKeyUserID holds the authenticated user's id.
	CtxKeyUserID ctxKey = "user_id"
	// CtxKeyRole holds the authenticated user's role name.
	CtxKeyRole ctxKey = "role"
)

// SessionTokenFromCtx returns the raw bearer token attached by the session
// middleware, or "" when the request never authenticated.
func SessionTokenFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeySessionToken).(string); ok {
		return v
	}
	return ""
}

func userIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

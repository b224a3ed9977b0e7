package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID  ctxKey = "user_id"
	CtxKeyEmailID ctxKey = "email_id"
	CtxKeyRole    ctxKey = "role"
)

// UserIDFromCtx returns the authenticated user's id, or "" when the
// request never passed the session middleware.
func UserIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// RoleFromCtx returns the authenticated user's role, or "".
func RoleFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyRole).(string); ok {
		return v
	}
	return ""
}

// EmailIDFromCtx returns the authenticated user's email, or "".
func EmailIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyEmailID).(string); ok {
		return v
	}
	return ""
}

package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/codemasterhq/codemaster/internal/revocation"
	"github.com/codemasterhq/codemaster/internal/store"
	"github.com/codemasterhq/codemaster/pkg/httpx"
	"github.com/codemasterhq/codemaster/pkg/jwtx"
	"github.com/codemasterhq/codemaster/pkg/slogx"
)

// sessionCookieName is the cookie the session token travels in.
const sessionCookieName = "token"

// SessionMiddleware authenticates the request from the session cookie.
// Admission requires, in order: a cookie, a verifiable unexpired token, no
// revocation entry, and a still-existing account. Each gate failing short of
// a backend outage yields 401; only a credential-store failure yields 500.
func SessionMiddleware(verifier jwtx.Verifier, registry revocation.Registry, users store.Users) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				httpx.WriteError(w, http.StatusUnauthorized,
					"unauthorized", "Authentication required")
				return
			}
			token := cookie.Value

			claims, err := verifier.Verify(token)
			if err != nil {
				msg := "Invalid session token"
				if errors.Is(err, jwtx.ErrExpired) {
					msg = "Session expired"
				}
				httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", msg)
				return
			}

			if registry.IsBlocked(ctx, token) {
				httpx.WriteError(w, http.StatusUnauthorized,
					"unauthorized", "Session was logged out")
				return
			}

			// The account must still exist. Deleted accounts lock out
			// immediately regardless of remaining token lifetime.
			if _, err := users.GetUserByID(ctx, claims.Subject); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					httpx.WriteError(w, http.StatusUnauthorized,
						"unauthorized", "Account no longer exists")
					return
				}
				log.Error("session check: credential store unavailable", "err", err)
				httpx.WriteError(w, http.StatusInternalServerError,
					"server_error", "Unable to verify session")
				return
			}

			ctx = context.WithValue(ctx, httpx.CtxKeyUserID, claims.Subject)
			ctx = context.WithValue(ctx, httpx.CtxKeyEmailID, claims.EmailID)
			ctx = context.WithValue(ctx, httpx.CtxKeyRole, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects authenticated non-admin sessions. Must sit inside
// SessionMiddleware in the chain.
func RequireAdmin() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if httpx.RoleFromCtx(r.Context()) != "admin" {
				httpx.WriteError(w, http.StatusForbidden,
					"forbidden", "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func setSessionCookie(w http.ResponseWriter, token string, maxAge int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hamkuu/fasthtml-admin/internal/apperror"
	"github.com/hamkuu/fasthtml-admin/internal/repository"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the subject id we store per request.
type contextKey string

const subjectKey contextKey = "subject"

// SessionCookie is the name of the cookie carrying the opaque session token.
const SessionCookie = "session"

// RequireSession is the session gate applied to every route outside the
// bypass set (login entry, OAuth callback, logout).
//
// A request is authenticated iff its cookie maps to a live session with a
// non-empty subject id. Anything else — no cookie, unknown token, expired
// session — is not an error: the browser is sent to the login entry point
// with 303 See Other, which is safe to replay as a GET. The gate never
// touches the user store.
func RequireSession(sessions *SessionStore, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			subject, ok := sessions.Subject(cookie.Value)
			if !ok || subject == "" {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubjectFromContext retrieves the authenticated subject id bound by
// RequireSession. Returns ("", false) on routes the gate never saw.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok && subject != ""
}

// RequireAdmin enforces the authorization policy on admin-only routes. It
// runs after RequireSession, so the caller is already authenticated — a
// denial here is a distinct state and answers 403, never a login redirect.
//
// The check needs the stored email, so this is the one middleware that
// reads the user store. A subject with a live session but no row (possible
// only if the store was reset underneath running sessions) is treated as a
// plain denial; an actual store fault is a 500 with no internals exposed.
func RequireAdmin(users repository.UserRepository, policy AdminPolicy, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := SubjectFromContext(r.Context())
			if !ok {
				// only reachable if the route was wired without RequireSession
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			user, err := users.GetByOAuthID(r.Context(), subject)
			if err != nil {
				if errors.Is(err, apperror.ErrNotFound) {
					forbidden(w)
					return
				}
				logger.Error("admin check: user lookup failed",
					slog.String("subject", subject),
					slog.String("error", err.Error()),
				)
				http.Error(w, `{"error":"internal_error","message":"An internal error occurred"}`, http.StatusInternalServerError)
				return
			}

			if !policy.Allows(user) {
				logger.Info("admin access denied",
					slog.Int64("userID", user.ID),
				)
				forbidden(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func forbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	w.Write([]byte(`{"error":"forbidden","message":"You do not have access to this page."}`))
}

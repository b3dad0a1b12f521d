package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hamkuu/fasthtml-admin/internal/auth"
	"github.com/hamkuu/fasthtml-admin/internal/service"
)

// AuthHandler manages the Google OAuth login flow and the session cookie.
//
//   - HandleLoginEntry → the unauthenticated landing route; hands the
//     browser the provider redirect link
//   - HandleCallback   → receives the provider callback, resolves the
//     identity, binds a session
//   - HandleLogout     → destroys the session
type AuthHandler struct {
	google     *auth.GoogleProvider
	state      *auth.StateService
	sessions   *auth.SessionStore
	identity   *service.IdentityService
	sessionTTL time.Duration
	logger     *slog.Logger
}

func NewAuthHandler(
	google *auth.GoogleProvider,
	state *auth.StateService,
	sessions *auth.SessionStore,
	identity *service.IdentityService,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		google:     google,
		state:      state,
		sessions:   sessions,
		identity:   identity,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// HandleLoginEntry is the login entry point.
//
// HTTP: GET /
//
// It issues a signed state value and returns the provider authorization URL
// as a payload; the presentation layer renders it as the "Login with
// Google" link. The gate's redirect target is this route, so it must stay
// reachable without a session.
func (h *AuthHandler) HandleLoginEntry(w http.ResponseWriter, r *http.Request) {
	state, err := h.state.Issue()
	if err != nil {
		h.logger.Error("login entry: issuing state failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"loginUrl": h.google.AuthURL(state),
	})
}

// HandleCallback completes the OAuth login flow.
//
// HTTP: GET /auth/google/callback?code=xxx&state=yyy
//
// Flow:
//  1. Verify the state parameter (signature + expiry — the CSRF check)
//  2. Exchange the code for a verified identity claim
//  3. Resolve the claim to a user row (find-or-create)
//  4. Bind a session and set the opaque token cookie
//  5. 303 to the post-login landing route
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if err := h.state.Validate(r.URL.Query().Get("state")); err != nil {
		h.logger.Warn("auth callback: state rejected", slog.String("error", err.Error()))
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	// the user denied the consent screen — back to the login entry
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: authorization denied", slog.String("error", errParam))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	claim, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: exchange failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	user, err := h.identity.Resolve(r.Context(), claim)
	if err != nil {
		h.logger.Error("auth callback: identity resolution failed",
			slog.String("subject", claim.SubjectID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	token := h.sessions.Bind(user.OAuthID)

	// HttpOnly keeps the token away from scripts; SameSite=Lax still sends
	// it on the top-level navigations this app is made of.
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("user authenticated",
		slog.Int64("userID", user.ID),
		slog.String("subject", user.OAuthID),
	)

	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// HandleLogout destroys the session and clears the cookie.
//
// HTTP: GET /logout
//
// Logout sits in the gate's bypass set, so it works with or without a live
// session; without one it is a harmless redirect.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookie); err == nil && cookie.Value != "" {
		h.sessions.Clear(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // delete immediately
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

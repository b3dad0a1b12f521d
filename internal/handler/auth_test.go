package handler_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamkuu/fasthtml-admin/internal/auth"
	"github.com/hamkuu/fasthtml-admin/internal/handler"
	"github.com/hamkuu/fasthtml-admin/internal/service"
)

func newTestAuthHandler(t *testing.T, sessions *auth.SessionStore) *handler.AuthHandler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	state, err := auth.NewStateService("test-secret-at-least-16-chars!!")
	require.NoError(t, err)

	google := auth.NewGoogleProvider("client-id", "client-secret",
		"http://localhost:8080/auth/google/callback")
	identity := service.NewIdentityService(newMemUserRepo(), logger)

	return handler.NewAuthHandler(google, state, sessions, identity, time.Hour, logger)
}

func TestLoginEntry_ReturnsProviderLink(t *testing.T) {
	h := newTestAuthHandler(t, auth.NewSessionStore(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.HandleLoginEntry(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	loginURL := payload["loginUrl"]
	assert.Contains(t, loginURL, "accounts.google.com")
	assert.Contains(t, loginURL, "client_id=client-id")
	assert.Contains(t, loginURL, "state=")
}

func TestCallback_RejectsBadState(t *testing.T) {
	h := newTestAuthHandler(t, auth.NewSessionStore(time.Hour))

	// no state at all, an unsigned state, and a garbage token
	for _, target := range []string{
		"/auth/google/callback",
		"/auth/google/callback?state=forged&code=abc",
		"/auth/google/callback?state=a.b.c&code=abc",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rr := httptest.NewRecorder()
		h.HandleCallback(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code, "target=%s", target)
	}
}

func TestCallback_DeniedAuthorizationRedirectsToEntry(t *testing.T) {
	sessions := auth.NewSessionStore(time.Hour)
	h := newTestAuthHandler(t, sessions)

	// a valid state but the user clicked "deny" on the consent screen
	stateSvc, err := auth.NewStateService("test-secret-at-least-16-chars!!")
	require.NoError(t, err)
	state, err := stateSvc.Issue()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet,
		"/auth/google/callback?state="+state+"&error=access_denied", nil)
	rr := httptest.NewRecorder()
	h.HandleCallback(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.Zero(t, sessions.Len(), "denied callback must not bind a session")
}

func TestLogout_ClearsSessionAndCookie(t *testing.T) {
	sessions := auth.NewSessionStore(time.Hour)
	token := sessions.Bind("g-1")
	h := newTestAuthHandler(t, sessions)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	rr := httptest.NewRecorder()
	h.HandleLogout(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	_, ok := sessions.Subject(token)
	assert.False(t, ok, "session should be destroyed")

	var cleared *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			cleared = c
		}
	}
	require.NotNil(t, cleared, "logout must rewrite the session cookie")
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestLogout_WithoutSessionIsHarmless(t *testing.T) {
	h := newTestAuthHandler(t, auth.NewSessionStore(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	rr := httptest.NewRecorder()
	h.HandleLogout(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/hamkuu/fasthtml-admin/internal/auth"
	"github.com/hamkuu/fasthtml-admin/internal/service"
)

// ProfileHandler serves the post-login landing route: the caller's own row.
type ProfileHandler struct {
	identity *service.IdentityService
	logger   *slog.Logger
}

func NewProfileHandler(identity *service.IdentityService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		identity: identity,
		logger:   logger,
	}
}

// HandleHome returns the authenticated user's profile payload.
//
// HTTP: GET /home
// Auth: session required (RequireSession binds the subject)
func (h *ProfileHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		// unreachable behind the gate, but don't serve anonymous reads
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	user, err := h.identity.GetBySubject(r.Context(), subject)
	if err != nil {
		h.logger.Error("home: fetching own row failed",
			slog.String("subject", subject),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

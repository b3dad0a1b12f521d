package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hamkuu/fasthtml-admin/internal/apperror"
	"github.com/hamkuu/fasthtml-admin/internal/repository"
	"github.com/hamkuu/fasthtml-admin/internal/service"
)

// AdminHandler serves the admin surface: the user listing and the
// credit-edit routes. Every route here sits behind both RequireSession and
// RequireAdmin — the handlers themselves do no authorization.
type AdminHandler struct {
	users   repository.UserRepository
	credits *service.CreditService
	logger  *slog.Logger
}

func NewAdminHandler(users repository.UserRepository, credits *service.CreditService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		users:   users,
		credits: credits,
		logger:  logger,
	}
}

// HandleListUsers returns every user row, id ascending.
//
// HTTP: GET /admin
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.logger.Error("admin: listing users failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// HandleEditCredits returns the single row the credit-edit form is about.
//
// HTTP: GET /admin/users/{id}/credits
func (h *AdminHandler) HandleEditCredits(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleUpdateCredits applies a credit edit and sends the admin back to the
// listing, which re-reads the now-current store state.
//
// HTTP: POST /admin/users/{id}/credits
// Form: credits=<new integer balance, full replace>
func (h *AdminHandler) HandleUpdateCredits(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, apperror.ValidationFailed("credits", "invalid form body"))
		return
	}

	credits, err := strconv.ParseInt(r.PostFormValue("credits"), 10, 64)
	if err != nil {
		writeError(w, apperror.ValidationFailed("credits", "credits must be an integer"))
		return
	}

	if _, err := h.credits.SetCredits(r.Context(), id, credits); err != nil {
		h.logger.Warn("admin: credit update failed",
			slog.Int64("userID", id),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func userIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.ValidationFailed("id", "user id must be an integer")
	}
	return id, nil
}

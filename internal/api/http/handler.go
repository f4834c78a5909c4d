package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"psrental-backend/internal/logger"
	"psrental-backend/internal/service"
)

// Handler serves the rental API on top of one RentalStore.
type Handler struct {
	store        service.RentalStore
	auth         service.AuthService
	reminderLead time.Duration
}

func NewHandler(store service.RentalStore, auth service.AuthService, reminderLead time.Duration) *Handler {
	return &Handler{
		store:        store,
		auth:         auth,
		reminderLead: reminderLead,
	}
}

func pathID(r *http.Request) string {
	return mux.Vars(r)["id"]
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ok(w, map[string]string{"status": "ok"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		logger.Info("Login rejected", "email", req.Email, "error", err)
		serviceError(w, err)
		return
	}
	ok(w, user)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context()); err != nil {
		serviceError(w, err)
		return
	}
	ok(w, nil)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.auth.ChangePassword(r.Context(), req.OldPassword, req.NewPassword); err != nil {
		serviceError(w, err)
		return
	}
	ok(w, nil)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.store.UpdateProfile(r.Context(), req.Name, req.Email)
	if err != nil {
		serviceError(w, err)
		return
	}
	ok(w, user)
}

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	ok(w, h.store.Snapshot())
}

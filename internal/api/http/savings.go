package http

import (
	"net/http"

	"psrental-backend/internal/domain"
)

type savingsView struct {
	domain.SavingsState
	ShowReminder bool `json:"show_reminder"`
}

func (h *Handler) GetSavings(w http.ResponseWriter, r *http.Request) {
	ok(w, savingsView{
		SavingsState: h.store.Snapshot().Savings,
		ShowReminder: h.store.ShouldShowSavingsReminder(),
	})
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req SavingsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	savings, err := h.store.AddSavings(r.Context(), req.Amount, req.Note)
	if err != nil {
		serviceError(w, err)
		return
	}
	created(w, savings)
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req SavingsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	savings, err := h.store.WithdrawSavings(r.Context(), req.Amount, req.Note)
	if err != nil {
		serviceError(w, err)
		return
	}
	created(w, savings)
}

func (h *Handler) SavingsReminder(w http.ResponseWriter, r *http.Request) {
	ok(w, map[string]bool{"show": h.store.ShouldShowSavingsReminder()})
}

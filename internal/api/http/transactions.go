package http

import (
	"net/http"

	"psrental-backend/internal/domain"
	"psrental-backend/internal/logger"
)

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ok(w, h.store.Snapshot().Transactions)
}

func (h *Handler) ListCompletedTransactions(w http.ResponseWriter, r *http.Request) {
	ok(w, h.store.Snapshot().CompletedTransactions)
}

func (h *Handler) ListDeletedTransactions(w http.ResponseWriter, r *http.Request) {
	ok(w, h.store.Snapshot().DeletedTransactions)
}

func (h *Handler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	var req AddTransactionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	in := req.toInput()
	if in.Package != nil && domain.PackageAvailableCount(*in.Package, h.store.Snapshot().Inventory) <= 0 {
		errorResponse(w, http.StatusConflict, "PACKAGE_UNAVAILABLE", "package is out of stock")
		return
	}

	tx, err := h.store.AddTransaction(r.Context(), in)
	if err != nil {
		serviceError(w, err)
		return
	}

	if req.FavoriteName != "" {
		if _, err := h.store.AddFavoriteLocation(r.Context(), req.FavoriteName, in.Location); err != nil {
			logger.Warn("Failed to save favorite location", "transaction_id", tx.ID, "error", err)
		}
	}
	created(w, tx)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	var req DeleteTransactionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.auth.AuthorizeDelete(h.store.CurrentUser(), req.PIN, req.Reason); err != nil {
		logger.Warn("Delete rejected", "transaction_id", pathID(r), "error", err)
		serviceError(w, err)
		return
	}

	tx, err := h.store.DeleteTransaction(r.Context(), pathID(r), req.Reason)
	if err != nil {
		serviceError(w, err)
		return
	}
	ok(w, tx)
}

func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	tx, err := h.store.EndSession(r.Context(), pathID(r))
	if err != nil {
		serviceError(w, err)
		return
	}
	ok(w, tx)
}

func (h *Handler) CompleteTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.store.CompleteTransaction(r.Context(), pathID(r))
	if err != nil {
		serviceError(w, err)
		return
	}
	ok(w, tx)
}

func (h *Handler) ExtendDays(w http.ResponseWriter, r *http.Request) {
	var req ExtendDaysRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tx, err := h.store.ExtendRentalDays(r.Context(), pathID(r), req.Days)
	if err != nil {
		serviceError(w, err)
		return
	}
	ok(w, tx)
}

func (h *Handler) ExtendHours(w http.ResponseWriter, r *http.Request) {
	var req ExtendHoursRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tx, err := h.store.ExtendRentalHours(r.Context(), pathID(r), req.Hours)
	if err != nil {
		serviceError(w, err)
		return
	}
	ok(w, tx)
}

func (h *Handler) AddPayment(w http.ResponseWriter, r *http.Request) {
	var req AdditionalPaymentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tx, err := h.store.AddAdditionalPayment(r.Context(), pathID(r), req.Amount, req.Note)
	if err != nil {
		serviceError(w, err)
		return
	}
	ok(w, tx)
}

func (h *Handler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req PaymentStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tx, err := h.store.UpdatePaymentStatus(r.Context(), pathID(r), domain.PaymentStatus(req.Status), req.PaidAmount)
	if err != nil {
		serviceError(w, err)
		return
	}
	ok(w, tx)
}

func (h *Handler) MarkNotificationShown(w http.ResponseWriter, r *http.Request) {
	tx, err := h.store.MarkNotificationShown(r.Context(), pathID(r))
	if err != nil {
		serviceError(w, err)
		return
	}
	ok(w, tx)
}

// PendingPickups lists active transactions whose pickup reminder window is open.
func (h *Handler) PendingPickups(w http.ResponseWriter, r *http.Request) {
	now := h.store.Now()
	due := []domain.Transaction{}
	for _, tx := range h.store.Snapshot().Transactions {
		if tx.PickupReminderDue(now, h.reminderLead) {
			due = append(due, tx)
		}
	}
	ok(w, due)
}

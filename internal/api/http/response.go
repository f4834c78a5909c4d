package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"psrental-backend/internal/logger"
	"psrental-backend/internal/service"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, Response{Success: true, Data: data})
}

func errorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Response{Error: &ErrorInfo{Code: code, Message: message}})
}

func validationError(w http.ResponseWriter, details map[string]string) {
	writeJSON(w, http.StatusBadRequest, Response{Error: &ErrorInfo{
		Code:    "VALIDATION_ERROR",
		Message: "Validation failed",
		Details: details,
	}})
}

func badRequest(w http.ResponseWriter, message string) {
	errorResponse(w, http.StatusBadRequest, "BAD_REQUEST", message)
}

// serviceError maps store and auth errors onto HTTP statuses.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTransactionNotFound),
		errors.Is(err, service.ErrInventoryItemNotFound),
		errors.Is(err, service.ErrFavoriteNotFound),
		errors.Is(err, service.ErrPricingNotFound):
		errorResponse(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrSessionAlreadyEnded),
		errors.Is(err, service.ErrOverpayNotAllowed),
		errors.Is(err, service.ErrExtensionLimit):
		errorResponse(w, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, service.ErrInsufficientSavings):
		errorResponse(w, http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrNotLoggedIn):
		errorResponse(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, service.ErrAdminRequired), errors.Is(err, service.ErrInvalidPIN):
		errorResponse(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, service.ErrDeleteReasonRequired):
		badRequest(w, err.Error())
	default:
		logger.Error("Unhandled service error", "error", err)
		errorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

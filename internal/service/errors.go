package service

import "errors"

var (
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrInventoryItemNotFound = errors.New("inventory item not found")
	ErrFavoriteNotFound      = errors.New("favorite location not found")
	ErrPricingNotFound       = errors.New("delivery pricing not found")
	ErrSessionAlreadyEnded   = errors.New("session already ended")
	ErrInsufficientSavings   = errors.New("insufficient savings balance")
	ErrOverpayNotAllowed     = errors.New("paid amount exceeds transaction amount")
	ErrExtensionLimit        = errors.New("extension exceeds the allowed limit")
	ErrNotLoggedIn           = errors.New("no user is logged in")

	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrDeleteReasonRequired = errors.New("delete reason is required")
	ErrAdminRequired        = errors.New("only an admin can delete transactions")
	ErrInvalidPIN           = errors.New("invalid PIN")
)

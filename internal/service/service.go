package service

import (
	"context"
	"time"

	"psrental-backend/internal/domain"
)

// RentalStore is the single source of truth for the rental state. Every mutation
// produces a new snapshot and persists it; a missing id is reported as a typed error
// with the state left unchanged.
type RentalStore interface {
	// Snapshot returns the current state. Callers must treat it as read-only.
	Snapshot() *domain.State
	CurrentUser() *domain.User
	Now() time.Time
	Location() *time.Location

	AddTransaction(ctx context.Context, in NewTransaction) (*domain.Transaction, error)
	EndSession(ctx context.Context, id string) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id, reason string) (*domain.Transaction, error)
	CompleteTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	ExtendRentalDays(ctx context.Context, id string, days int) (*domain.Transaction, error)
	ExtendRentalHours(ctx context.Context, id string, hours int) (*domain.Transaction, error)
	MarkNotificationShown(ctx context.Context, id string) (*domain.Transaction, error)
	AddAdditionalPayment(ctx context.Context, id string, amount int64, note string) (*domain.Transaction, error)
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus, paidAmount *int64) (*domain.Transaction, error)

	UpdateStock(ctx context.Context, itemID string, newStock int, reason string) (*domain.InventoryItem, error)

	AddSavings(ctx context.Context, amount int64, note string) (*domain.SavingsState, error)
	WithdrawSavings(ctx context.Context, amount int64, note string) (*domain.SavingsState, error)
	ShouldShowSavingsReminder() bool

	AddFavoriteLocation(ctx context.Context, name string, loc domain.Location) (*domain.FavoriteLocation, error)
	RemoveFavoriteLocation(ctx context.Context, id string) error

	UpdateDeliveryPricing(ctx context.Context, id string, price int64) (*domain.DeliveryPricing, error)
	AddCustomDeliveryPricing(ctx context.Context, name string, price int64) (*domain.DeliveryPricing, error)

	UpdateProfile(ctx context.Context, name, email string) (*domain.User, error)
	SetUser(ctx context.Context, user *domain.User) error
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	AuthorizeDelete(user *domain.User, pin, reason string) error
}

// StatePersister writes a whole snapshot durably.
type StatePersister interface {
	Save(ctx context.Context, state *domain.State) error
}

// PasswordStore holds the raw password slot.
type PasswordStore interface {
	LoadPassword(ctx context.Context) (string, bool, error)
	SavePassword(ctx context.Context, value string) error
}

// NewTransaction carries the caller-supplied fields of a new transaction. Ids,
// timestamps and counters are assigned by the store.
type NewTransaction struct {
	Type          domain.TransactionType
	Package       *domain.PackageID
	CustomerName  string
	CustomerPhone string
	CustomerType  domain.CustomerType
	IdentityPhoto string
	Location      domain.Location
	Amount        int64
	Notes         string
	PaymentStatus domain.PaymentStatus
	PaidAmount    *int64
}

// Policy holds the business allowances that are configurable rather than fixed.
// Zero extension limits mean unlimited.
type Policy struct {
	AllowOverpay      bool
	MaxExtensionDays  int
	MaxExtensionHours int
}

// DefaultPolicy allows overpayment and unbounded extensions.
func DefaultPolicy() Policy {
	return Policy{AllowOverpay: true}
}

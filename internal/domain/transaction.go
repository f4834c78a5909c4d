package domain

import "time"

type TransactionType string

const (
	TransactionTypeDeliveryOnly TransactionType = "delivery_only"
	TransactionTypePickupUnit   TransactionType = "pickup_unit"
)

type CustomerType string

const (
	CustomerTypeSubscriber    CustomerType = "subscriber"
	CustomerTypeNonSubscriber CustomerType = "non_subscriber"
)

type TransactionStatus string

const (
	TransactionStatusActive    TransactionStatus = "active"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusDeleted   TransactionStatus = "deleted"
)

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
)

// Transaction is one rental or delivery engagement. While active it lives in exactly
// one of the active, completed or deleted lists of a State.
type Transaction struct {
	ID                string            `json:"id"`
	Type              TransactionType   `json:"type"`
	Package           *PackageID        `json:"package,omitempty"`
	CustomerName      string            `json:"customer_name"`
	CustomerPhone     string            `json:"customer_phone"`
	CustomerType      CustomerType      `json:"customer_type,omitempty"`
	IdentityPhoto     string            `json:"identity_photo,omitempty"` // base64 image, stored verbatim
	Location          Location          `json:"location"`
	Amount            int64             `json:"amount"`
	Date              time.Time         `json:"date"`
	DeliveryTime      time.Time         `json:"delivery_time"`
	PickupTime        time.Time         `json:"pickup_time"`
	RentalDays        int               `json:"rental_days"`
	AdditionalHours   int               `json:"additional_hours"`
	CreatedBy         string            `json:"created_by"`
	Notes             string            `json:"notes,omitempty"`
	Status            TransactionStatus `json:"status"`
	PaymentStatus     PaymentStatus     `json:"payment_status"`
	PaidAmount        *int64            `json:"paid_amount,omitempty"`
	SessionEnded      bool              `json:"session_ended"`
	SessionEndedAt    *time.Time        `json:"session_ended_at,omitempty"`
	NotificationShown bool              `json:"notification_shown"`

	// Set when moved to the completed list.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy string     `json:"completed_by,omitempty"`

	// Set when moved to the deleted (archive) list.
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	DeletedBy    string     `json:"deleted_by,omitempty"`
	DeleteReason string     `json:"delete_reason,omitempty"`
}

// RequiredDevices lists the device types held by this transaction's package.
func (t Transaction) RequiredDevices() []DeviceType {
	if t.Package == nil {
		return nil
	}
	pkg, ok := LookupPackage(*t.Package)
	if !ok {
		return nil
	}
	return pkg.Items
}

// HoldsInventory is true while the transaction still has units out of stock, i.e. it
// references a package and its session has not ended.
func (t Transaction) HoldsInventory() bool {
	return t.Package != nil && !t.SessionEnded
}

// PickupReminderDue reports whether the 30-minute pickup reminder window is open.
func (t Transaction) PickupReminderDue(now time.Time, lead time.Duration) bool {
	if t.SessionEnded || t.NotificationShown {
		return false
	}
	return !now.Before(t.PickupTime.Add(-lead)) && now.Before(t.PickupTime)
}

// Clone copies the pointer fields so the result shares nothing with t.
func (t Transaction) Clone() Transaction {
	c := t
	if t.Package != nil {
		p := *t.Package
		c.Package = &p
	}
	if t.PaidAmount != nil {
		v := *t.PaidAmount
		c.PaidAmount = &v
	}
	c.SessionEndedAt = cloneTime(t.SessionEndedAt)
	c.CompletedAt = cloneTime(t.CompletedAt)
	c.DeletedAt = cloneTime(t.DeletedAt)
	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// DailyRevenue summarises the transactions created on one local calendar date.
type DailyRevenue struct {
	Date              string `json:"date"`
	TotalAmount       int64  `json:"total_amount"`
	TransactionCount  int    `json:"transaction_count"`
	DeliveryOnlyCount int    `json:"delivery_only_count"`
	PickupUnitCount   int    `json:"pickup_unit_count"`
}

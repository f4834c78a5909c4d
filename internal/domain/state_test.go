package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Clone(t *testing.T) {
	pkg := PackagePS4Only
	paid := int64(1000)
	ended := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	s := DefaultState()
	s.Transactions = append(s.Transactions, Transaction{ID: "TRX-001", Package: &pkg, PaidAmount: &paid, SessionEndedAt: &ended})

	c := s.Clone()
	c.Inventory[1].Available = 0
	*c.Transactions[0].PaidAmount = 5
	*c.Transactions[0].Package = PackagePS3Only
	c.User.Name = "changed"

	assert.Equal(t, 1, s.Inventory[1].Available)
	assert.Equal(t, int64(1000), *s.Transactions[0].PaidAmount)
	assert.Equal(t, PackagePS4Only, *s.Transactions[0].Package)
	assert.Equal(t, "Admin Rental", s.User.Name)
}

func TestState_UnitsStayWithinStock(t *testing.T) {
	s := DefaultState()
	devices := []DeviceType{DeviceTypePS4, DeviceTypeTV32}

	s.TakeUnits(devices)
	s.TakeUnits(devices)
	for _, item := range s.Inventory {
		assert.GreaterOrEqual(t, item.Available, 0)
	}

	s.ReturnUnits(devices)
	s.ReturnUnits(devices)
	for _, item := range s.Inventory {
		assert.LessOrEqual(t, item.Available, item.Stock)
	}
	require.Equal(t, 1, s.Inventory[s.FindInventoryItem("2")].Available)
}

func TestTransaction_PickupReminderDue(t *testing.T) {
	pickup := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	tx := Transaction{PickupTime: pickup}
	lead := 30 * time.Minute

	assert.False(t, tx.PickupReminderDue(pickup.Add(-31*time.Minute), lead))
	assert.True(t, tx.PickupReminderDue(pickup.Add(-30*time.Minute), lead))
	assert.True(t, tx.PickupReminderDue(pickup.Add(-time.Minute), lead))
	assert.False(t, tx.PickupReminderDue(pickup, lead))

	tx.NotificationShown = true
	assert.False(t, tx.PickupReminderDue(pickup.Add(-time.Minute), lead))
}

func TestSavingsState_ShouldShowReminder(t *testing.T) {
	assert.True(t, SavingsState{}.ShouldShowReminder("2026-01-02"))
	assert.True(t, SavingsState{LastDepositDate: "2026-01-01"}.ShouldShowReminder("2026-01-02"))
	assert.False(t, SavingsState{LastDepositDate: "2026-01-02"}.ShouldShowReminder("2026-01-02"))
}

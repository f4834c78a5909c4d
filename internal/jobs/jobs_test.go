package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"psrental-backend/internal/config"
	"psrental-backend/internal/domain"
	"psrental-backend/internal/persistence"
	"psrental-backend/internal/repository/memstore"
	"psrental-backend/internal/service"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) PickupDue(ctx context.Context, tx domain.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockNotifier) LowStock(ctx context.Context, items []domain.InventoryItem) error {
	return m.Called(ctx, items).Error(0)
}

func (m *MockNotifier) SavingsReminder(ctx context.Context, balance int64) error {
	return m.Called(ctx, balance).Error(0)
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func newTestRunner(t *testing.T) (*JobRunner, service.RentalStore, *MockNotifier, *testClock) {
	t.Helper()
	wib := time.FixedZone("WIB", 7*3600)
	clock := &testClock{now: time.Date(2024, 3, 10, 10, 0, 0, 0, wib)}
	store := service.NewRentalStore(nil, persistence.NewAdapter(memstore.New()),
		service.WithClock(clock.Now),
		service.WithLocation(wib),
	)
	notifier := new(MockNotifier)
	return NewJobRunner(store, notifier, config.Default()), store, notifier, clock
}

func addPickup(t *testing.T, store service.RentalStore, name string) *domain.Transaction {
	t.Helper()
	tx, err := store.AddTransaction(context.Background(), service.NewTransaction{
		Type:         domain.TransactionTypeDeliveryOnly,
		CustomerName: name,
		Location:     domain.Location{Address: "Jl. Kenanga 7"},
		Amount:       25000,
	})
	require.NoError(t, err)
	return tx
}

func TestPickupReminders(t *testing.T) {
	t.Run("NothingDueYet", func(t *testing.T) {
		jr, store, notifier, _ := newTestRunner(t)
		addPickup(t, store, "Budi")

		jr.PickupReminders()
		notifier.AssertNotCalled(t, "PickupDue", mock.Anything, mock.Anything)
	})

	t.Run("AnnouncesOnce", func(t *testing.T) {
		jr, store, notifier, clock := newTestRunner(t)
		tx := addPickup(t, store, "Budi")
		clock.now = tx.PickupTime.Add(-20 * time.Minute)

		notifier.On("PickupDue", mock.Anything, mock.MatchedBy(func(got domain.Transaction) bool {
			return got.ID == tx.ID
		})).Return(nil).Once()

		jr.PickupReminders()
		jr.PickupReminders()

		notifier.AssertExpectations(t)
		assert.True(t, store.Snapshot().Transactions[0].NotificationShown)
	})

	t.Run("SkipsEndedSessions", func(t *testing.T) {
		jr, store, notifier, clock := newTestRunner(t)
		tx := addPickup(t, store, "Budi")
		_, err := store.EndSession(context.Background(), tx.ID)
		require.NoError(t, err)
		clock.now = tx.PickupTime.Add(-5 * time.Minute)

		jr.PickupReminders()
		notifier.AssertNotCalled(t, "PickupDue", mock.Anything, mock.Anything)
	})

	t.Run("NotifierFailureLeavesUnmarked", func(t *testing.T) {
		jr, store, notifier, clock := newTestRunner(t)
		tx := addPickup(t, store, "Budi")
		clock.now = tx.PickupTime.Add(-1 * time.Minute)
		notifier.On("PickupDue", mock.Anything, mock.Anything).Return(errors.New("offline"))

		jr.PickupReminders()
		assert.False(t, store.Snapshot().Transactions[0].NotificationShown)
	})
}

func TestLowStockAlerts(t *testing.T) {
	jr, store, notifier, _ := newTestRunner(t)

	// default inventory: every item sits at or below its minimum
	notifier.On("LowStock", mock.Anything, mock.MatchedBy(func(items []domain.InventoryItem) bool {
		return len(items) == 3
	})).Return(nil).Once()
	jr.LowStockAlerts()
	notifier.AssertExpectations(t)

	for _, id := range []string{"1", "2", "3"} {
		_, err := store.UpdateStock(context.Background(), id, 5, "restock")
		require.NoError(t, err)
	}
	jr.LowStockAlerts()
	notifier.AssertNumberOfCalls(t, "LowStock", 1)
}

func TestSavingsReminder(t *testing.T) {
	jr, store, notifier, clock := newTestRunner(t)

	notifier.On("SavingsReminder", mock.Anything, int64(0)).Return(nil).Once()
	jr.SavingsReminder()
	notifier.AssertExpectations(t)

	_, err := store.AddSavings(context.Background(), 20000, "")
	require.NoError(t, err)
	jr.SavingsReminder()
	notifier.AssertNumberOfCalls(t, "SavingsReminder", 1)

	clock.now = clock.now.AddDate(0, 0, 1)
	notifier.On("SavingsReminder", mock.Anything, int64(20000)).Return(nil).Once()
	jr.SavingsReminder()
	notifier.AssertNumberOfCalls(t, "SavingsReminder", 2)
}

func TestRunWithRecovery(t *testing.T) {
	jr, _, _, _ := newTestRunner(t)

	assert.NotPanics(t, func() {
		jr.runWithRecovery("boom", func() { panic("boom") })
	})
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"psrental-backend/internal/domain"
	"psrental-backend/internal/persistence"
	"psrental-backend/internal/repository/memstore"
)

var wib = time.FixedZone("WIB", 7*3600)

type MockPersister struct {
	mock.Mock
}

func (m *MockPersister) Save(ctx context.Context, state *domain.State) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T, state *domain.State, opts ...StoreOption) (RentalStore, *testClock, *persistence.Adapter) {
	t.Helper()
	clock := &testClock{t: time.Date(2024, 3, 10, 10, 0, 0, 0, wib)}
	adapter := persistence.NewAdapter(memstore.New())
	opts = append([]StoreOption{WithClock(clock.Now), WithLocation(wib)}, opts...)
	return NewRentalStore(state, adapter, opts...), clock, adapter
}

func pkgRef(id domain.PackageID) *domain.PackageID {
	return &id
}

func inventoryState(items ...domain.InventoryItem) *domain.State {
	st := domain.DefaultState()
	st.Inventory = items
	return st
}

func available(st *domain.State, typ domain.DeviceType) int {
	for _, item := range st.Inventory {
		if item.Type == typ {
			return item.Available
		}
	}
	return -1
}

func TestRentalStore_AddTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("SequentialIDsAndDefaults", func(t *testing.T) {
		store, clock, _ := newTestStore(t, nil)

		first, err := store.AddTransaction(ctx, NewTransaction{Type: domain.TransactionTypeDeliveryOnly, CustomerName: "Budi", CustomerPhone: "0812", Amount: 25000})
		require.NoError(t, err)
		second, err := store.AddTransaction(ctx, NewTransaction{Type: domain.TransactionTypeDeliveryOnly, CustomerName: "Sari", CustomerPhone: "0813", Amount: 25000})
		require.NoError(t, err)

		assert.Equal(t, "TRX-001", first.ID)
		assert.Equal(t, "TRX-002", second.ID)
		assert.Equal(t, clock.t, first.Date)
		assert.Equal(t, clock.t, first.DeliveryTime)
		assert.Equal(t, clock.t.Add(24*time.Hour), first.PickupTime)
		assert.Equal(t, 1, first.RentalDays)
		assert.Equal(t, 0, first.AdditionalHours)
		assert.Equal(t, domain.TransactionStatusActive, first.Status)
		assert.Equal(t, domain.PaymentStatusUnpaid, first.PaymentStatus)
		assert.Equal(t, "1", first.CreatedBy)

		snap := store.Snapshot()
		require.Len(t, snap.Transactions, 2)
		assert.Equal(t, "TRX-002", snap.Transactions[0].ID, "newest first")
	})

	t.Run("DecrementsInventoryFlooredAtZero", func(t *testing.T) {
		st := inventoryState(
			domain.InventoryItem{ID: "2", Type: domain.DeviceTypePS4, Stock: 1, Available: 1},
			domain.InventoryItem{ID: "3", Type: domain.DeviceTypeTV32, Stock: 0, Available: 0},
		)
		store, _, _ := newTestStore(t, st)

		_, err := store.AddTransaction(ctx, NewTransaction{Type: domain.TransactionTypePickupUnit, Package: pkgRef(domain.PackagePS4TV)})
		require.NoError(t, err)

		snap := store.Snapshot()
		assert.Equal(t, 0, available(snap, domain.DeviceTypePS4))
		assert.Equal(t, 0, available(snap, domain.DeviceTypeTV32))
	})

	t.Run("LoggedOutCreator", func(t *testing.T) {
		st := domain.DefaultState()
		st.User = nil
		store, _, _ := newTestStore(t, st)

		tx, err := store.AddTransaction(ctx, NewTransaction{Type: domain.TransactionTypeDeliveryOnly})
		require.NoError(t, err)
		assert.Empty(t, tx.CreatedBy)
	})

	t.Run("SkipsIDsStillInArchive", func(t *testing.T) {
		store, _, _ := newTestStore(t, nil)

		_, err := store.AddTransaction(ctx, NewTransaction{Type: domain.TransactionTypeDeliveryOnly})
		require.NoError(t, err)
		_, err = store.DeleteTransaction(ctx, "TRX-001", "salah input")
		require.NoError(t, err)

		tx, err := store.AddTransaction(ctx, NewTransaction{Type: domain.TransactionTypeDeliveryOnly})
		require.NoError(t, err)
		assert.Equal(t, "TRX-002", tx.ID)
	})
}

func TestRentalStore_SessionScenario(t *testing.T) {
	ctx := context.Background()
	st := inventoryState(domain.InventoryItem{ID: "2", Name: "PlayStation 4", Type: domain.DeviceTypePS4, Stock: 1, Available: 1, MinStock: 1})
	store, clock, _ := newTestStore(t, st)

	tx, err := store.AddTransaction(ctx, NewTransaction{Type: domain.TransactionTypePickupUnit, Package: pkgRef(domain.PackagePS4Only)})
	require.NoError(t, err)
	assert.Equal(t, 0, available(store.Snapshot(), domain.DeviceTypePS4))

	clock.Advance(3 * time.Hour)
	ended, err := store.EndSession(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, ended.SessionEnded)
	require.NotNil(t, ended.SessionEndedAt)
	assert.Equal(t, clock.t, *ended.SessionEndedAt)
	assert.Equal(t, 1, available(store.Snapshot(), domain.DeviceTypePS4))

	before := store.Snapshot()
	_, err = store.EndSession(ctx, tx.ID)
	assert.ErrorIs(t, err, ErrSessionAlreadyEnded)
	assert.Same(t, before, store.Snapshot(), "rejected mutation keeps the snapshot")
	assert.Equal(t, 1, available(store.Snapshot(), domain.DeviceTypePS4))

	completed, err := store.CompleteTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, completed.Status)
	assert.Equal(t, "1", completed.CompletedBy)
	assert.Equal(t, 1, available(store.Snapshot(), domain.DeviceTypePS4), "no double credit")

	snap := store.Snapshot()
	assert.Empty(t, snap.Transactions)
	require.Len(t, snap.CompletedTransactions, 1)
	assert.Equal(t, tx.ID, snap.CompletedTransactions[0].ID)
}

func TestRentalStore_DeleteTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("RestoresHeldInventory", func(t *testing.T) {
		st := inventoryState(
			domain.InventoryItem{ID: "1", Type: domain.DeviceTypePS3, Stock: 2, Available: 2},
			domain.InventoryItem{ID: "3", Type: domain.DeviceTypeTV32, Stock: 1, Available: 1},
		)
		store, _, _ := newTestStore(t, st)

		tx, err := store.AddTransaction(ctx, NewTransaction{Type: domain.TransactionTypePickupUnit, Package: pkgRef(domain.PackagePS3TV)})
		require.NoError(t, err)

		deleted, err := store.DeleteTransaction(ctx, tx.ID, "batal")
		require.NoError(t, err)
		assert.Equal(t, domain.TransactionStatusDeleted, deleted.Status)
		assert.Equal(t, "batal", deleted.DeleteReason)
		assert.Equal(t, "1", deleted.DeletedBy)
		require.NotNil(t, deleted.DeletedAt)

		snap := store.Snapshot()
		assert.Equal(t, 2, available(snap, domain.DeviceTypePS3))
		assert.Equal(t, 1, available(snap, domain.DeviceTypeTV32))
		assert.Empty(t, snap.Transactions)
		require.Len(t, snap.DeletedTransactions, 1)
	})

	t.Run("AfterSessionEndNoDoubleCredit", func(t *testing.T) {
		st := inventoryState(domain.InventoryItem{ID: "2", Type: domain.DeviceTypePS4, Stock: 1, Available: 1})
		store, _, _ := newTestStore(t, st)

		tx, err := store.AddTransaction(ctx, NewTransaction{Type: domain.TransactionTypePickupUnit, Package: pkgRef(domain.PackagePS4Only)})
		require.NoError(t, err)
		_, err = store.EndSession(ctx, tx.ID)
		require.NoError(t, err)

		_, err = store.DeleteTransaction(ctx, tx.ID, "dobel")
		require.NoError(t, err)
		assert.Equal(t, 1, available(store.Snapshot(), domain.DeviceTypePS4))
	})

	t.Run("NotFound", func(t *testing.T) {
		store, _, _ := newTestStore(t, nil)

		_, err := store.DeleteTransaction(ctx, "TRX-404", "x")
		assert.ErrorIs(t, err, ErrTransactionNotFound)
		_, err = store.CompleteTransaction(ctx, "TRX-404")
		assert.ErrorIs(t, err, ErrTransactionNotFound)
		_, err = store.EndSession(ctx, "TRX-404")
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})
}

func TestRentalStore_InventoryStaysInBounds(t *testing.T) {
	ctx := context.Background()
	st := inventoryState(
		domain.InventoryItem{ID: "1", Type: domain.DeviceTypePS3, Stock: 1, Available: 1},
		domain.InventoryItem{ID: "2", Type: domain.DeviceTypePS4, Stock: 2, Available: 2},
		domain.InventoryItem{ID: "3", Type: domain.DeviceTypeTV32, Stock: 1, Available: 1},
	)
	store, _, _ := newTestStore(t, st)

	var ids []string
	for _, p := range []domain.PackageID{domain.PackagePS3TV, domain.PackagePS4TV, domain.PackagePS4Only, domain.PackagePS3Only} {
		tx, err := store.AddTransaction(ctx, NewTransaction{Type: domain.TransactionTypePickupUnit, Package: pkgRef(p)})
		require.NoError(t, err)
		ids = append(ids, tx.ID)
	}
	_, err := store.UpdateStock(ctx, "3", 0, "rusak")
	require.NoError(t, err)

	_, err = store.EndSession(ctx, ids[0])
	require.NoError(t, err)
	_, err = store.DeleteTransaction(ctx, ids[1], "batal")
	require.NoError(t, err)
	_, err = store.CompleteTransaction(ctx, ids[2])
	require.NoError(t, err)
	_, err = store.CompleteTransaction(ctx, ids[0])
	require.NoError(t, err)

	snap := store.Snapshot()
	for _, item := range snap.Inventory {
		assert.GreaterOrEqual(t, item.Available, 0, item.Type)
		assert.LessOrEqual(t, item.Available, item.Stock, item.Type)
	}

	seen := map[string]int{}
	for _, list := range [][]domain.Transaction{snap.Transactions, snap.CompletedTransactions, snap.DeletedTransactions} {
		for _, tx := range list {
			seen[tx.ID]++
		}
	}
	for _, id := range ids {
		assert.Equal(t, 1, seen[id], id)
	}
}

func TestRentalStore_Extensions(t *testing.T) {
	ctx := context.Background()

	t.Run("Unlimited", func(t *testing.T) {
		store, _, _ := newTestStore(t, nil)
		tx, err := store.AddTransaction(ctx, NewTransaction{Type: domain.TransactionTypeDeliveryOnly})
		require.NoError(t, err)

		extended, err := store.ExtendRentalDays(ctx, tx.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, extended.RentalDays)
		assert.Equal(t, tx.PickupTime.AddDate(0, 0, 2), extended.PickupTime)

		extended, err = store.ExtendRentalHours(ctx, tx.ID, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, extended.AdditionalHours)
		assert.Equal(t, tx.PickupTime.AddDate(0, 0, 2).Add(5*time.Hour), extended.PickupTime)
	})

	t.Run("PolicyLimit", func(t *testing.T) {
		store, _, _ := newTestStore(t, nil, WithPolicy(Policy{AllowOverpay: true, MaxExtensionDays: 2, MaxExtensionHours: 3}))
		tx, err := store.AddTransaction(ctx, NewTransaction{Type: domain.TransactionTypeDeliveryOnly})
		require.NoError(t, err)

		_, err = store.ExtendRentalDays(ctx, tx.ID, 2)
		require.NoError(t, err)
		_, err = store.ExtendRentalDays(ctx, tx.ID, 1)
		assert.ErrorIs(t, err, ErrExtensionLimit)

		_, err = store.ExtendRentalHours(ctx, tx.ID, 4)
		assert.ErrorIs(t, err, ErrExtensionLimit)
		assert.Equal(t, 3, store.Snapshot().Transactions[0].RentalDays)
	})

	t.Run("NotFound", func(t *testing.T) {
		store, _, _ := newTestStore(t, nil)
		_, err := store.ExtendRentalDays(ctx, "TRX-999", 1)
		assert.ErrorIs(t, err, ErrTransactionNotFound)
		_, err = store.ExtendRentalHours(ctx, "TRX-999", 1)
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})
}

func TestRentalStore_Payments(t *testing.T) {
	ctx := context.Background()

	t.Run("AdditionalPaymentNotes", func(t *testing.T) {
		store, _, _ := newTestStore(t, nil)
		tx, err := store.AddTransaction(ctx, NewTransaction{Type: domain.TransactionTypeDeliveryOnly, Amount: 25000})
		require.NoError(t, err)

		updated, err := store.AddAdditionalPayment(ctx, tx.ID, 10000, "tambah stik")
		require.NoError(t, err)
		assert.Equal(t, int64(35000), updated.Amount)
		assert.Equal(t, "[Tambahan: Rp 10.000 - tambah stik]", updated.Notes)

		updated, err = store.AddAdditionalPayment(ctx, tx.ID, 5000, "ongkir")
		require.NoError(t, err)
		assert.Equal(t, "[Tambahan: Rp 10.000 - tambah stik]\n[Tambahan: Rp 5.000 - ongkir]", updated.Notes)
	})

	t.Run("PartialKeepsPaidAmount", func(t *testing.T) {
		store, _, _ := newTestStore(t, nil)
		tx, err := store.AddTransaction(ctx, NewTransaction{Type: domain.TransactionTypeDeliveryOnly, Amount: 25000})
		require.NoError(t, err)

		paid := int64(40000)
		updated, err := store.UpdatePaymentStatus(ctx, tx.ID, domain.PaymentStatusPartial, &paid)
		require.NoError(t, err)
		require.NotNil(t, updated.PaidAmount)
		assert.Equal(t, int64(40000), *updated.PaidAmount, "overpay is informational")

		updated, err = store.UpdatePaymentStatus(ctx, tx.ID, domain.PaymentStatusPaid, &paid)
		require.NoError(t, err)
		assert.Nil(t, updated.PaidAmount)
	})

	t.Run("OverpayForbidden", func(t *testing.T) {
		store, _, _ := newTestStore(t, nil, WithPolicy(Policy{AllowOverpay: false}))
		tx, err := store.AddTransaction(ctx, NewTransaction{Type: domain.TransactionTypeDeliveryOnly, Amount: 25000})
		require.NoError(t, err)

		paid := int64(30000)
		_, err = store.UpdatePaymentStatus(ctx, tx.ID, domain.PaymentStatusPartial, &paid)
		assert.ErrorIs(t, err, ErrOverpayNotAllowed)
		assert.Equal(t, domain.PaymentStatusUnpaid, store.Snapshot().Transactions[0].PaymentStatus)
	})
}

func TestRentalStore_UpdateStock(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t, nil)

	item, err := store.UpdateStock(ctx, "1", 4, "beli baru")
	require.NoError(t, err)
	assert.Equal(t, 4, item.Stock)
	assert.Equal(t, 4, item.Available)

	snap := store.Snapshot()
	require.Len(t, snap.StockHistory, 1)
	h := snap.StockHistory[0]
	assert.Equal(t, "1", h.ItemID)
	assert.Equal(t, 0, h.PreviousStock)
	assert.Equal(t, 4, h.NewStock)
	assert.Equal(t, "beli baru", h.Reason)
	assert.Equal(t, "1", h.ChangedBy)

	_, err = store.UpdateStock(ctx, "99", 1, "x")
	assert.ErrorIs(t, err, ErrInventoryItemNotFound)
	assert.Len(t, store.Snapshot().StockHistory, 1)
}

func TestRentalStore_Savings(t *testing.T) {
	ctx := context.Background()
	store, clock, _ := newTestStore(t, nil)

	assert.True(t, store.ShouldShowSavingsReminder(), "no deposit yet")

	_, err := store.AddSavings(ctx, 50000, "")
	require.NoError(t, err)
	savings, err := store.AddSavings(ctx, 30000, "setoran sore")
	require.NoError(t, err)

	assert.Equal(t, int64(80000), savings.TotalBalance)
	assert.Len(t, savings.Entries, 2)
	assert.Equal(t, "2024-03-10", savings.LastDepositDate)
	assert.False(t, store.ShouldShowSavingsReminder())

	_, err = store.WithdrawSavings(ctx, 90000, "kebanyakan")
	assert.ErrorIs(t, err, ErrInsufficientSavings)
	assert.Equal(t, int64(80000), store.Snapshot().Savings.TotalBalance)
	assert.Len(t, store.Snapshot().Savings.Entries, 2)

	savings, err = store.WithdrawSavings(ctx, 20000, "beli stik")
	require.NoError(t, err)
	assert.Equal(t, int64(60000), savings.TotalBalance)
	assert.Equal(t, int64(-20000), savings.Entries[0].Amount)
	assert.Equal(t, "2024-03-10", savings.LastDepositDate)

	clock.Advance(24 * time.Hour)
	assert.True(t, store.ShouldShowSavingsReminder(), "new calendar day")
}

func TestRentalStore_FavoritesAndPricing(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t, nil)

	fav, err := store.AddFavoriteLocation(ctx, "Kos Mawar", domain.Location{Lat: -6.2, Lng: 106.8, Address: "Jl. Mawar 1", Accuracy: domain.LocationAccuracyHigh})
	require.NoError(t, err)
	assert.Len(t, store.Snapshot().FavoriteLocations, 1)

	require.NoError(t, store.RemoveFavoriteLocation(ctx, fav.ID))
	assert.Empty(t, store.Snapshot().FavoriteLocations)
	assert.ErrorIs(t, store.RemoveFavoriteLocation(ctx, fav.ID), ErrFavoriteNotFound)

	updated, err := store.UpdateDeliveryPricing(ctx, "standard", 30000)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), updated.Price)
	_, err = store.UpdateDeliveryPricing(ctx, "nope", 1)
	assert.ErrorIs(t, err, ErrPricingNotFound)

	custom, err := store.AddCustomDeliveryPricing(ctx, "Antar Bekasi", 45000)
	require.NoError(t, err)
	assert.Contains(t, custom.ID, "custom_")
	assert.Len(t, store.Snapshot().DeliveryPricingOptions, 4)
}

func TestRentalStore_Profile(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t, nil)

	user, err := store.UpdateProfile(ctx, "Pak Admin", "pak@psrental.com")
	require.NoError(t, err)
	assert.Equal(t, "Pak Admin", user.Name)

	require.NoError(t, store.SetUser(ctx, nil))
	assert.Nil(t, store.CurrentUser())
	_, err = store.UpdateProfile(ctx, "x", "y")
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestRentalStore_SnapshotsAreImmutable(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t, nil)

	before := store.Snapshot()
	_, err := store.AddTransaction(ctx, NewTransaction{Type: domain.TransactionTypePickupUnit, Package: pkgRef(domain.PackagePS4Only)})
	require.NoError(t, err)

	assert.Empty(t, before.Transactions)
	assert.Equal(t, 1, available(before, domain.DeviceTypePS4))
	assert.Equal(t, 0, available(store.Snapshot(), domain.DeviceTypePS4))
}

func TestRentalStore_PersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	store, _, adapter := newTestStore(t, nil)

	tx, err := store.AddTransaction(ctx, NewTransaction{Type: domain.TransactionTypePickupUnit, Package: pkgRef(domain.PackagePS4Only), CustomerName: "Budi"})
	require.NoError(t, err)

	reloaded := adapter.Load(ctx)
	require.Len(t, reloaded.Transactions, 1)
	assert.Equal(t, tx.ID, reloaded.Transactions[0].ID)
	assert.True(t, reloaded.Transactions[0].Date.Equal(tx.Date))
	assert.Equal(t, 0, available(reloaded, domain.DeviceTypePS4))
}

func TestRentalStore_PersistFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	persister := new(MockPersister)
	persister.On("Save", mock.Anything, mock.Anything).Return(errors.New("quota exceeded"))

	store := NewRentalStore(nil, persister)
	_, err := store.AddSavings(ctx, 1000, "")
	require.NoError(t, err)

	assert.Equal(t, int64(1000), store.Snapshot().Savings.TotalBalance)
	persister.AssertNumberOfCalls(t, "Save", 1)
}

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"psrental-backend/internal/domain"
	"psrental-backend/internal/logger"
	"psrental-backend/internal/utils"
)

const pickupAfter = 24 * time.Hour

type rentalStore struct {
	mu        sync.Mutex
	state     *domain.State
	persister StatePersister
	policy    Policy
	loc       *time.Location
	now       func() time.Time
}

// StoreOption customises a RentalStore at construction.
type StoreOption func(*rentalStore)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) StoreOption {
	return func(s *rentalStore) { s.now = now }
}

func WithLocation(loc *time.Location) StoreOption {
	return func(s *rentalStore) { s.loc = loc }
}

func WithPolicy(p Policy) StoreOption {
	return func(s *rentalStore) { s.policy = p }
}

// NewRentalStore wraps an initial snapshot, usually the one loaded by the persistence adapter.
func NewRentalStore(initial *domain.State, persister StatePersister, opts ...StoreOption) RentalStore {
	if initial == nil {
		initial = domain.DefaultState()
	}
	s := &rentalStore{
		state:     initial,
		persister: persister,
		policy:    DefaultPolicy(),
		loc:       time.Local,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *rentalStore) Snapshot() *domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *rentalStore) CurrentUser() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

func (s *rentalStore) Now() time.Time {
	return s.now()
}

func (s *rentalStore) Location() *time.Location {
	return s.loc
}

// mutate applies fn to a copy of the current snapshot, swaps the copy in and saves it.
// If fn fails the current snapshot is kept. A failed save is only logged.
func (s *rentalStore) mutate(ctx context.Context, op string, fn func(next *domain.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if err := fn(next); err != nil {
		logger.Debug("Mutation rejected", "operation", op, "error", err)
		return err
	}
	s.state = next

	if s.persister != nil {
		if err := s.persister.Save(context.WithoutCancel(ctx), next); err != nil {
			logger.Error("Failed to persist state", "operation", op, "error", err)
		}
	}
	return nil
}

// userID returns the id of the logged-in user, empty when logged out.
func userID(st *domain.State) string {
	if st.User == nil {
		return ""
	}
	return st.User.ID
}

// nextTransactionID numbers from the active and completed counts. A number already
// used by any list, deleted ones included, is skipped.
func nextTransactionID(st *domain.State) string {
	taken := make(map[string]struct{}, len(st.Transactions)+len(st.CompletedTransactions)+len(st.DeletedTransactions))
	for _, list := range [][]domain.Transaction{st.Transactions, st.CompletedTransactions, st.DeletedTransactions} {
		for _, t := range list {
			taken[t.ID] = struct{}{}
		}
	}
	for n := len(st.Transactions) + len(st.CompletedTransactions) + 1; ; n++ {
		id := fmt.Sprintf("TRX-%03d", n)
		if _, ok := taken[id]; !ok {
			return id
		}
	}
}

func (s *rentalStore) AddTransaction(ctx context.Context, in NewTransaction) (*domain.Transaction, error) {
	logger.EnterMethod("RentalStore.AddTransaction", "type", in.Type, "customer", in.CustomerName)

	var created domain.Transaction
	err := s.mutate(ctx, "add_transaction", func(next *domain.State) error {
		now := s.now()
		status := in.PaymentStatus
		if status == "" {
			status = domain.PaymentStatusUnpaid
		}

		tx := domain.Transaction{
			ID:            nextTransactionID(next),
			Type:          in.Type,
			CustomerName:  in.CustomerName,
			CustomerPhone: in.CustomerPhone,
			CustomerType:  in.CustomerType,
			IdentityPhoto: in.IdentityPhoto,
			Location:      in.Location,
			Amount:        in.Amount,
			Date:          now,
			DeliveryTime:  now,
			PickupTime:    now.Add(pickupAfter),
			RentalDays:    1,
			CreatedBy:     userID(next),
			Notes:         in.Notes,
			Status:        domain.TransactionStatusActive,
			PaymentStatus: status,
		}
		if in.Package != nil {
			p := *in.Package
			tx.Package = &p
		}
		if status == domain.PaymentStatusPartial && in.PaidAmount != nil {
			v := *in.PaidAmount
			tx.PaidAmount = &v
		}

		next.TakeUnits(tx.RequiredDevices())
		next.Transactions = append([]domain.Transaction{tx}, next.Transactions...)
		created = tx.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.ExitMethod("RentalStore.AddTransaction", "id", created.ID)
	return &created, nil
}

// updateActive runs fn on the active transaction with the given id.
func (s *rentalStore) updateActive(ctx context.Context, op, id string, fn func(next *domain.State, tx *domain.Transaction) error) (*domain.Transaction, error) {
	var updated domain.Transaction
	err := s.mutate(ctx, op, func(next *domain.State) error {
		i := next.FindActive(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrTransactionNotFound, id)
		}
		if err := fn(next, &next.Transactions[i]); err != nil {
			return err
		}
		updated = next.Transactions[i].Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *rentalStore) EndSession(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.updateActive(ctx, "end_session", id, func(next *domain.State, tx *domain.Transaction) error {
		if tx.SessionEnded {
			return fmt.Errorf("%w: %s", ErrSessionAlreadyEnded, id)
		}
		now := s.now()
		tx.SessionEnded = true
		tx.SessionEndedAt = &now
		next.ReturnUnits(tx.RequiredDevices())
		return nil
	})
}

// removeActive takes the transaction out of the active list, returning held units.
func removeActive(next *domain.State, id string) (domain.Transaction, error) {
	i := next.FindActive(id)
	if i < 0 {
		return domain.Transaction{}, fmt.Errorf("%w: %s", ErrTransactionNotFound, id)
	}
	tx := next.Transactions[i]
	next.Transactions = append(next.Transactions[:i:i], next.Transactions[i+1:]...)
	if tx.HoldsInventory() {
		next.ReturnUnits(tx.RequiredDevices())
	}
	return tx, nil
}

func (s *rentalStore) DeleteTransaction(ctx context.Context, id, reason string) (*domain.Transaction, error) {
	logger.EnterMethod("RentalStore.DeleteTransaction", "id", id)

	var deleted domain.Transaction
	err := s.mutate(ctx, "delete_transaction", func(next *domain.State) error {
		tx, err := removeActive(next, id)
		if err != nil {
			return err
		}
		now := s.now()
		tx.Status = domain.TransactionStatusDeleted
		tx.DeletedAt = &now
		tx.DeletedBy = userID(next)
		tx.DeleteReason = reason
		next.DeletedTransactions = append([]domain.Transaction{tx}, next.DeletedTransactions...)
		deleted = tx.Clone()
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("RentalStore.DeleteTransaction", err)
		return nil, err
	}

	logger.ExitMethod("RentalStore.DeleteTransaction", "id", id)
	return &deleted, nil
}

func (s *rentalStore) CompleteTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	logger.EnterMethod("RentalStore.CompleteTransaction", "id", id)

	var completed domain.Transaction
	err := s.mutate(ctx, "complete_transaction", func(next *domain.State) error {
		tx, err := removeActive(next, id)
		if err != nil {
			return err
		}
		now := s.now()
		tx.Status = domain.TransactionStatusCompleted
		tx.CompletedAt = &now
		tx.CompletedBy = userID(next)
		next.CompletedTransactions = append([]domain.Transaction{tx}, next.CompletedTransactions...)
		completed = tx.Clone()
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("RentalStore.CompleteTransaction", err)
		return nil, err
	}

	logger.ExitMethod("RentalStore.CompleteTransaction", "id", id)
	return &completed, nil
}

func (s *rentalStore) ExtendRentalDays(ctx context.Context, id string, days int) (*domain.Transaction, error) {
	return s.updateActive(ctx, "extend_rental_days", id, func(_ *domain.State, tx *domain.Transaction) error {
		if limit := s.policy.MaxExtensionDays; limit > 0 && tx.RentalDays-1+days > limit {
			return fmt.Errorf("%w: at most %d extra days", ErrExtensionLimit, limit)
		}
		tx.RentalDays += days
		tx.PickupTime = tx.PickupTime.AddDate(0, 0, days)
		return nil
	})
}

func (s *rentalStore) ExtendRentalHours(ctx context.Context, id string, hours int) (*domain.Transaction, error) {
	return s.updateActive(ctx, "extend_rental_hours", id, func(_ *domain.State, tx *domain.Transaction) error {
		if limit := s.policy.MaxExtensionHours; limit > 0 && tx.AdditionalHours+hours > limit {
			return fmt.Errorf("%w: at most %d extra hours", ErrExtensionLimit, limit)
		}
		tx.AdditionalHours += hours
		tx.PickupTime = tx.PickupTime.Add(time.Duration(hours) * time.Hour)
		return nil
	})
}

func (s *rentalStore) MarkNotificationShown(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.updateActive(ctx, "mark_notification_shown", id, func(_ *domain.State, tx *domain.Transaction) error {
		tx.NotificationShown = true
		return nil
	})
}

func (s *rentalStore) AddAdditionalPayment(ctx context.Context, id string, amount int64, note string) (*domain.Transaction, error) {
	return s.updateActive(ctx, "add_additional_payment", id, func(_ *domain.State, tx *domain.Transaction) error {
		line := fmt.Sprintf("[Tambahan: %s - %s]", utils.FormatRupiah(amount), note)
		tx.Amount += amount
		if tx.Notes != "" {
			tx.Notes += "\n" + line
		} else {
			tx.Notes = line
		}
		return nil
	})
}

func (s *rentalStore) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus, paidAmount *int64) (*domain.Transaction, error) {
	return s.updateActive(ctx, "update_payment_status", id, func(_ *domain.State, tx *domain.Transaction) error {
		tx.PaymentStatus = status
		tx.PaidAmount = nil
		if status != domain.PaymentStatusPartial || paidAmount == nil {
			return nil
		}
		if !s.policy.AllowOverpay && *paidAmount > tx.Amount {
			return fmt.Errorf("%w: %d > %d", ErrOverpayNotAllowed, *paidAmount, tx.Amount)
		}
		v := *paidAmount
		tx.PaidAmount = &v
		return nil
	})
}

func (s *rentalStore) UpdateStock(ctx context.Context, itemID string, newStock int, reason string) (*domain.InventoryItem, error) {
	logger.EnterMethod("RentalStore.UpdateStock", "item", itemID, "new_stock", newStock)

	var updated domain.InventoryItem
	err := s.mutate(ctx, "update_stock", func(next *domain.State) error {
		i := next.FindInventoryItem(itemID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrInventoryItemNotFound, itemID)
		}
		item := &next.Inventory[i]
		history := domain.StockHistory{
			ID:            "SH-" + uuid.NewString(),
			ItemID:        itemID,
			PreviousStock: item.Stock,
			NewStock:      newStock,
			Reason:        reason,
			ChangedBy:     userID(next),
			ChangedAt:     s.now(),
		}
		item.Stock = newStock
		item.Available = newStock
		next.StockHistory = append([]domain.StockHistory{history}, next.StockHistory...)
		updated = *item
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("RentalStore.UpdateStock", err)
		return nil, err
	}

	logger.ExitMethod("RentalStore.UpdateStock", "item", itemID)
	return &updated, nil
}

func (s *rentalStore) AddSavings(ctx context.Context, amount int64, note string) (*domain.SavingsState, error) {
	var out domain.SavingsState
	err := s.mutate(ctx, "add_savings", func(next *domain.State) error {
		now := s.now()
		entry := domain.SavingsEntry{
			ID:        "SAV-" + uuid.NewString(),
			Amount:    amount,
			Date:      now,
			Note:      note,
			CreatedBy: userID(next),
		}
		next.Savings.TotalBalance += amount
		next.Savings.Entries = append([]domain.SavingsEntry{entry}, next.Savings.Entries...)
		next.Savings.LastDepositDate = utils.LocalDateString(now, s.loc)
		out = cloneSavings(next.Savings)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *rentalStore) WithdrawSavings(ctx context.Context, amount int64, note string) (*domain.SavingsState, error) {
	var out domain.SavingsState
	err := s.mutate(ctx, "withdraw_savings", func(next *domain.State) error {
		if amount > next.Savings.TotalBalance {
			return fmt.Errorf("%w: balance %d, requested %d", ErrInsufficientSavings, next.Savings.TotalBalance, amount)
		}
		entry := domain.SavingsEntry{
			ID:        "SAV-" + uuid.NewString(),
			Amount:    -amount,
			Date:      s.now(),
			Note:      note,
			CreatedBy: userID(next),
		}
		next.Savings.TotalBalance -= amount
		next.Savings.Entries = append([]domain.SavingsEntry{entry}, next.Savings.Entries...)
		out = cloneSavings(next.Savings)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func cloneSavings(s domain.SavingsState) domain.SavingsState {
	s.Entries = append([]domain.SavingsEntry{}, s.Entries...)
	return s
}

func (s *rentalStore) ShouldShowSavingsReminder() bool {
	today := utils.LocalDateString(s.now(), s.loc)
	return s.Snapshot().Savings.ShouldShowReminder(today)
}

func (s *rentalStore) AddFavoriteLocation(ctx context.Context, name string, loc domain.Location) (*domain.FavoriteLocation, error) {
	var fav domain.FavoriteLocation
	err := s.mutate(ctx, "add_favorite_location", func(next *domain.State) error {
		fav = domain.FavoriteLocation{
			ID:        "FAV-" + uuid.NewString(),
			Name:      name,
			Location:  loc,
			CreatedAt: s.now(),
		}
		next.FavoriteLocations = append(next.FavoriteLocations, fav)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

func (s *rentalStore) RemoveFavoriteLocation(ctx context.Context, id string) error {
	return s.mutate(ctx, "remove_favorite_location", func(next *domain.State) error {
		for i, f := range next.FavoriteLocations {
			if f.ID == id {
				next.FavoriteLocations = append(next.FavoriteLocations[:i:i], next.FavoriteLocations[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrFavoriteNotFound, id)
	})
}

func (s *rentalStore) UpdateDeliveryPricing(ctx context.Context, id string, price int64) (*domain.DeliveryPricing, error) {
	var updated domain.DeliveryPricing
	err := s.mutate(ctx, "update_delivery_pricing", func(next *domain.State) error {
		for i := range next.DeliveryPricingOptions {
			if next.DeliveryPricingOptions[i].ID == id {
				next.DeliveryPricingOptions[i].Price = price
				updated = next.DeliveryPricingOptions[i]
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrPricingNotFound, id)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *rentalStore) AddCustomDeliveryPricing(ctx context.Context, name string, price int64) (*domain.DeliveryPricing, error) {
	var created domain.DeliveryPricing
	err := s.mutate(ctx, "add_custom_delivery_pricing", func(next *domain.State) error {
		created = domain.DeliveryPricing{
			ID:    domain.DeliveryPricingCustomID + "_" + uuid.NewString(),
			Name:  name,
			Price: price,
		}
		next.DeliveryPricingOptions = append(next.DeliveryPricingOptions, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *rentalStore) UpdateProfile(ctx context.Context, name, email string) (*domain.User, error) {
	var updated domain.User
	err := s.mutate(ctx, "update_profile", func(next *domain.State) error {
		if next.User == nil {
			return ErrNotLoggedIn
		}
		next.User.Name = name
		next.User.Email = email
		updated = *next.User
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *rentalStore) SetUser(ctx context.Context, user *domain.User) error {
	return s.mutate(ctx, "set_user", func(next *domain.State) error {
		if user == nil {
			next.User = nil
			return nil
		}
		u := *user
		next.User = &u
		return nil
	})
}

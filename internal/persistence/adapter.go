// Package persistence maps the in-memory state onto named slots of a SlotRepository.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"psrental-backend/internal/domain"
	"psrental-backend/internal/logger"
	"psrental-backend/internal/repository"
)

// Slot keys. Each collection lives under its own key.
const (
	KeyTransactions          = "ps_rental_transactions"
	KeyDeletedTransactions   = "ps_rental_deleted_transactions"
	KeyCompletedTransactions = "ps_rental_completed_transactions"
	KeyInventory             = "ps_rental_inventory"
	KeyFavoriteLocations     = "ps_rental_favorite_locations"
	KeyStockHistory          = "ps_rental_stock_history"
	KeyDeliveryPricing       = "ps_rental_delivery_pricing"
	KeySavings               = "ps_rental_savings"
	KeyUser                  = "ps_rental_user"
	KeyPassword              = "ps_rental_password"
)

// StateKeys are the slots making up one State snapshot. The password slot is
// managed separately.
var StateKeys = []string{
	KeyTransactions,
	KeyDeletedTransactions,
	KeyCompletedTransactions,
	KeyInventory,
	KeyFavoriteLocations,
	KeyStockHistory,
	KeyDeliveryPricing,
	KeySavings,
	KeyUser,
}

type Adapter struct {
	repo repository.SlotRepository
}

func NewAdapter(repo repository.SlotRepository) *Adapter {
	return &Adapter{repo: repo}
}

// Load reads every state slot. A slot that is missing or cannot be decoded falls
// back to its default without affecting the others.
func (a *Adapter) Load(ctx context.Context) *domain.State {
	logger.EnterMethod("Adapter.Load")
	state := domain.DefaultState()

	raw, err := a.repo.LoadSlots(ctx, StateKeys)
	if err != nil {
		logger.Warn("Failed to read state slots, starting from defaults", "error", err)
		logger.ExitMethodWithError("Adapter.Load", err)
		return state
	}

	decodeInto(raw, KeyUser, &state.User)
	decodeInto(raw, KeyTransactions, &state.Transactions)
	decodeInto(raw, KeyDeletedTransactions, &state.DeletedTransactions)
	decodeInto(raw, KeyCompletedTransactions, &state.CompletedTransactions)
	decodeInto(raw, KeyInventory, &state.Inventory)
	decodeInto(raw, KeyFavoriteLocations, &state.FavoriteLocations)
	decodeInto(raw, KeyStockHistory, &state.StockHistory)
	decodeInto(raw, KeyDeliveryPricing, &state.DeliveryPricingOptions)
	decodeInto(raw, KeySavings, &state.Savings)

	for i := range state.Transactions {
		if state.Transactions[i].PaymentStatus == "" {
			state.Transactions[i].PaymentStatus = domain.PaymentStatusUnpaid
		}
	}
	for i := range state.CompletedTransactions {
		if state.CompletedTransactions[i].PaymentStatus == "" {
			state.CompletedTransactions[i].PaymentStatus = domain.PaymentStatusPaid
		}
	}
	normalizeNil(state)

	logger.ExitMethod("Adapter.Load", "active", len(state.Transactions), "completed", len(state.CompletedTransactions))
	return state
}

// decodeInto replaces *dst only when the slot exists and decodes cleanly.
func decodeInto[T any](raw map[string][]byte, key string, dst *T) {
	data, ok := raw[key]
	if !ok || len(data) == 0 {
		return
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		logger.Warn("Discarding unreadable slot", "slot", key, "error", err)
		return
	}
	*dst = v
}

// normalizeNil keeps collections encoding as [] rather than null.
func normalizeNil(s *domain.State) {
	if s.Transactions == nil {
		s.Transactions = []domain.Transaction{}
	}
	if s.DeletedTransactions == nil {
		s.DeletedTransactions = []domain.Transaction{}
	}
	if s.CompletedTransactions == nil {
		s.CompletedTransactions = []domain.Transaction{}
	}
	if s.Inventory == nil {
		s.Inventory = []domain.InventoryItem{}
	}
	if s.FavoriteLocations == nil {
		s.FavoriteLocations = []domain.FavoriteLocation{}
	}
	if s.StockHistory == nil {
		s.StockHistory = []domain.StockHistory{}
	}
	if s.DeliveryPricingOptions == nil {
		s.DeliveryPricingOptions = []domain.DeliveryPricing{}
	}
	if s.Savings.Entries == nil {
		s.Savings.Entries = []domain.SavingsEntry{}
	}
}

// Save encodes every state slot and writes them in one atomic repository call.
func (a *Adapter) Save(ctx context.Context, state *domain.State) error {
	slots := make(map[string][]byte, len(StateKeys))
	values := map[string]any{
		KeyUser:                  state.User,
		KeyTransactions:          state.Transactions,
		KeyDeletedTransactions:   state.DeletedTransactions,
		KeyCompletedTransactions: state.CompletedTransactions,
		KeyInventory:             state.Inventory,
		KeyFavoriteLocations:     state.FavoriteLocations,
		KeyStockHistory:          state.StockHistory,
		KeyDeliveryPricing:       state.DeliveryPricingOptions,
		KeySavings:               state.Savings,
	}
	for key, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode slot %s: %w", key, err)
		}
		slots[key] = data
	}

	if err := a.repo.SaveSlots(ctx, slots); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// LoadSlot decodes one JSON slot into dst. It reports false, leaving dst untouched,
// when the slot is missing or unreadable.
func (a *Adapter) LoadSlot(ctx context.Context, key string, dst any) bool {
	raw, err := a.repo.LoadSlots(ctx, []string{key})
	if err != nil {
		logger.Warn("Failed to read slot", "slot", key, "error", err)
		return false
	}
	data, ok := raw[key]
	if !ok || len(data) == 0 {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		logger.Warn("Discarding unreadable slot", "slot", key, "error", err)
		return false
	}
	return true
}

// SaveSlot encodes value as JSON and writes it under key.
func (a *Adapter) SaveSlot(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode slot %s: %w", key, err)
	}
	if err := a.repo.SaveSlots(ctx, map[string][]byte{key: data}); err != nil {
		return fmt.Errorf("failed to save slot %s: %w", key, err)
	}
	return nil
}

// LoadPassword returns the raw password slot. The slot is stored unencoded.
func (a *Adapter) LoadPassword(ctx context.Context) (string, bool, error) {
	raw, err := a.repo.LoadSlots(ctx, []string{KeyPassword})
	if err != nil {
		return "", false, fmt.Errorf("failed to read password slot: %w", err)
	}
	data, ok := raw[KeyPassword]
	if !ok || len(data) == 0 {
		return "", false, nil
	}
	return string(data), true, nil
}

func (a *Adapter) SavePassword(ctx context.Context, value string) error {
	if err := a.repo.SaveSlots(ctx, map[string][]byte{KeyPassword: []byte(value)}); err != nil {
		return fmt.Errorf("failed to save password slot: %w", err)
	}
	return nil
}

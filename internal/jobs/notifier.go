package jobs

import (
	"context"
	"log/slog"

	"psrental-backend/internal/domain"
	"psrental-backend/internal/logger"
	"psrental-backend/internal/utils"
)

// Notifier delivers the reminders raised by the scheduled jobs.
type Notifier interface {
	PickupDue(ctx context.Context, tx domain.Transaction) error
	LowStock(ctx context.Context, items []domain.InventoryItem) error
	SavingsReminder(ctx context.Context, balance int64) error
}

type logNotifier struct {
	log *slog.Logger
}

// NewLogNotifier returns a Notifier that writes every reminder to the application log.
func NewLogNotifier() Notifier {
	return &logNotifier{log: logger.WithService("notifier")}
}

func (n *logNotifier) PickupDue(ctx context.Context, tx domain.Transaction) error {
	n.log.InfoContext(ctx, "Pickup due soon",
		"transaction_id", tx.ID,
		"customer", tx.CustomerName,
		"phone", tx.CustomerPhone,
		"address", tx.Location.Address,
		"pickup_time", tx.PickupTime)
	return nil
}

func (n *logNotifier) LowStock(ctx context.Context, items []domain.InventoryItem) error {
	for _, item := range items {
		n.log.WarnContext(ctx, "Low stock",
			"item_id", item.ID,
			"name", item.Name,
			"available", item.Available,
			"min_stock", item.MinStock)
	}
	return nil
}

func (n *logNotifier) SavingsReminder(ctx context.Context, balance int64) error {
	n.log.InfoContext(ctx, "No savings deposit today", "balance", utils.FormatRupiah(balance))
	return nil
}

package jobs

import (
	"context"

	"psrental-backend/internal/logger"
	"psrental-backend/internal/report"
)

// PickupReminders announces active rentals whose pickup is inside the reminder window
// and marks each one so it is announced only once.
func (jr *JobRunner) PickupReminders() {
	jr.runWithRecovery("PickupReminders", func() {
		ctx := context.Background()
		now := jr.store.Now()
		lead := jr.config.PickupReminderLeadTime()

		count := 0
		for _, tx := range jr.store.Snapshot().Transactions {
			if !tx.PickupReminderDue(now, lead) {
				continue
			}
			if err := jr.notifier.PickupDue(ctx, tx); err != nil {
				logger.Error("Failed to send pickup reminder", "transaction_id", tx.ID, "error", err)
				continue
			}
			if _, err := jr.store.MarkNotificationShown(ctx, tx.ID); err != nil {
				logger.Warn("Failed to mark pickup reminder", "transaction_id", tx.ID, "error", err)
				continue
			}
			count++
		}

		if count > 0 {
			logger.Info("Sent pickup reminders", "count", count)
		}
	})
}

// LowStockAlerts announces inventory items at or below their minimum stock.
func (jr *JobRunner) LowStockAlerts() {
	jr.runWithRecovery("LowStockAlerts", func() {
		items := report.LowStockItems(jr.store.Snapshot().Inventory)
		if len(items) == 0 {
			return
		}
		if err := jr.notifier.LowStock(context.Background(), items); err != nil {
			logger.Error("Failed to send low stock alert", "items", len(items), "error", err)
		}
	})
}

// SavingsReminder nags when nothing was deposited into savings today.
func (jr *JobRunner) SavingsReminder() {
	jr.runWithRecovery("SavingsReminder", func() {
		if !jr.store.ShouldShowSavingsReminder() {
			return
		}
		balance := jr.store.Snapshot().Savings.TotalBalance
		if err := jr.notifier.SavingsReminder(context.Background(), balance); err != nil {
			logger.Error("Failed to send savings reminder", "error", err)
		}
	})
}

package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers every API route under /api/v1. Route names key the
// security levels in config.RouteSecurityConfig.
func NewRouter(h *Handler) *mux.Router {
	router := mux.NewRouter()
	router.Use(RecoveryMiddleware, LoggingMiddleware)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(h.SecurityMiddleware)

	api.HandleFunc("/health", h.Health).Methods(http.MethodGet).Name("health")

	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost).Name("auth.login")
	api.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost).Name("auth.logout")
	api.HandleFunc("/auth/password", h.ChangePassword).Methods(http.MethodPost).Name("auth.password")
	api.HandleFunc("/profile", h.UpdateProfile).Methods(http.MethodPut).Name("profile.update")

	api.HandleFunc("/state", h.GetState).Methods(http.MethodGet).Name("state.get")

	api.HandleFunc("/transactions", h.ListTransactions).Methods(http.MethodGet).Name("transactions.list")
	api.HandleFunc("/transactions", h.AddTransaction).Methods(http.MethodPost).Name("transactions.create")
	api.HandleFunc("/transactions/completed", h.ListCompletedTransactions).Methods(http.MethodGet).Name("transactions.completed")
	api.HandleFunc("/transactions/deleted", h.ListDeletedTransactions).Methods(http.MethodGet).Name("transactions.deleted")
	api.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods(http.MethodDelete).Name("transactions.delete")
	api.HandleFunc("/transactions/{id}/end-session", h.EndSession).Methods(http.MethodPost).Name("transactions.end_session")
	api.HandleFunc("/transactions/{id}/complete", h.CompleteTransaction).Methods(http.MethodPost).Name("transactions.complete")
	api.HandleFunc("/transactions/{id}/extend-days", h.ExtendDays).Methods(http.MethodPost).Name("transactions.extend_days")
	api.HandleFunc("/transactions/{id}/extend-hours", h.ExtendHours).Methods(http.MethodPost).Name("transactions.extend_hours")
	api.HandleFunc("/transactions/{id}/payments", h.AddPayment).Methods(http.MethodPost).Name("transactions.payment")
	api.HandleFunc("/transactions/{id}/payment-status", h.UpdatePaymentStatus).Methods(http.MethodPost).Name("transactions.payment_status")
	api.HandleFunc("/transactions/{id}/notification-shown", h.MarkNotificationShown).Methods(http.MethodPost).Name("transactions.notification_shown")

	api.HandleFunc("/inventory", h.ListInventory).Methods(http.MethodGet).Name("inventory.list")
	api.HandleFunc("/inventory/history", h.ListStockHistory).Methods(http.MethodGet).Name("inventory.history")
	api.HandleFunc("/inventory/{id}/stock", h.UpdateStock).Methods(http.MethodPut).Name("inventory.stock")
	api.HandleFunc("/packages", h.ListPackages).Methods(http.MethodGet).Name("packages.list")

	api.HandleFunc("/favorites", h.ListFavorites).Methods(http.MethodGet).Name("favorites.list")
	api.HandleFunc("/favorites", h.AddFavorite).Methods(http.MethodPost).Name("favorites.create")
	api.HandleFunc("/favorites/{id}", h.RemoveFavorite).Methods(http.MethodDelete).Name("favorites.delete")

	api.HandleFunc("/delivery-pricing", h.ListDeliveryPricing).Methods(http.MethodGet).Name("delivery_pricing.list")
	api.HandleFunc("/delivery-pricing", h.CreateDeliveryPricing).Methods(http.MethodPost).Name("delivery_pricing.create")
	api.HandleFunc("/delivery-pricing/{id}", h.UpdateDeliveryPricing).Methods(http.MethodPut).Name("delivery_pricing.update")

	api.HandleFunc("/savings", h.GetSavings).Methods(http.MethodGet).Name("savings.get")
	api.HandleFunc("/savings/deposit", h.Deposit).Methods(http.MethodPost).Name("savings.deposit")
	api.HandleFunc("/savings/withdraw", h.Withdraw).Methods(http.MethodPost).Name("savings.withdraw")
	api.HandleFunc("/savings/reminder", h.SavingsReminder).Methods(http.MethodGet).Name("savings.reminder")

	api.HandleFunc("/reports/revenue", h.Revenue).Methods(http.MethodGet).Name("reports.revenue")
	api.HandleFunc("/reports/today", h.TodayRevenue).Methods(http.MethodGet).Name("reports.today")
	api.HandleFunc("/reports/yesterday", h.YesterdayRevenue).Methods(http.MethodGet).Name("reports.yesterday")
	api.HandleFunc("/reports/weekly", h.WeeklyRevenue).Methods(http.MethodGet).Name("reports.weekly")
	api.HandleFunc("/reports/summary", h.Summary).Methods(http.MethodGet).Name("reports.summary")
	api.HandleFunc("/reports/low-stock", h.LowStock).Methods(http.MethodGet).Name("reports.low_stock")
	api.HandleFunc("/reports/export.xlsx", h.ExportXLSX).Methods(http.MethodGet).Name("reports.export")

	api.HandleFunc("/notifications/pickups", h.PendingPickups).Methods(http.MethodGet).Name("notifications.pickups")

	return router
}

package http

import (
	"bytes"
	"fmt"
	"net/http"

	"psrental-backend/internal/domain"
	"psrental-backend/internal/logger"
	"psrental-backend/internal/report"
	"psrental-backend/internal/utils"
)

type revenueView struct {
	Date    string               `json:"date"`
	Revenue *domain.DailyRevenue `json:"revenue"`
}

func (h *Handler) Revenue(w http.ResponseWriter, r *http.Request) {
	loc := h.store.Location()
	date := r.URL.Query().Get("date")
	if date == "" {
		date = utils.LocalDateString(h.store.Now(), loc)
	} else if _, err := utils.ParseLocalDate(date, loc); err != nil {
		badRequest(w, err.Error())
		return
	}

	ok(w, revenueView{Date: date, Revenue: report.DailyRevenue(h.store.Snapshot(), date, loc)})
}

func (h *Handler) TodayRevenue(w http.ResponseWriter, r *http.Request) {
	now, loc := h.store.Now(), h.store.Location()
	ok(w, revenueView{
		Date:    utils.LocalDateString(now, loc),
		Revenue: report.TodayRevenue(h.store.Snapshot(), now, loc),
	})
}

func (h *Handler) YesterdayRevenue(w http.ResponseWriter, r *http.Request) {
	now, loc := h.store.Now(), h.store.Location()
	ok(w, revenueView{
		Date:    utils.LocalDateString(utils.StartOfDay(now, loc).AddDate(0, 0, -1), loc),
		Revenue: report.YesterdayRevenue(h.store.Snapshot(), now, loc),
	})
}

func (h *Handler) WeeklyRevenue(w http.ResponseWriter, r *http.Request) {
	ok(w, report.WeeklySeries(h.store.Snapshot(), h.store.Now(), h.store.Location()))
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	period, err := report.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	ok(w, report.Summarize(h.store.Snapshot(), period, h.store.Now(), h.store.Location()))
}

func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	ok(w, report.LowStockItems(h.store.Snapshot().Inventory))
}

func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	period, err := report.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	state, now, loc := h.store.Snapshot(), h.store.Now(), h.store.Location()
	txs := report.InPeriod(state.AllRevenueTransactions(), period, now, loc)
	filename := fmt.Sprintf("laporan-%s-%s.xlsx", period, utils.LocalDateString(now, loc))

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, report.Summarize(state, period, now, loc), report.WeeklySeries(state, now, loc), txs, loc); err != nil {
		logger.Error("Failed to export report", "period", period, "error", err)
		errorResponse(w, http.StatusInternalServerError, "EXPORT_FAILED", "failed to build report")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("Failed to send report", "error", err)
	}
}

// Package report derives read-only views from a state snapshot.
package report

import (
	"fmt"
	"time"

	"psrental-backend/internal/domain"
	"psrental-backend/internal/utils"
)

type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodWeek, PeriodMonth, PeriodAll:
		return Period(s), nil
	case "":
		return PeriodMonth, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

var weekdayShort = [...]string{"Min", "Sen", "Sel", "Rab", "Kam", "Jum", "Sab"}

var typeLabels = map[domain.TransactionType]string{
	domain.TransactionTypeDeliveryOnly: "Jasa Antar",
	domain.TransactionTypePickupUnit:   "Ambil Unit",
}

// DayPoint is one bar of the weekly revenue chart.
type DayPoint struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Revenue int64  `json:"revenue"`
	Count   int    `json:"count"`
}

type TypeBreakdown struct {
	Type       domain.TransactionType `json:"type"`
	Label      string                 `json:"label"`
	Revenue    int64                  `json:"revenue"`
	Count      int                    `json:"count"`
	Percentage float64                `json:"percentage"`
}

type Summary struct {
	Period           Period          `json:"period"`
	TotalRevenue     int64           `json:"total_revenue"`
	TransactionCount int             `json:"transaction_count"`
	Breakdown        []TypeBreakdown `json:"breakdown"`
}

// DailyRevenue totals the active and completed transactions created on the given
// local date (yyyy-mm-dd). It returns nil when there are none.
func DailyRevenue(state *domain.State, date string, loc *time.Location) *domain.DailyRevenue {
	var out *domain.DailyRevenue
	for _, t := range state.AllRevenueTransactions() {
		if utils.LocalDateString(t.Date, loc) != date {
			continue
		}
		if out == nil {
			out = &domain.DailyRevenue{Date: date}
		}
		out.TotalAmount += t.Amount
		out.TransactionCount++
		switch t.Type {
		case domain.TransactionTypeDeliveryOnly:
			out.DeliveryOnlyCount++
		case domain.TransactionTypePickupUnit:
			out.PickupUnitCount++
		}
	}
	return out
}

func TodayRevenue(state *domain.State, now time.Time, loc *time.Location) *domain.DailyRevenue {
	return DailyRevenue(state, utils.LocalDateString(now, loc), loc)
}

func YesterdayRevenue(state *domain.State, now time.Time, loc *time.Location) *domain.DailyRevenue {
	yesterday := utils.StartOfDay(now, loc).AddDate(0, 0, -1)
	return DailyRevenue(state, utils.LocalDateString(yesterday, loc), loc)
}

// WeeklySeries returns the last seven local days ending today, oldest first.
func WeeklySeries(state *domain.State, now time.Time, loc *time.Location) []DayPoint {
	today := utils.StartOfDay(now, loc)
	points := make([]DayPoint, 7)
	index := make(map[string]int, 7)
	for i := range points {
		day := today.AddDate(0, 0, i-6)
		date := utils.LocalDateString(day, loc)
		points[i] = DayPoint{Date: date, Weekday: weekdayShort[day.Weekday()]}
		index[date] = i
	}

	for _, t := range state.AllRevenueTransactions() {
		if i, ok := index[utils.LocalDateString(t.Date, loc)]; ok {
			points[i].Revenue += t.Amount
			points[i].Count++
		}
	}
	return points
}

// InPeriod filters transactions created within the period ending now.
func InPeriod(txs []domain.Transaction, period Period, now time.Time, loc *time.Location) []domain.Transaction {
	if period == PeriodAll {
		return txs
	}

	today := utils.StartOfDay(now, loc)
	var from, to time.Time
	switch period {
	case PeriodWeek:
		from, to = today.AddDate(0, 0, -6), today.AddDate(0, 0, 1)
	default:
		from = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		to = from.AddDate(0, 1, 0)
	}

	out := make([]domain.Transaction, 0, len(txs))
	for _, t := range txs {
		if !t.Date.Before(from) && t.Date.Before(to) {
			out = append(out, t)
		}
	}
	return out
}

// Summarize totals revenue for the period with a per-type breakdown.
func Summarize(state *domain.State, period Period, now time.Time, loc *time.Location) Summary {
	txs := InPeriod(state.AllRevenueTransactions(), period, now, loc)

	s := Summary{Period: period, TransactionCount: len(txs)}
	byType := map[domain.TransactionType]*TypeBreakdown{}
	for _, typ := range []domain.TransactionType{domain.TransactionTypeDeliveryOnly, domain.TransactionTypePickupUnit} {
		s.Breakdown = append(s.Breakdown, TypeBreakdown{Type: typ, Label: typeLabels[typ]})
	}
	for i := range s.Breakdown {
		byType[s.Breakdown[i].Type] = &s.Breakdown[i]
	}

	for _, t := range txs {
		s.TotalRevenue += t.Amount
		if b, ok := byType[t.Type]; ok {
			b.Revenue += t.Amount
			b.Count++
		}
	}
	if s.TotalRevenue > 0 {
		for i := range s.Breakdown {
			s.Breakdown[i].Percentage = float64(s.Breakdown[i].Revenue) / float64(s.TotalRevenue) * 100
		}
	}
	return s
}

// LowStockItems returns the items at or below their alert threshold.
func LowStockItems(inventory []domain.InventoryItem) []domain.InventoryItem {
	out := []domain.InventoryItem{}
	for _, item := range inventory {
		if item.IsLowStock() {
			out = append(out, item)
		}
	}
	return out
}

// PackageAvailability pairs each catalog package with how many can be fulfilled now.
type PackageAvailability struct {
	domain.RentalPackage
	Available int `json:"available"`
}

func Packages(inventory []domain.InventoryItem) []PackageAvailability {
	pkgs := domain.Packages()
	out := make([]PackageAvailability, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, PackageAvailability{RentalPackage: p, Available: domain.PackageAvailableCount(p.ID, inventory)})
	}
	return out
}

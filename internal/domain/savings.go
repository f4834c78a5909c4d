package domain

import "time"

type SavingsEntry struct {
	ID        string    `json:"id"`
	Amount    int64     `json:"amount"` // positive for deposit, negative for withdrawal
	Date      time.Time `json:"date"`
	Note      string    `json:"note,omitempty"`
	CreatedBy string    `json:"created_by"`
}

type SavingsState struct {
	TotalBalance    int64          `json:"total_balance"`
	Entries         []SavingsEntry `json:"entries"`
	LastDepositDate string         `json:"last_deposit_date,omitempty"` // yyyy-mm-dd, local calendar
}

// ShouldShowReminder is true when no deposit was made on the given local date.
func (s SavingsState) ShouldShowReminder(today string) bool {
	return s.LastDepositDate == "" || s.LastDepositDate != today
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the canonical, fully-derived form of one bank CSV row.
// Every field is a pure function of the raw row; rows whose timestamp
// cannot be parsed never become Transactions.
type Transaction struct {
	Timestamp    time.Time
	Description  string
	Amount       decimal.Decimal // account currency, non-negative
	AmountCCY    decimal.Decimal // amount in the charged currency
	SignedAmount decimal.Decimal // positive = spend (debit), negative = refund (credit)
	Date         time.Time       // Timestamp truncated to midnight
	Month        string          // "2006-01", sorts chronologically as a string
	Weekday      string          // English full name
	Hour         int             // 0-23
	Merchant     string          // trimmed Description, used as a grouping key
	Category     string
	WorkLunch    bool
	Currency     string
	Country      string
}

// IsRefund reports whether the transaction is a credit (negative signed amount).
func (t Transaction) IsRefund() bool {
	return t.SignedAmount.IsNegative()
}

// DateOnly truncates an instant to midnight, the grouping key for daily sums.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MonthKey formats the year-month label for an instant.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

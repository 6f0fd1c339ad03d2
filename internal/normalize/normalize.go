package normalize

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlens-dev/spendlens/internal/model"
)

// SchemaError reports required columns absent from a raw export. It is fatal
// for the whole run; no partial result is produced.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// HolidayChecker tests whether a day is a public holiday.
type HolidayChecker interface {
	Contains(t time.Time) bool
}

// Options controls holiday observance for the work-lunch rule.
type Options struct {
	// ObserveHolidays excludes public holidays from work days when set.
	// The default rule treats every Monday-Friday as a work day.
	ObserveHolidays bool
	Holidays        HolidayChecker
}

// Report carries diagnostic counts from one normalization pass. The counts
// are informational only; dropped and zeroed rows are not errors.
type Report struct {
	RowsIn        int
	DroppedRows   int // unparseable timestamp
	ZeroedAmounts int // unparseable GBP amount coerced to 0
}

// timestampLayouts are tried in order; first match wins.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02",
}

// Work-lunch window, minutes since midnight: [11:30, 14:00).
const (
	lunchStartMin = 11*60 + 30
	lunchEndMin   = 14 * 60
)

// Normalize validates the export schema and converts raw rows into canonical
// transactions sorted ascending by timestamp (stable on ties).
//
// Policy is lenient with data, strict with schema: a missing column fails the
// whole call with *SchemaError, while a row whose timestamp will not parse is
// silently dropped and an unparseable amount becomes zero.
func Normalize(table model.RawTable, opts Options) ([]model.Transaction, Report, error) {
	var missing []string
	for _, col := range model.RequiredColumns {
		if !table.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, Report{}, &SchemaError{Missing: missing}
	}

	report := Report{RowsIn: table.Len()}
	txns := make([]model.Transaction, 0, table.Len())

	for i := 0; i < table.Len(); i++ {
		ts, ok := parseTimestamp(table.Cell(i, model.ColTimestamp))
		if !ok {
			report.DroppedRows++
			continue
		}

		amount, ok := parseAmount(table.Cell(i, model.ColAmountGBP))
		if !ok {
			report.ZeroedAmounts++
		}
		amountCCY, _ := parseAmount(table.Cell(i, model.ColAmountCCY))

		signed := amount
		if !isDebit(table.Cell(i, model.ColDebitCred)) {
			signed = amount.Neg()
		}

		desc := table.Cell(i, model.ColDesc)
		category := table.Cell(i, model.ColCategory)

		txns = append(txns, model.Transaction{
			Timestamp:    ts,
			Description:  desc,
			Amount:       amount,
			AmountCCY:    amountCCY,
			SignedAmount: signed,
			Date:         model.DateOnly(ts),
			Month:        model.MonthKey(ts),
			Weekday:      ts.Weekday().String(),
			Hour:         ts.Hour(),
			Merchant:     strings.TrimSpace(desc),
			Category:     category,
			WorkLunch:    isWorkLunch(ts, category, opts),
			Currency:     table.Cell(i, model.ColCurrency),
			Country:      table.Cell(i, model.ColCountry),
		})
	}

	sort.SliceStable(txns, func(a, b int) bool {
		return txns[a].Timestamp.Before(txns[b].Timestamp)
	})
	return txns, report, nil
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			// Timestamps are timezone-naive; strip any offset the layout
			// captured so day and hour math stays in wall-clock terms.
			return time.Date(ts.Year(), ts.Month(), ts.Day(), ts.Hour(), ts.Minute(), ts.Second(), ts.Nanosecond(), time.UTC), true
		}
	}
	return time.Time{}, false
}

func parseAmount(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// isDebit matches the debit/credit indicator by case-insensitive prefix,
// so "Debit", " debit ", and "DEBIT CARD" all count as debits.
func isDebit(indicator string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(indicator)), "debit")
}

func isWorkLunch(ts time.Time, category string, opts Options) bool {
	if !strings.EqualFold(strings.TrimSpace(category), "eating out") {
		return false
	}
	wd := ts.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	if opts.ObserveHolidays && opts.Holidays != nil && opts.Holidays.Contains(ts) {
		return false
	}
	mins := ts.Hour()*60 + ts.Minute()
	return mins >= lunchStartMin && mins < lunchEndMin
}

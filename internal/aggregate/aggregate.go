package aggregate

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlens-dev/spendlens/internal/model"
)

// ErrEmptyInput is returned when Aggregate is called on an empty set.
// Callers are expected to short-circuit empty filtered sets themselves and
// present a "no data" state; the guard exists so the averages never divide
// by zero.
var ErrEmptyInput = errors.New("cannot aggregate an empty transaction set")

// DefaultTopN is the ranking length for top merchants and transactions.
const DefaultTopN = 15

// DailySum is one day's total signed spend.
type DailySum struct {
	Date time.Time
	Sum  decimal.Decimal
}

// MonthlySum is one month's total signed spend.
type MonthlySum struct {
	Month string
	Sum   decimal.Decimal
}

// CategorySum is one category's total signed spend.
type CategorySum struct {
	Category string
	Sum      decimal.Decimal
}

// HourSum is the total signed spend for one hour of the day.
type HourSum struct {
	Hour int
	Sum  decimal.Decimal
}

// WeekdaySum is the total signed spend for one weekday.
type WeekdaySum struct {
	Weekday string
	Sum     decimal.Decimal
}

// MerchantSum is one merchant's total signed spend.
type MerchantSum struct {
	Merchant string
	Sum      decimal.Decimal
}

// MonthWorkLunch splits one month's spend into work-lunch and other, with
// the work-lunch share of the month (0 when the month total is 0).
type MonthWorkLunch struct {
	Month     string
	WorkLunch decimal.Decimal
	Other     decimal.Decimal
	Share     float64
}

// Result holds every aggregate the presentation layer displays. All sums are
// over SignedAmount, so refunds offset spend wherever they were not filtered
// out upstream.
type Result struct {
	TotalSpend      decimal.Decimal
	TxnCount        int
	AvgPerTxn       decimal.Decimal
	AvgPerDay       decimal.Decimal // mean of the daily sums, not of transactions
	AvgMonthlySpend decimal.Decimal // mean of the monthly sums
	BudgetVariance  decimal.Decimal // budget - AvgMonthlySpend

	WorkLunchSpend decimal.Decimal
	WorkLunchCount int
	WorkLunchShare float64 // 0 when TotalSpend is 0

	// MerchantHHI is the sum of squared merchant spend shares. With net
	// refunds in the set it can leave [0,1]; that is accepted, not corrected.
	MerchantHHI float64

	Daily            []DailySum    // chronological
	Monthly          []MonthlySum  // chronological
	ByCategory       []CategorySum // ascending category name
	ByHour           []HourSum     // hour 0-23
	ByWeekday        []WeekdaySum  // Monday first
	WorkLunchByMonth []MonthWorkLunch

	TopMerchants    []MerchantSum       // by sum descending
	TopTransactions []model.Transaction // by signed amount descending
}

// Aggregate computes the full statistics set over a non-empty transaction
// sequence. budget is the monthly budget used for the variance figure; topN
// bounds the rankings (DefaultTopN when <= 0).
func Aggregate(txns []model.Transaction, budget decimal.Decimal, topN int) (*Result, error) {
	if len(txns) == 0 {
		return nil, ErrEmptyInput
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	r := &Result{TxnCount: len(txns)}

	for _, txn := range txns {
		r.TotalSpend = r.TotalSpend.Add(txn.SignedAmount)
		if txn.WorkLunch {
			r.WorkLunchSpend = r.WorkLunchSpend.Add(txn.SignedAmount)
			r.WorkLunchCount++
		}
	}
	count := decimal.NewFromInt(int64(len(txns)))
	r.AvgPerTxn = r.TotalSpend.Div(count)

	r.Daily = sumByDay(txns)
	r.Monthly = sumByMonth(txns)
	r.ByCategory = sumByCategory(txns)
	r.ByHour = sumByHour(txns)
	r.ByWeekday = sumByWeekday(txns)
	r.WorkLunchByMonth = workLunchByMonth(txns)

	r.AvgPerDay = meanOfDaily(r.Daily)
	r.AvgMonthlySpend = meanOfMonthly(r.Monthly)
	r.BudgetVariance = budget.Sub(r.AvgMonthlySpend)

	if !r.TotalSpend.IsZero() {
		r.WorkLunchShare = r.WorkLunchSpend.InexactFloat64() / r.TotalSpend.InexactFloat64()
	}
	r.MerchantHHI = merchantHHI(txns, r.TotalSpend)

	r.TopMerchants = topMerchants(txns, topN)
	r.TopTransactions = topTransactions(txns, topN)

	return r, nil
}

func sumByDay(txns []model.Transaction) []DailySum {
	sums := make(map[time.Time]decimal.Decimal)
	for _, txn := range txns {
		sums[txn.Date] = sums[txn.Date].Add(txn.SignedAmount)
	}
	out := make([]DailySum, 0, len(sums))
	for d, s := range sums {
		out = append(out, DailySum{Date: d, Sum: s})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Date.Before(out[b].Date) })
	return out
}

func sumByMonth(txns []model.Transaction) []MonthlySum {
	sums := make(map[string]decimal.Decimal)
	for _, txn := range txns {
		sums[txn.Month] = sums[txn.Month].Add(txn.SignedAmount)
	}
	out := make([]MonthlySum, 0, len(sums))
	for m, s := range sums {
		out = append(out, MonthlySum{Month: m, Sum: s})
	}
	// "2006-01" labels sort chronologically as strings.
	sort.Slice(out, func(a, b int) bool { return out[a].Month < out[b].Month })
	return out
}

func sumByCategory(txns []model.Transaction) []CategorySum {
	sums := make(map[string]decimal.Decimal)
	for _, txn := range txns {
		sums[txn.Category] = sums[txn.Category].Add(txn.SignedAmount)
	}
	out := make([]CategorySum, 0, len(sums))
	for c, s := range sums {
		out = append(out, CategorySum{Category: c, Sum: s})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Category < out[b].Category })
	return out
}

func sumByHour(txns []model.Transaction) []HourSum {
	sums := make(map[int]decimal.Decimal)
	for _, txn := range txns {
		sums[txn.Hour] = sums[txn.Hour].Add(txn.SignedAmount)
	}
	out := make([]HourSum, 0, len(sums))
	for h, s := range sums {
		out = append(out, HourSum{Hour: h, Sum: s})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Hour < out[b].Hour })
	return out
}

func sumByWeekday(txns []model.Transaction) []WeekdaySum {
	sums := make(map[string]decimal.Decimal)
	for _, txn := range txns {
		sums[txn.Weekday] = sums[txn.Weekday].Add(txn.SignedAmount)
	}
	out := make([]WeekdaySum, 0, len(sums))
	for w, s := range sums {
		out = append(out, WeekdaySum{Weekday: w, Sum: s})
	}
	sort.Slice(out, func(a, b int) bool {
		return model.WeekdayIndex(out[a].Weekday) < model.WeekdayIndex(out[b].Weekday)
	})
	return out
}

func workLunchByMonth(txns []model.Transaction) []MonthWorkLunch {
	byMonth := make(map[string]*MonthWorkLunch)
	for _, txn := range txns {
		mwl, ok := byMonth[txn.Month]
		if !ok {
			mwl = &MonthWorkLunch{Month: txn.Month}
			byMonth[txn.Month] = mwl
		}
		if txn.WorkLunch {
			mwl.WorkLunch = mwl.WorkLunch.Add(txn.SignedAmount)
		} else {
			mwl.Other = mwl.Other.Add(txn.SignedAmount)
		}
	}
	out := make([]MonthWorkLunch, 0, len(byMonth))
	for _, mwl := range byMonth {
		total := mwl.WorkLunch.Add(mwl.Other)
		if !total.IsZero() {
			mwl.Share = mwl.WorkLunch.InexactFloat64() / total.InexactFloat64()
		}
		out = append(out, *mwl)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Month < out[b].Month })
	return out
}

func meanOfDaily(daily []DailySum) decimal.Decimal {
	total := decimal.Zero
	for _, d := range daily {
		total = total.Add(d.Sum)
	}
	return total.Div(decimal.NewFromInt(int64(len(daily))))
}

func meanOfMonthly(monthly []MonthlySum) decimal.Decimal {
	total := decimal.Zero
	for _, m := range monthly {
		total = total.Add(m.Sum)
	}
	return total.Div(decimal.NewFromInt(int64(len(monthly))))
}

func merchantHHI(txns []model.Transaction, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	sums := make(map[string]decimal.Decimal)
	for _, txn := range txns {
		sums[txn.Merchant] = sums[txn.Merchant].Add(txn.SignedAmount)
	}
	totalF := total.InexactFloat64()
	hhi := 0.0
	for _, s := range sums {
		share := s.InexactFloat64() / totalF
		hhi += share * share
	}
	return hhi
}

func topMerchants(txns []model.Transaction, n int) []MerchantSum {
	sums := make(map[string]decimal.Decimal)
	for _, txn := range txns {
		sums[txn.Merchant] = sums[txn.Merchant].Add(txn.SignedAmount)
	}
	ranked := make([]MerchantSum, 0, len(sums))
	for m, s := range sums {
		ranked = append(ranked, MerchantSum{Merchant: m, Sum: s})
	}
	sort.Slice(ranked, func(a, b int) bool {
		if !ranked[a].Sum.Equal(ranked[b].Sum) {
			return ranked[a].Sum.GreaterThan(ranked[b].Sum)
		}
		return ranked[a].Merchant < ranked[b].Merchant
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func topTransactions(txns []model.Transaction, n int) []model.Transaction {
	ranked := make([]model.Transaction, len(txns))
	copy(ranked, txns)
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].SignedAmount.GreaterThan(ranked[b].SignedAmount)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

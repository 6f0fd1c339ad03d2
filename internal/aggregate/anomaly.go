package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/spendlens-dev/spendlens/internal/model"
)

// DefaultMADThreshold is the MAD multiplier for the anomaly rule.
const DefaultMADThreshold = 3.0

// DetectAnomalies flags outlier transactions per category using a robust
// MAD rule over absolute signed amounts: a transaction is anomalous when
// |abs - median| > k * MAD for its category. k <= 0 falls back to
// DefaultMADThreshold.
//
// Categories with MAD == 0 (all amounts identical, or too few distinct
// values) never flag anything, no matter how extreme a value is. That is the
// intended degenerate-case behavior, not a gap in the rule.
//
// The combined result is sorted by signed amount descending.
func DetectAnomalies(txns []model.Transaction, k float64) []model.Transaction {
	if k <= 0 {
		k = DefaultMADThreshold
	}

	groups := make(map[string][]model.Transaction)
	for _, txn := range txns {
		groups[txn.Category] = append(groups[txn.Category], txn)
	}

	var anomalies []model.Transaction
	for _, group := range groups {
		abs := make([]decimal.Decimal, len(group))
		for i, txn := range group {
			abs[i] = txn.SignedAmount.Abs()
		}
		med := median(abs)

		deviations := make([]decimal.Decimal, len(abs))
		for i, v := range abs {
			deviations[i] = v.Sub(med).Abs()
		}
		mad := median(deviations)
		if mad.IsZero() {
			continue
		}

		threshold := decimal.NewFromFloat(k).Mul(mad)
		for i, txn := range group {
			if deviations[i].GreaterThan(threshold) {
				anomalies = append(anomalies, txn)
			}
		}
	}

	sort.Slice(anomalies, func(a, b int) bool {
		if !anomalies[a].SignedAmount.Equal(anomalies[b].SignedAmount) {
			return anomalies[a].SignedAmount.GreaterThan(anomalies[b].SignedAmount)
		}
		return anomalies[a].Timestamp.Before(anomalies[b].Timestamp)
	})
	return anomalies
}

// median returns the middle value of vs, averaging the two middle values for
// even lengths. Returns zero for an empty slice.
func median(vs []decimal.Decimal) decimal.Decimal {
	if len(vs) == 0 {
		return decimal.Zero
	}
	sorted := make([]decimal.Decimal, len(vs))
	copy(sorted, vs)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].LessThan(sorted[b]) })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2))
}

package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlens-dev/spendlens/internal/model"
)

func TestDetectAnomalies_FlagsOutlier(t *testing.T) {
	txns := []model.Transaction{
		txn(at(2025, 1, 1, 9), "A", "Groceries", "10.00", false),
		txn(at(2025, 1, 2, 9), "B", "Groceries", "12.00", false),
		txn(at(2025, 1, 3, 9), "C", "Groceries", "11.00", false),
		txn(at(2025, 1, 4, 9), "D", "Groceries", "9.00", false),
		txn(at(2025, 1, 5, 9), "E", "Groceries", "250.00", false),
	}

	anomalies := DetectAnomalies(txns, 3.0)
	require.Len(t, anomalies, 1)
	assert.Equal(t, "E", anomalies[0].Merchant)
}

func TestDetectAnomalies_ZeroMADFlagsNothing(t *testing.T) {
	// Median 10, MAD 0: even the 1000 never flags. Intended behavior.
	txns := []model.Transaction{
		txn(at(2025, 1, 1, 9), "A", "Subs", "10.00", false),
		txn(at(2025, 1, 2, 9), "B", "Subs", "10.00", false),
		txn(at(2025, 1, 3, 9), "C", "Subs", "10.00", false),
		txn(at(2025, 1, 4, 9), "D", "Subs", "1000.00", false),
	}

	assert.Empty(t, DetectAnomalies(txns, 3.0))
}

func TestDetectAnomalies_PerCategory(t *testing.T) {
	// The 60.00 coffee is extreme for Coffee but unremarkable for Travel;
	// grouping is per category, so only the coffee row flags.
	txns := []model.Transaction{
		txn(at(2025, 1, 1, 8), "CAFE", "Coffee", "3.00", false),
		txn(at(2025, 1, 2, 8), "CAFE", "Coffee", "3.20", false),
		txn(at(2025, 1, 3, 8), "CAFE", "Coffee", "2.80", false),
		txn(at(2025, 1, 4, 8), "CAFE", "Coffee", "3.10", false),
		txn(at(2025, 1, 5, 8), "CAFE", "Coffee", "60.00", false),
		txn(at(2025, 1, 6, 8), "TRAIN", "Travel", "55.00", false),
		txn(at(2025, 1, 7, 8), "TRAIN", "Travel", "60.00", false),
		txn(at(2025, 1, 8, 8), "TRAIN", "Travel", "58.00", false),
		txn(at(2025, 1, 9, 8), "TRAIN", "Travel", "62.00", false),
	}

	anomalies := DetectAnomalies(txns, 3.0)
	require.Len(t, anomalies, 1)
	assert.Equal(t, "Coffee", anomalies[0].Category)
	assert.True(t, anomalies[0].SignedAmount.Equal(dec("60.00")))
}

func TestDetectAnomalies_UsesAbsoluteAmounts(t *testing.T) {
	// A large refund is as anomalous as a large spend.
	txns := []model.Transaction{
		txn(at(2025, 1, 1, 9), "A", "Shopping", "20.00", false),
		txn(at(2025, 1, 2, 9), "B", "Shopping", "22.00", false),
		txn(at(2025, 1, 3, 9), "C", "Shopping", "21.00", false),
		txn(at(2025, 1, 4, 9), "D", "Shopping", "19.00", false),
		txn(at(2025, 1, 5, 9), "E", "Shopping", "-400.00", false),
	}

	anomalies := DetectAnomalies(txns, 3.0)
	require.Len(t, anomalies, 1)
	assert.Equal(t, "E", anomalies[0].Merchant)
}

func TestDetectAnomalies_SortedByAmountDescending(t *testing.T) {
	txns := []model.Transaction{
		txn(at(2025, 1, 1, 9), "A", "X", "10.00", false),
		txn(at(2025, 1, 2, 9), "B", "X", "11.00", false),
		txn(at(2025, 1, 3, 9), "C", "X", "9.00", false),
		txn(at(2025, 1, 4, 9), "D", "X", "300.00", false),
		txn(at(2025, 1, 5, 9), "E", "Y", "5.00", false),
		txn(at(2025, 1, 6, 9), "F", "Y", "5.50", false),
		txn(at(2025, 1, 7, 9), "G", "Y", "4.50", false),
		txn(at(2025, 1, 8, 9), "H", "Y", "150.00", false),
	}

	anomalies := DetectAnomalies(txns, 3.0)
	require.Len(t, anomalies, 2)
	assert.Equal(t, "D", anomalies[0].Merchant)
	assert.Equal(t, "H", anomalies[1].Merchant)
}

func TestDetectAnomalies_DefaultThreshold(t *testing.T) {
	txns := []model.Transaction{
		txn(at(2025, 1, 1, 9), "A", "X", "10.00", false),
		txn(at(2025, 1, 2, 9), "B", "X", "11.00", false),
		txn(at(2025, 1, 3, 9), "C", "X", "9.00", false),
		txn(at(2025, 1, 4, 9), "D", "X", "300.00", false),
	}

	assert.Equal(t, DetectAnomalies(txns, 3.0), DetectAnomalies(txns, 0))
}

func TestMedian(t *testing.T) {
	assert.True(t, median(nil).IsZero())
	assert.True(t, median(decs("5")).Equal(dec("5")))
	assert.True(t, median(decs("1", "9", "5")).Equal(dec("5")))
	assert.True(t, median(decs("1", "2", "3", "10")).Equal(dec("2.5")), "even length averages the middle pair")
	assert.True(t, median(decs("9", "1", "5")).Equal(dec("5")), "input order is irrelevant")
}

func decs(ss ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(ss))
	for i, s := range ss {
		out[i] = dec(s)
	}
	return out
}

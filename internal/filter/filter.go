package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/spendlens-dev/spendlens/internal/model"
)

// Filter narrows a canonical transaction set before aggregation. Unless
// IncludeRefunds is set, only rows with a positive signed amount survive.
type Filter struct {
	IncludeRefunds bool
	From           *time.Time // inclusive, compared against Date
	To             *time.Time // inclusive, compared against Date
	Categories     []string   // exact match; empty = all categories
	Search         string     // case-insensitive substring on Merchant
}

// Apply returns the transactions passing every criterion, preserving order.
func (f Filter) Apply(txns []model.Transaction) []model.Transaction {
	var categories map[string]struct{}
	if len(f.Categories) > 0 {
		categories = make(map[string]struct{}, len(f.Categories))
		for _, c := range f.Categories {
			categories[c] = struct{}{}
		}
	}
	search := strings.ToLower(f.Search)

	out := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		if !f.IncludeRefunds && !txn.SignedAmount.IsPositive() {
			continue
		}
		if f.From != nil && txn.Date.Before(model.DateOnly(*f.From)) {
			continue
		}
		if f.To != nil && txn.Date.After(model.DateOnly(*f.To)) {
			continue
		}
		if categories != nil {
			if _, ok := categories[txn.Category]; !ok {
				continue
			}
		}
		if search != "" && !strings.Contains(strings.ToLower(txn.Merchant), search) {
			continue
		}
		out = append(out, txn)
	}
	return out
}

// Categories returns the distinct category labels in txns, sorted.
func Categories(txns []model.Transaction) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, txn := range txns {
		if _, ok := seen[txn.Category]; ok {
			continue
		}
		seen[txn.Category] = struct{}{}
		out = append(out, txn.Category)
	}
	sort.Strings(out)
	return out
}

package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spendlens-dev/spendlens/internal/aggregate"
	"github.com/spendlens-dev/spendlens/internal/model"
)

// Artifact file names, matching what the dashboard's download buttons produce.
const (
	TransactionsFile = "filtered_transactions.csv"
	DailyFile        = "daily_spend.csv"
	MonthlyFile      = "monthly_spend.csv"
)

// WriteFiles writes the three CSV artifacts into dir, creating it if needed.
func WriteFiles(dir string, txns []model.Transaction, r *aggregate.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	if err := writeFile(filepath.Join(dir, TransactionsFile), func(f *os.File) error {
		return WriteTransactions(f, txns)
	}); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, DailyFile), func(f *os.File) error {
		return WriteDaily(f, r.Daily)
	}); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, MonthlyFile), func(f *os.File) error {
		return WriteMonthly(f, r.Monthly)
	})
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

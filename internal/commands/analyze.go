package commands

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/spendlens-dev/spendlens/internal/aggregate"
	"github.com/spendlens-dev/spendlens/internal/config"
	"github.com/spendlens-dev/spendlens/internal/export"
)

func newAnalyzeCommand() *cobra.Command {
	var (
		ff         filterFlags
		budgetStr  string
		configPath string
		exportDir  string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <csv>",
		Short: "Compute spending KPIs and aggregates from a bank export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("include-refunds") {
				ff.includeRefunds = cfg.Filters.IncludeRefunds
			}

			budget, err := cfg.MonthlyBudget()
			if err != nil {
				return err
			}
			if budgetStr != "" {
				budget, err = decimal.NewFromString(budgetStr)
				if err != nil {
					return fmt.Errorf("parsing --budget %q: %w", budgetStr, err)
				}
			}

			return runAnalyze(cmd, args[0], cfg, ff, budget, exportDir, verbose)
		},
	}

	ff.register(cmd)
	cmd.Flags().StringVar(&budgetStr, "budget", "", "monthly budget in GBP (overrides config)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to spendlens.yaml")
	cmd.Flags().StringVar(&exportDir, "export-dir", "", "write CSV artifacts into this directory")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	return cmd
}

func runAnalyze(cmd *cobra.Command, csvPath string, cfg *config.Config, ff filterFlags, budget decimal.Decimal, exportDir string, verbose bool) error {
	log := newRunLogger(verbose)

	txns, err := loadTransactions(log, cfg, csvPath)
	if err != nil {
		return err
	}

	f, err := ff.build()
	if err != nil {
		return err
	}
	filtered := f.Apply(txns)
	if len(filtered) == 0 {
		return fmt.Errorf("no transactions match the current filters")
	}

	result, err := aggregate.Aggregate(filtered, budget, cfg.Rankings.TopN)
	if err != nil {
		return err
	}

	printResult(cmd.OutOrStdout(), result, budget)

	if exportDir != "" {
		if err := export.WriteFiles(exportDir, filtered, result); err != nil {
			return err
		}
		log.Info().Str("dir", exportDir).Msg("wrote CSV artifacts")
	}
	return nil
}

func printResult(w io.Writer, r *aggregate.Result, budget decimal.Decimal) {
	fmt.Fprintf(w, "Total spend:        £%s\n", r.TotalSpend.StringFixed(2))
	fmt.Fprintf(w, "Transactions:       %d\n", r.TxnCount)
	fmt.Fprintf(w, "Avg / transaction:  £%s\n", r.AvgPerTxn.StringFixed(2))
	fmt.Fprintf(w, "Avg / day:          £%s\n", r.AvgPerDay.StringFixed(2))
	fmt.Fprintf(w, "Avg monthly spend:  £%s (budget £%s, variance £%s)\n",
		r.AvgMonthlySpend.StringFixed(2), budget.StringFixed(2), r.BudgetVariance.StringFixed(2))
	fmt.Fprintf(w, "Work lunches:       £%s over %d txns (%.1f%% of spend)\n",
		r.WorkLunchSpend.StringFixed(2), r.WorkLunchCount, r.WorkLunchShare*100)
	fmt.Fprintf(w, "Merchant HHI:       %.3f\n", r.MerchantHHI)

	fmt.Fprintf(w, "\nMonthly spend:\n")
	for _, m := range r.Monthly {
		fmt.Fprintf(w, "  %s  £%s\n", m.Month, m.Sum.StringFixed(2))
	}

	fmt.Fprintf(w, "\nSpend by category:\n")
	for _, c := range r.ByCategory {
		fmt.Fprintf(w, "  %-20s £%s\n", c.Category, c.Sum.StringFixed(2))
	}

	fmt.Fprintf(w, "\nSpend by weekday:\n")
	for _, wd := range r.ByWeekday {
		fmt.Fprintf(w, "  %-10s £%s\n", wd.Weekday, wd.Sum.StringFixed(2))
	}

	fmt.Fprintf(w, "\nWork-lunch share by month:\n")
	for _, m := range r.WorkLunchByMonth {
		fmt.Fprintf(w, "  %s  work lunch £%s, other £%s (%.1f%%)\n",
			m.Month, m.WorkLunch.StringFixed(2), m.Other.StringFixed(2), m.Share*100)
	}

	fmt.Fprintf(w, "\nTop merchants:\n")
	for _, m := range r.TopMerchants {
		fmt.Fprintf(w, "  %-30s £%s\n", m.Merchant, m.Sum.StringFixed(2))
	}

	fmt.Fprintf(w, "\nLargest transactions:\n")
	for _, txn := range r.TopTransactions {
		fmt.Fprintf(w, "  %s  %-30s £%s\n",
			txn.Timestamp.Format("2006-01-02 15:04"), txn.Merchant, txn.SignedAmount.StringFixed(2))
	}
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spendlens-dev/spendlens/internal/aggregate"
)

func newAnomaliesCommand() *cobra.Command {
	var (
		ff         filterFlags
		k          float64
		configPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "anomalies <csv>",
		Short: "Flag per-category outlier transactions (MAD rule)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("include-refunds") {
				ff.includeRefunds = cfg.Filters.IncludeRefunds
			}
			if !cmd.Flags().Changed("k") {
				k = cfg.Anomalies.K
			}

			log := newRunLogger(verbose)
			txns, err := loadTransactions(log, cfg, args[0])
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

			anomalies := aggregate.DetectAnomalies(filtered, k)
			out := cmd.OutOrStdout()
			if len(anomalies) == 0 {
				fmt.Fprintln(out, "No anomalies detected with the current filters.")
				return nil
			}
			for _, txn := range anomalies {
				fmt.Fprintf(out, "%s  %-30s %-15s £%s\n",
					txn.Timestamp.Format("2006-01-02 15:04"), txn.Merchant, txn.Category, txn.SignedAmount.StringFixed(2))
			}
			return nil
		},
	}

	ff.register(cmd)
	cmd.Flags().Float64Var(&k, "k", aggregate.DefaultMADThreshold, "MAD threshold multiplier")
	cmd.Flags().StringVar(&configPath, "config", "", "path to spendlens.yaml")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	return cmd
}

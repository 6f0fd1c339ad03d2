package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/spendlens-dev/spendlens/internal/config"
	"github.com/spendlens-dev/spendlens/internal/filter"
	"github.com/spendlens-dev/spendlens/internal/holidays"
	"github.com/spendlens-dev/spendlens/internal/importer"
	"github.com/spendlens-dev/spendlens/internal/logger"
	"github.com/spendlens-dev/spendlens/internal/model"
	"github.com/spendlens-dev/spendlens/internal/normalize"
)

// ConfigFile is the default configuration file name, looked up in the
// working directory when --config is not given.
const ConfigFile = "spendlens.yaml"

const flagDateFormat = "2006-01-02"

// filterFlags are the filter criteria shared by analyze and anomalies.
type filterFlags struct {
	includeRefunds bool
	from           string
	to             string
	categories     []string
	search         string
}

func (ff *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&ff.includeRefunds, "include-refunds", true, "keep credit (refund) rows")
	cmd.Flags().StringVar(&ff.from, "from", "", "start date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ff.to, "to", "", "end date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&ff.categories, "category", nil, "category to keep (repeatable; default all)")
	cmd.Flags().StringVar(&ff.search, "search", "", "case-insensitive merchant substring")
}

func (ff *filterFlags) build() (filter.Filter, error) {
	f := filter.Filter{
		IncludeRefunds: ff.includeRefunds,
		Categories:     ff.categories,
		Search:         ff.search,
	}
	if ff.from != "" {
		from, err := time.Parse(flagDateFormat, ff.from)
		if err != nil {
			return filter.Filter{}, fmt.Errorf("parsing --from %q: %w", ff.from, err)
		}
		f.From = &from
	}
	if ff.to != "" {
		to, err := time.Parse(flagDateFormat, ff.to)
		if err != nil {
			return filter.Filter{}, fmt.Errorf("parsing --to %q: %w", ff.to, err)
		}
		f.To = &to
	}
	return f, nil
}

// loadConfig reads the given config path, falling back to ./spendlens.yaml
// and then to defaults when neither exists.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat(ConfigFile); err == nil {
		return config.Load(ConfigFile)
	}
	return config.Default(), nil
}

// loadTransactions runs import and normalization for one CSV path and logs
// the drop/zero diagnostics at debug level.
func loadTransactions(log zerolog.Logger, cfg *config.Config, csvPath string) ([]model.Transaction, error) {
	opts := normalize.Options{}
	if cfg.WorkLunch.ObserveHolidays {
		if cfg.WorkLunch.HolidaysFile == "" {
			return nil, errors.New("work_lunch.observe_holidays is set but work_lunch.holidays_file is not")
		}
		cal, err := holidays.Load(cfg.WorkLunch.HolidaysFile)
		if err != nil {
			return nil, err
		}
		opts.ObserveHolidays = true
		opts.Holidays = cal
		log.Debug().Int("holidays", cal.Len()).Msg("holiday calendar loaded")
	}

	parser := importer.DefaultRegistry().Get("bank-export")
	table, err := importer.ParseFile(parser, csvPath)
	if err != nil {
		return nil, err
	}

	txns, report, err := normalize.Normalize(table, opts)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Int("rows_in", report.RowsIn).
		Int("rows_dropped", report.DroppedRows).
		Int("amounts_zeroed", report.ZeroedAmounts).
		Int("transactions", len(txns)).
		Msg("normalized export")
	return txns, nil
}

// newRunLogger builds the per-invocation logger with a fresh run ID.
func newRunLogger(verbose bool) zerolog.Logger {
	log := logger.New(verbose)
	return log.With().Str("run_id", uuid.NewString()).Logger()
}

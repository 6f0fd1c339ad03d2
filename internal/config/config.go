package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level spendlens.yaml configuration.
type Config struct {
	Budget    BudgetConfig    `yaml:"budget"`
	Filters   FiltersConfig   `yaml:"filters"`
	Anomalies AnomaliesConfig `yaml:"anomalies"`
	Rankings  RankingsConfig  `yaml:"rankings"`
	WorkLunch WorkLunchConfig `yaml:"work_lunch"`
}

// BudgetConfig sets the monthly budget the variance KPI compares against.
// Monthly is kept as a decimal string so the amount survives YAML round-trips
// without float drift.
type BudgetConfig struct {
	Monthly string `yaml:"monthly"`
}

// MonthlyBudget parses the configured monthly budget. Empty means zero.
func (c *Config) MonthlyBudget() (decimal.Decimal, error) {
	if c.Budget.Monthly == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(c.Budget.Monthly)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing budget.monthly %q: %w", c.Budget.Monthly, err)
	}
	return d, nil
}

// FiltersConfig holds default filter behavior.
type FiltersConfig struct {
	IncludeRefunds bool `yaml:"include_refunds"`
}

// AnomaliesConfig controls the per-category MAD outlier rule.
type AnomaliesConfig struct {
	K float64 `yaml:"k"`
}

// RankingsConfig bounds the top-merchant and top-transaction lists.
type RankingsConfig struct {
	TopN int `yaml:"top_n"`
}

// WorkLunchConfig selects the work-lunch rule variant. The default rule
// ignores holidays; setting ObserveHolidays requires a holidays CSV.
type WorkLunchConfig struct {
	ObserveHolidays bool   `yaml:"observe_holidays"`
	HolidaysFile    string `yaml:"holidays_file,omitempty"`
}

// Load reads a spendlens.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Budget: BudgetConfig{
			Monthly: "1000.00",
		},
		Filters: FiltersConfig{
			IncludeRefunds: true,
		},
		Anomalies: AnomaliesConfig{
			K: 3.0,
		},
		Rankings: RankingsConfig{
			TopN: 15,
		},
	}
}

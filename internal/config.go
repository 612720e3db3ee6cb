package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Config describes the scenario a fixture is generated for. Keys left out of a
// scenario file are filled from DefaultConfig.
type Config struct {
	// StartMonth and EndMonth bound the generated range (YYYY-MM, inclusive).
	// EndMonth is the current, partially elapsed month.
	StartMonth string `yaml:"start_month,omitempty"`
	EndMonth   string `yaml:"end_month,omitempty"`

	ExportDate string `yaml:"export_date,omitempty"` // RFC 3339, UTC
	AppVersion string `yaml:"app_version,omitempty"`

	// Currency is only used to format the reconciliation report
	Currency string `yaml:"currency,omitempty"`

	Salary          string         `yaml:"salary,omitempty"`
	SalaryOverrides map[int]string `yaml:"salary_overrides,omitempty"` // month number -> amount

	// Seasonal replaces base budget entries in specific calendar months
	Seasonal map[int]map[string]string `yaml:"seasonal,omitempty"`

	// Last day that transactions are dated on in the current month and in full months
	CurrentMonthCutoff int `yaml:"current_month_cutoff,omitempty"`
	FullMonthCutoff    int `yaml:"full_month_cutoff,omitempty"`

	// compiled fields
	startMonth      Month                            `yaml:"-"`
	endMonth        Month                            `yaml:"-"`
	exportDate      time.Time                        `yaml:"-"`
	salary          Amount                           `yaml:"-"`
	salaryOverrides map[time.Month]Amount            `yaml:"-"`
	seasonal        map[time.Month]map[string]Amount `yaml:"-"`
}

// DefaultConfig returns the uncompiled default scenario: Feb 2025 to Feb 2026,
// exported mid February 2026.
func DefaultConfig() *Config {
	return &Config{
		StartMonth: "2025-02",
		EndMonth:   "2026-02",
		ExportDate: "2026-02-15T12:00:00Z",
		AppVersion: "1.0",
		Currency:   "GBP",
		Salary:     "3800.00",
		SalaryOverrides: map[int]string{
			6:  "4100.00",
			12: "4350.00",
		},
		Seasonal: map[int]map[string]string{
			11: {"Energy": "185.00"},
			12: {"Energy": "195.00", "Gifts": "200.00"},
			1:  {"Energy": "190.00"},
			2:  {"Energy": "180.00"},
		},
		CurrentMonthCutoff: 14,
		FullMonthCutoff:    28,
	}
}

// NewDefaultConfig returns the compiled default scenario.
// Use this when no scenario file is given.
func NewDefaultConfig() (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.compile(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Nested seasonal maps are merged per category
	if err := mergo.Merge(&cfg, DefaultConfig()); err != nil {
		return nil, fmt.Errorf("applying config defaults: %w", err)
	}

	if err := cfg.compile(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) compile() error {
	var err error
	if c.startMonth, err = ParseMonth(c.StartMonth); err != nil {
		return fmt.Errorf("invalid start_month: %w", err)
	}
	if c.endMonth, err = ParseMonth(c.EndMonth); err != nil {
		return fmt.Errorf("invalid end_month: %w", err)
	}
	if c.endMonth.Before(c.startMonth) {
		return fmt.Errorf("end_month %s is before start_month %s", c.endMonth, c.startMonth)
	}

	if c.exportDate, err = time.Parse(time.RFC3339, c.ExportDate); err != nil {
		return fmt.Errorf("invalid export_date %q: %w", c.ExportDate, err)
	}

	if c.salary, err = ParseAmount(c.Salary); err != nil {
		return fmt.Errorf("invalid salary: %w", err)
	}
	c.salaryOverrides = make(map[time.Month]Amount, len(c.SalaryOverrides))
	for month, raw := range c.SalaryOverrides {
		if month < 1 || month > 12 {
			return fmt.Errorf("invalid salary_overrides month %d", month)
		}
		amt, err := ParseAmount(raw)
		if err != nil {
			return fmt.Errorf("invalid salary override for month %d: %w", month, err)
		}
		c.salaryOverrides[time.Month(month)] = amt
	}

	c.seasonal = make(map[time.Month]map[string]Amount, len(c.Seasonal))
	for month, entries := range c.Seasonal {
		if month < 1 || month > 12 {
			return fmt.Errorf("invalid seasonal month %d", month)
		}
		compiled := make(map[string]Amount, len(entries))
		for category, raw := range entries {
			amt, err := ParseAmount(raw)
			if err != nil {
				return fmt.Errorf("invalid seasonal amount for %s in month %d: %w", category, month, err)
			}
			compiled[category] = amt
		}
		c.seasonal[time.Month(month)] = compiled
	}

	if c.FullMonthCutoff < 1 || c.FullMonthCutoff > 28 {
		return fmt.Errorf("full_month_cutoff must be within 1-28, got %d", c.FullMonthCutoff)
	}
	if c.CurrentMonthCutoff < 1 || c.CurrentMonthCutoff > c.FullMonthCutoff {
		return fmt.Errorf("current_month_cutoff must be within 1-%d, got %d", c.FullMonthCutoff, c.CurrentMonthCutoff)
	}
	return nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Months returns every month in the scenario, oldest first
func (c *Config) Months() []Month {
	return MonthRange(c.startMonth, c.endMonth)
}

// CurrentMonth is the last, partially elapsed month of the scenario
func (c *Config) CurrentMonth() Month {
	return c.endMonth
}

// CutoffDay returns the last day transactions are dated on in month m
func (c *Config) CutoffDay(m Month) int {
	if m == c.endMonth {
		return c.CurrentMonthCutoff
	}
	return c.FullMonthCutoff
}

func (c *Config) ExportTime() time.Time {
	return c.exportDate.UTC()
}

// SalaryFor returns the salary paid for month m
func (c *Config) SalaryFor(m time.Month) Amount {
	if amt, ok := c.salaryOverrides[m]; ok {
		return amt
	}
	return c.salary
}

// MonthBudget returns the base budget with the seasonal entries for month m
// substituted in. Line order is preserved.
func (c *Config) MonthBudget(base []BudgetLine, m time.Month) []BudgetLine {
	overrides := c.seasonal[m]
	lines := make([]BudgetLine, len(base))
	for i, line := range base {
		lines[i] = line
		if amt, ok := overrides[line.Category]; ok {
			lines[i].Amount = amt
		}
	}
	return lines
}

// SeasonalCategories returns every category named in a seasonal override, sorted
func (c *Config) SeasonalCategories() []string {
	seen := make(map[string]bool)
	var names []string
	for _, entries := range c.seasonal {
		for category := range entries {
			if !seen[category] {
				seen[category] = true
				names = append(names, category)
			}
		}
	}
	sort.Strings(names)
	return names
}

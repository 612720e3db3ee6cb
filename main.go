package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/screenshot-fixtures/internal"
	"github.com/joho/godotenv"
)

type Params struct {
	Config      string `descr:"Path to a YAML scenario file (defaults are used for missing keys)" optional:"true"`
	Output      string `descr:"Output file, optionally prefixed with a format (json:, xlsx:, sqlite:)" short:"o" default:"screenshot-data.json"`
	Seed        int    `descr:"Random seed" env:"FIXTURE_SEED" default:"42"`
	Report      string `descr:"Reconciliation report format" alts:"table,json,none" strict:"true" default:"table"`
	IDs         bool   `name:"ids" descr:"Fill record ids with UUIDs derived from the seed" default:"false"`
	Check       string `descr:"Validate and report an existing JSON fixture instead of generating one" optional:"true"`
	WriteConfig string `name:"write-config" descr:"Write the default scenario as YAML to this path and exit" optional:"true"`
	Verbose     bool   `descr:"Enable debug logging" short:"v" default:"false"`
}

func main() {
	_ = godotenv.Load()

	boa.NewCmdT[Params]("screenshot-fixtures").
		WithShort("Generate budgeting app fixture data for screenshots").
		WithLong("Synthesizes a deterministic year of accounts, categories, budget allocations, transactions and payees, " +
			"writes them as a JSON fixture and prints a reconciliation of budgeted against spent amounts per category.").
		WithRunFunc(func(params *Params) {
			if err := run(params, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}).
		Run()
}

func run(params *Params, stdout io.Writer) error {
	level := slog.LevelInfo
	if params.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if params.WriteConfig != "" {
		if err := internal.DefaultConfig().Save(params.WriteConfig); err != nil {
			return err
		}
		slog.Info("Wrote default scenario", "path", params.WriteConfig)
		return nil
	}

	cfg, err := loadConfig(params.Config)
	if err != nil {
		return err
	}

	catalog, err := internal.DefaultCatalog()
	if err != nil {
		return err
	}

	if params.Check != "" {
		fixture, err := internal.ReadFixture(params.Check)
		if err != nil {
			return fmt.Errorf("reading fixture: %w", err)
		}
		if err := internal.ValidateFixture(fixture, catalog); err != nil {
			return fmt.Errorf("fixture %s is inconsistent:\n%w", params.Check, err)
		}
		slog.Info("Fixture is consistent", "path", params.Check, "transactions", len(fixture.Transactions))
		return printReport(stdout, params.Report, internal.Reconcile(fixture, catalog.BaseBudget), cfg)
	}

	gen, err := internal.NewGenerator(cfg, catalog, internal.GeneratorOptions{
		Seed:    uint64(params.Seed),
		WithIDs: params.IDs,
	})
	if err != nil {
		return err
	}

	fixture, err := gen.Generate()
	if err != nil {
		return err
	}
	if err := internal.ValidateFixture(fixture, catalog); err != nil {
		return fmt.Errorf("generated fixture is inconsistent:\n%w", err)
	}

	format, path := internal.ParseOutputArg(params.Output)
	exporter, err := internal.GetExporter(format)
	if err != nil {
		return err
	}
	if err := exporter.Export(path, fixture); err != nil {
		return fmt.Errorf("writing %s output: %w", format, err)
	}
	slog.Info("Wrote fixture",
		"path", path,
		"format", format,
		"transactions", len(fixture.Transactions),
		"payees", len(fixture.Payees))

	return printReport(stdout, params.Report, internal.Reconcile(fixture, catalog.BaseBudget), cfg)
}

func loadConfig(path string) (*internal.Config, error) {
	if path == "" {
		return internal.NewDefaultConfig()
	}
	cfg, err := internal.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}

func printReport(w io.Writer, format string, r internal.Reconciliation, cfg *internal.Config) error {
	switch format {
	case "json":
		return internal.PrintReconciliationJSON(w, r)
	case "none":
		return nil
	default:
		internal.PrintReconciliationTable(w, r, internal.GetCurrency(cfg.Currency))
		return nil
	}
}

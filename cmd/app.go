// Package cmd implements the CLI application to value a fund portfolio.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/fundval"
	"github.com/google/subcommands"
	"github.com/phuslu/log"
)

// Commands is the list of subcommands a main package registers.
var Commands = []subcommands.Command{
	&reviewCmd{},
	&dailyCmd{},
	&importCmd{},
	&buyCmd{},
	&historyCmd{},
	&marketCmd{},
	&assistCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "transactions.jsonl", "Path to the ledger file containing purchases (JSONL format)")
var configFile = flag.String("config-file", "fundval.yaml", "Path to the fund mapping configuration file")
var snapshotDir = flag.String("snapshot-dir", "snapshots", "Directory holding valuation snapshots")
var reportsDir = flag.String("reports-dir", "reports", "Directory written daily reports go to")
var concurrency = flag.Int("concurrency", 0, "Max funds valued in parallel (0 for the default)")
var verbose = flag.Bool("v", false, "Enable debug logging")

// InitLogging configures the global logger for console use.
func InitLogging() {
	log.DefaultLogger = log.Logger{
		Level:  log.InfoLevel,
		Writer: &log.ConsoleWriter{ColorOutput: true, EndWithMessage: true},
	}
	if *verbose {
		log.DefaultLogger.Level = log.DebugLevel
	}
}

// DecodeConfig loads the configuration file. A missing file yields an
// empty configuration, so read-only commands still work.
func DecodeConfig() (*fundval.Config, error) {
	if _, err := os.Stat(*configFile); os.IsNotExist(err) {
		log.Warn().Str("file", *configFile).Msg("no configuration file, every fund will be unclassified")
		return fundval.ParseConfig(nil)
	}
	return fundval.LoadConfig(*configFile)
}

// DecodeLedger loads the ledger file, empty when it does not exist yet.
func DecodeLedger() (*fundval.Ledger, error) {
	return fundval.LoadLedger(*ledgerFile)
}

// generateReview runs one full valuation: load everything, fetch market
// data, value the portfolio against the previous snapshot.
func generateReview(ctx context.Context, date string) (*fundval.Review, *fundval.Config, error) {
	on, err := fundval.ParseDate(date)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := DecodeConfig()
	if err != nil {
		return nil, nil, err
	}
	cutoff, err := cfg.CutoffTime()
	if err != nil {
		return nil, nil, err
	}
	ledger, err := DecodeLedger()
	if err != nil {
		return nil, nil, err
	}

	prev, err := fundval.LoadPrevious(*snapshotDir, on)
	if err != nil {
		log.Warn().Err(err).Msg("cannot load previous snapshot, day change unavailable")
		prev = nil
	}

	providers := fundval.NewProviders()
	data := fundval.NewMarketData(providers, providers)

	review := fundval.NewReview(ctx, ledger, cfg.Funds, data, fundval.ReviewOptions{
		On:          on,
		Cutoff:      cutoff,
		Concurrency: *concurrency,
		Previous:    prev,
		Quotes:      indexQuotes(ctx, ledger, cfg, data),
	})
	return review, cfg, nil
}

// indexQuotes derives a day quote for every index tracked by a fund in the
// ledger. The histories land in the run cache, so the valuation reuses them
// for free.
func indexQuotes(ctx context.Context, ledger *fundval.Ledger, cfg *fundval.Config, data *fundval.MarketData) map[string]fundval.Quote {
	quotes := make(map[string]fundval.Quote)
	for _, code := range ledger.Funds() {
		info, ok := cfg.Funds.Get(code)
		if !ok || info.Index == "" {
			continue
		}
		if _, done := quotes[info.Index]; done {
			continue
		}
		h, err := data.IndexHistory(ctx, info.Index, info.Market)
		if err != nil {
			log.Warn().Err(err).Str("index", info.Index).Msg("no quote for index")
			continue
		}
		if q, ok := fundval.QuoteOf(info.Index, info.IndexName, h); ok {
			quotes[info.Index] = q
		}
	}
	return quotes
}

// marketQuotes derives a day quote for every index listed in the
// configuration, tracked by a fund or not.
func marketQuotes(ctx context.Context, cfg *fundval.Config) []fundval.Quote {
	providers := fundval.NewProviders()
	var quotes []fundval.Quote
	for _, spec := range cfg.Indices {
		h, err := providers.IndexHistory(ctx, spec.Code, spec.Market)
		if err != nil {
			log.Warn().Err(err).Str("index", spec.Code).Msg("index unavailable")
			continue
		}
		if q, ok := fundval.QuoteOf(spec.Code, spec.Name, h); ok {
			quotes = append(quotes, q)
		}
	}
	return quotes
}

// saveSnapshot persists the review outcome for the next day-over-day run.
func saveSnapshot(review *fundval.Review) {
	if review.Empty {
		return
	}
	if err := fundval.WriteSnapshot(*snapshotDir, fundval.SnapshotOf(review)); err != nil {
		log.Warn().Err(err).Msg("cannot write snapshot")
	}
}

// writeReport persists a markdown report under the reports directory.
func writeReport(name, md string) error {
	if err := os.MkdirAll(*reportsDir, 0755); err != nil {
		return fmt.Errorf("cannot create reports dir %q: %w", *reportsDir, err)
	}
	path := filepath.Join(*reportsDir, name)
	if err := os.WriteFile(path, []byte(md), 0644); err != nil {
		return fmt.Errorf("cannot write report %q: %w", path, err)
	}
	log.Info().Str("report", path).Msg("report written")
	return nil
}

// printMarkdown renders markdown for the terminal.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		// Raw markdown is still readable.
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/fundval"
	"github.com/google/subcommands"
)

// historyCmd holds the flags for the 'history' subcommand.
type historyCmd struct {
	fund string
	rows int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the price series used to value a fund" }
func (*historyCmd) Usage() string {
	return `fv history -fund <code> [-n rows]

  Displays the most recent observations of the series a fund is valued
  against: its own NAV for domestic funds, the tracked index for QDII
  funds. Useful to check what a purchase will confirm against.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fund, "fund", "", "Fund code, e.g. 017641")
	f.IntVar(&c.rows, "n", 15, "Number of observations to display")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	InitLogging()
	if c.fund == "" {
		fmt.Fprintln(os.Stderr, "Error: -fund is required")
		return subcommands.ExitUsageError
	}

	cfg, err := DecodeConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	info, err := cfg.Funds.Require(c.fund)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	cutoff, err := cfg.CutoffTime()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	providers := fundval.NewProviders()
	valuer := fundval.ClassifyFund(info, cutoff)

	var hist *fundval.History
	var series string
	if valuer.Method() == fundval.MethodIndex {
		series = fmt.Sprintf("index %s", info.Index)
		hist, err = providers.IndexHistory(ctx, info.Index, info.Market)
	} else {
		series = "NAV"
		hist, err = providers.NavHistory(ctx, c.fund)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if hist.IsEmpty() {
		fmt.Printf("No %s data for fund %s\n", series, c.fund)
		return subcommands.ExitSuccess
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%s), %s series\n\n", info.Name, c.fund, series)
	fmt.Fprintf(&b, "| Date | Price |\n|---|---:|\n")
	n := hist.Len()
	i := 0
	for on, price := range hist.Values() {
		if i >= n-c.rows {
			fmt.Fprintf(&b, "| %s | %.4f |\n", on, price)
		}
		i++
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

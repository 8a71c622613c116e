package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/fundval"
	"github.com/google/subcommands"
)

// buyCmd holds the flags for the 'buy' subcommand.
type buyCmd struct {
	fund   string
	amount float64
	at     string
	memo   string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a fund purchase in the ledger" }
func (*buyCmd) Usage() string {
	return `fv buy -fund <code> -amount <yuan> [-at <time>] [-memo <text>]

  Appends one purchase to the ledger. The order time decides which day's
  price confirms the purchase, so record it as precisely as you know it.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fund, "fund", "", "Fund code, e.g. 017641")
	f.Float64Var(&c.amount, "amount", 0, "Amount paid, in yuan")
	f.StringVar(&c.at, "at", "", "Order time, '2006-01-02 15:04' (defaults to now)")
	f.StringVar(&c.memo, "memo", "", "Optional note")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	InitLogging()

	at := time.Now()
	if c.at != "" {
		var err error
		at, err = time.ParseInLocation("2006-01-02 15:04", c.at, time.Local)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid -at time: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	tx := fundval.NewBuy(c.fund, c.amount, at, c.memo)
	if err := tx.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if ledger.Contains(tx) {
		fmt.Fprintln(os.Stderr, "Error: an identical purchase is already recorded")
		return subcommands.ExitFailure
	}

	if err := fundval.AppendToLedgerFile(*ledgerFile, tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded purchase of %s in fund %s\n", tx.Amount, tx.Fund)
	return subcommands.ExitSuccess
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fundval"
	"github.com/google/subcommands"
	"github.com/phuslu/log"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	file   string
	dryRun bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import fund purchases from an alipay bill export" }
func (*importCmd) Usage() string {
	return `fv import [-n] -file <bill.csv>

  Extracts fund purchases from an Alipay bill export and appends the new
  ones to the ledger. Already recorded purchases are left untouched, so
  re-importing an overlapping bill is safe.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "Bill export file to import")
	f.BoolVar(&c.dryRun, "n", false, "Parse and report, but do not touch the ledger")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	InitLogging()
	if c.file == "" && f.NArg() == 1 {
		c.file = f.Arg(0)
	}
	if c.file == "" {
		fmt.Fprintln(os.Stderr, "Error: expected a bill file (-file)")
		return subcommands.ExitUsageError
	}

	cfg, err := DecodeConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	bill, err := os.Open(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open bill %q: %v\n", c.file, err)
		return subcommands.ExitFailure
	}
	defer bill.Close()

	res, err := fundval.ImportAlipayBill(bill, cfg.Aliases)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var fresh []fundval.Transaction
	for _, tx := range res.Transactions {
		if ledger.Contains(tx) {
			continue
		}
		fresh = append(fresh, tx)
	}

	for _, row := range res.Skipped {
		log.Warn().Int("line", row.Line).Str("reason", row.Reason).Msg("bill row skipped")
	}

	if c.dryRun {
		fmt.Printf("Would import %d new purchases (%d already recorded, %d skipped)\n",
			len(fresh), len(res.Transactions)-len(fresh), len(res.Skipped))
		return subcommands.ExitSuccess
	}

	if err := fundval.AppendToLedgerFile(*ledgerFile, fresh...); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Imported %d new purchases into %s (%d already recorded, %d skipped)\n",
		len(fresh), *ledgerFile, len(res.Transactions)-len(fresh), len(res.Skipped))
	return subcommands.ExitSuccess
}

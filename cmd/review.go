package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fundval/renderer"
	"github.com/google/subcommands"
)

// reviewCmd holds the flags for the 'review' subcommand.
type reviewCmd struct {
	date       string
	noTx       bool
	noSnapshot bool
}

func (*reviewCmd) Name() string { return "review" }

func (*reviewCmd) Synopsis() string { return "value the portfolio and display a full review" }
func (*reviewCmd) Usage() string {
	return `fv review [-d <date>] [-no-tx]

  Values every fund in the ledger as of the given date and displays the
  full review, purchase by purchase. Also records the valuation snapshot
  used for the next day-over-day comparison.
`
}

func (c *reviewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date for the review (defaults to today)")
	f.BoolVar(&c.noTx, "no-tx", false, "Skip the per-purchase breakdown")
	f.BoolVar(&c.noSnapshot, "no-snapshot", false, "Do not record the valuation snapshot")
}

func (c *reviewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	InitLogging()

	review, _, err := generateReview(ctx, c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	md := renderer.RenderReview(renderer.NewReview(review), renderer.ReviewRenderOptions{
		SkipTransactions: c.noTx,
	})
	printMarkdown(md)

	if !c.noSnapshot {
		saveSnapshot(review)
	}
	return subcommands.ExitSuccess
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/fundval/renderer"
	"github.com/google/subcommands"
)

// dailyCmd holds the flags for the 'daily' subcommand.
type dailyCmd struct {
	date  string
	watch int
}

func (*dailyCmd) Name() string     { return "daily" }
func (*dailyCmd) Synopsis() string { return "display a daily portfolio performance report" }
func (*dailyCmd) Usage() string {
	return `fv daily [-d <date>] [-w n]

  Displays a summary of the portfolio for a single day, writes it under
  the reports directory and records the valuation snapshot.
`
}

func (c *dailyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date for the report (defaults to today)")
	f.IntVar(&c.watch, "w", 0, "run every n seconds")
}

func (c *dailyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	InitLogging()
	for {
		review, cfg, err := generateReview(ctx, c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}

		md := renderer.DailyMarkdown(review)
		if quotes := marketQuotes(ctx, cfg); len(quotes) > 0 {
			md += "\n" + renderer.MarketMarkdown(review.On, quotes)
		}
		if c.watch > 0 {
			fmt.Println("\033[2J")
		}
		printMarkdown(md)

		if err := writeReport(fmt.Sprintf("daily_%s.md", review.On), md); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		saveSnapshot(review)

		if c.watch > 0 {
			time.Sleep(time.Duration(c.watch) * time.Second)
		} else {
			break
		}
	}
	return subcommands.ExitSuccess
}

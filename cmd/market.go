package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fundval"
	"github.com/etnz/fundval/renderer"
	"github.com/google/subcommands"
)

// marketCmd holds the flags for the 'market' subcommand.
type marketCmd struct {
	write bool
}

func (*marketCmd) Name() string     { return "market" }
func (*marketCmd) Synopsis() string { return "display the configured market indices" }
func (*marketCmd) Usage() string {
	return `fv market [-write]

  Displays the latest close and day change of every index listed in the
  configuration, whether or not a fund tracks it.
`
}

func (c *marketCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.write, "write", false, "Also write the overview under the reports directory")
}

func (c *marketCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	InitLogging()

	cfg, err := DecodeConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(cfg.Indices) == 0 {
		fmt.Fprintln(os.Stderr, "No indices configured")
		return subcommands.ExitSuccess
	}

	on := fundval.Today()
	quotes := marketQuotes(ctx, cfg)

	md := renderer.MarketMarkdown(on, quotes)
	printMarkdown(md)

	if c.write {
		if err := writeReport(fmt.Sprintf("market_%s.md", on), md); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

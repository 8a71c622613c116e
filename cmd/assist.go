package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/fundval/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd holds the flags for the 'assist' subcommand.
type assistCmd struct {
	date  string
	model string
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "ask the AI assistant to comment on the portfolio" }
func (*assistCmd) Usage() string {
	return `fv assist [-d <date>] [question...]

  Values the portfolio and asks Gemini for a short commentary, or answers
  a free-form question about the current valuation. Requires the GEMINI_API_KEY
  environment variable.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date for the underlying valuation (defaults to today)")
	f.StringVar(&c.model, "model", "gemini-2.5-flash", "Gemini model to use")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	InitLogging()

	question := "Give a short, factual commentary on this portfolio valuation. Point out anything unusual: stale prices, pending confirmations, excluded funds."
	if f.NArg() > 0 {
		question = strings.Join(f.Args(), " ")
	}

	review, _, err := generateReview(ctx, c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	md := renderer.RenderReview(renderer.NewReview(review), renderer.ReviewRenderOptions{})

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	prompt := fmt.Sprintf("%s\n\nHere is the portfolio valuation report:\n\n%s", question, md)
	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error from Gemini:", err)
		return subcommands.ExitFailure
	}

	printMarkdown(resp.Text())
	return subcommands.ExitSuccess
}

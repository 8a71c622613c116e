package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/fundval"
	md "github.com/nao1215/markdown"
)

// MarketMarkdown renders the market overview: the configured indices with
// their latest close and day change.
func MarketMarkdown(on fundval.Date, quotes []fundval.Quote) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Market Overview %s", on))

	if len(quotes) == 0 {
		doc.PlainText("No index data available.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{
			"Index",
			"Close",
			"Change",
			"Change %",
			"On",
		},
	}
	for _, q := range quotes {
		name := q.Name
		if name == "" {
			name = q.Code
		}
		table.Rows = append(table.Rows, []string{
			name,
			fmt.Sprintf("%.2f", q.Price),
			fmt.Sprintf("%+.2f", q.Change),
			fundval.Percent(q.ChangePct).SignedString(),
			q.On.String(),
		})
	}
	doc.Table(table)

	return doc.String()
}

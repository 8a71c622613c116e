package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/fundval"
	md "github.com/nao1215/markdown"
)

// DailyMarkdown renders the short daily report persisted under the
// reports directory.
func DailyMarkdown(r *fundval.Review) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Daily Report %s", r.On))

	if r.Empty {
		doc.PlainText("No purchases recorded yet.")
		return doc.String()
	}

	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{
			md.Bold("Portfolio Value"),
			md.Bold(r.Value.String()),
		},
		Rows: [][]string{
			{"Invested", r.Invested.String()},
			{"Total Gain", fmt.Sprintf("%s (%s)", r.Gain.SignedString(), r.Return.SignedString())},
		},
	})

	if r.DayKnown {
		doc.H2("Day Change")
		doc.Table(md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
			},
			Header: []string{
				md.Bold("Day's Gain"),
				md.Bold(r.DayGain.SignedString()),
				r.DayReturn.SignedString(),
			},
		})
	}
	if r.HasEstimate {
		doc.H2("Today's Estimate")
		doc.Table(md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
			},
			Header: []string{
				md.Bold("Estimated Gain"),
				md.Bold(r.EstimatedDayGain.SignedString()),
				r.EstimatedDayPct.SignedString(),
			},
		})
	}

	if len(r.Funds) > 0 {
		doc.H2("Funds")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
			},
			Header: []string{
				"Fund",
				"Value",
				"Gain / Loss",
				"Return",
			},
		}
		for _, fv := range r.Funds {
			table.Rows = append(table.Rows, []string{
				fmt.Sprintf("%s (%s)", fv.Name, fv.Code),
				fv.Value.String(),
				fv.Gain.SignedString(),
				fv.Return.SignedString(),
			})
		}
		doc.Table(table)
	}

	if len(r.Warnings) > 0 {
		doc.H2("Warnings")
		var warnings []string
		for _, w := range r.Warnings {
			warnings = append(warnings, w.String())
		}
		doc.BulletList(warnings...)
	}

	return doc.String()
}

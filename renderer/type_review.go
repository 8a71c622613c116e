package renderer

import (
	"fmt"
	"os"
	"time"

	"github.com/etnz/fundval"
)

// Now is the current time used in reports.
// it has to be a global variable so that tests can override it.
func Now() time.Time {
	if os.Getenv("FUNDVAL_TESTING_NOW") != "" {
		t, err := time.Parse("2006-01-02 15:04:05", os.Getenv("FUNDVAL_TESTING_NOW"))
		if err != nil {
			panic(err)
		}
		return t
	}
	return time.Now()
}

// Review is a struct to represent the review data for rendering.
type Review struct {
	AsOf  string
	Empty bool

	Invested fundval.Money
	Value    fundval.Money
	Gain     fundval.Money
	Return   fundval.Percent

	DayKnown  bool
	DayGain   fundval.Money
	DayReturn fundval.Percent

	HasEstimate      bool
	EstimatedDayGain fundval.Money
	EstimatedDayPct  fundval.Percent

	Funds        []FundRow
	Warnings     []string
	Transactions []FundTransactions
}

// FundRow holds one fund line of the review table.
type FundRow struct {
	Code     string
	Name     string
	Method   string
	Invested fundval.Money
	Value    fundval.Money
	Gain     fundval.Money
	Return   fundval.Percent
	PricedOn string // observation date, flagged when stale
	Detail   string // shares held, or the tracked index
	Day      string // day-over-day cell, empty when unknown
}

// FundTransactions groups the per-purchase breakdown of one fund.
type FundTransactions struct {
	Code string
	Name string
	Rows []TxRow
}

// TxRow holds the data for a single purchase line in a report.
type TxRow struct {
	When        string
	ConfirmedOn string
	Amount      fundval.Money
	Value       fundval.Money
	Gain        fundval.Money
	Note        string
}

// NewReview flattens a valuation review into its renderable form.
func NewReview(r *fundval.Review) *Review {
	v := &Review{
		AsOf:             r.On.String(),
		Empty:            r.Empty,
		Invested:         r.Invested,
		Value:            r.Value,
		Gain:             r.Gain,
		Return:           r.Return,
		DayKnown:         r.DayKnown,
		DayGain:          r.DayGain,
		DayReturn:        r.DayReturn,
		HasEstimate:      r.HasEstimate,
		EstimatedDayGain: r.EstimatedDayGain,
		EstimatedDayPct:  r.EstimatedDayPct,
	}

	for _, w := range r.Warnings {
		v.Warnings = append(v.Warnings, w.String())
	}

	for _, fv := range r.Funds {
		row := FundRow{
			Code:     fv.Code,
			Name:     fv.Name,
			Method:   string(fv.Method),
			Invested: fv.Invested,
			Value:    fv.Value,
			Gain:     fv.Gain,
			Return:   fv.Return,
			PricedOn: fv.PricedOn.String(),
			Detail:   fundDetail(fv),
		}
		if fv.Stale {
			row.PricedOn += " (stale)"
		}
		if fv.DayKnown {
			row.Day = fmt.Sprintf("%s %s", fv.DayGain.SignedString(), fv.DayReturn.SignedString())
		}
		v.Funds = append(v.Funds, row)

		ft := FundTransactions{Code: fv.Code, Name: fv.Name}
		for _, tv := range fv.Transactions {
			tr := TxRow{
				When:   tv.At.Format("2006-01-02 15:04"),
				Amount: tv.Amount,
				Value:  tv.Value,
				Gain:   tv.Gain,
				Note:   tv.Note,
			}
			if tv.ConfirmedOn.IsZero() {
				tr.ConfirmedOn = "pending"
			} else {
				tr.ConfirmedOn = tv.ConfirmedOn.String()
			}
			ft.Rows = append(ft.Rows, tr)
		}
		v.Transactions = append(v.Transactions, ft)
	}
	return v
}

func fundDetail(fv *fundval.FundValuation) string {
	switch fv.Method {
	case fundval.MethodIndex:
		name := fv.IndexName
		if name == "" {
			name = fv.Index
		}
		return fmt.Sprintf("tracks %s x%.2f", name, fv.TrackingRatio)
	default:
		return fmt.Sprintf("%s shares @ %.4f", fv.Shares.Round(2), fv.NAV)
	}
}

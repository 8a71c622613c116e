package fundval

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// WarningKind classifies the non-fatal conditions a review can surface.
type WarningKind string

const (
	// WarnUnclassified flags a fund with recorded purchases but no entry
	// in the fund mapping. The fund is excluded from totals; defaulting
	// to a strategy would mis-value it silently.
	WarnUnclassified WarningKind = "unclassified-fund"
	// WarnDataUnavailable flags a fund whose price history is unusable.
	WarnDataUnavailable WarningKind = "data-unavailable"
)

// Warning is a per-fund condition that excluded it from the totals.
type Warning struct {
	Kind    WarningKind
	Fund    string
	Message string
}

func (w Warning) String() string { return fmt.Sprintf("%s: %s (%s)", w.Fund, w.Message, w.Kind) }

// Review is the valuation of the whole portfolio as of one date. It is a
// pure function of the ledger, the mapping, the fetched market data and
// the previous snapshot: valuing the same inputs twice yields identical
// results.
type Review struct {
	On Date

	// Empty is true when there was nothing to value at all: no recorded
	// purchase or no fund mapping. That is a result, not an error.
	Empty bool

	Funds    []*FundValuation // valued funds, largest position first
	Warnings []Warning        // funds excluded from the totals, and why

	Invested Money
	Value    Money
	Gain     Money
	Return   Percent

	// Day-over-day change against the previous snapshot. Only reported
	// when every valued fund appears in that snapshot; a partial figure
	// would look like a portfolio-wide number without being one.
	DayGain   Money
	DayReturn Percent
	DayKnown  bool

	// Intraday estimate from tracked index quotes, present when at least
	// one fund had a usable quote.
	EstimatedDayGain Money
	EstimatedDayPct  Percent
	HasEstimate      bool
}

// ReviewOptions configures one valuation run.
type ReviewOptions struct {
	On          Date             // valuation date, today if zero
	Cutoff      Cutoff           // order cutoff, DefaultCutoff if zero
	Concurrency int              // max funds valued in parallel, 4 if zero
	Previous    *Snapshot        // previous snapshot for day-over-day, may be nil
	Quotes      map[string]Quote // live index quotes by index code, may be nil
}

const defaultConcurrency = 4

// NewReview values every fund in the ledger and folds the results into a
// portfolio review. Funds are valued concurrently: they share no state,
// and the bound exists for the providers' sake, not the CPU's.
//
// No single fund's failure aborts the run; it degrades to a Warning.
func NewReview(ctx context.Context, ledger *Ledger, mapping FundMapping, data *MarketData, opts ReviewOptions) *Review {
	if opts.On.IsZero() {
		opts.On = Today()
	}
	if opts.Cutoff == (Cutoff{}) {
		opts.Cutoff = DefaultCutoff
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}

	r := &Review{
		On:               opts.On,
		Invested:         CNY(0),
		Value:            CNY(0),
		Gain:             CNY(0),
		Return:           NoPercent(),
		DayGain:          CNY(0),
		DayReturn:        NoPercent(),
		EstimatedDayGain: CNY(0),
		EstimatedDayPct:  NoPercent(),
	}

	funds := ledger.Funds()
	if len(funds) == 0 || len(mapping) == 0 {
		r.Empty = true
		return r
	}

	// Per-slot results keep the fold deterministic whatever the
	// goroutine completion order.
	valuations := make([]*FundValuation, len(funds))
	warnings := make([]*Warning, len(funds))

	var wg sync.WaitGroup
	sem := make(chan struct{}, opts.Concurrency)
	for i, code := range funds {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			valuations[i], warnings[i] = valuateFund(ctx, ledger, mapping, data, opts, code)
		}(i, code)
	}
	wg.Wait()

	for i := range funds {
		if w := warnings[i]; w != nil {
			r.Warnings = append(r.Warnings, *w)
			continue
		}
		fv := valuations[i]
		r.Funds = append(r.Funds, fv)
		r.Invested = r.Invested.Add(fv.Invested)
		r.Value = r.Value.Add(fv.Value)
	}

	// Largest position first; code breaks ties so reruns are identical.
	sort.SliceStable(r.Funds, func(i, j int) bool {
		if !r.Funds[i].Value.Equal(r.Funds[j].Value) {
			return r.Funds[i].Value.GreaterThan(r.Funds[j].Value)
		}
		return r.Funds[i].Code < r.Funds[j].Code
	})

	r.Gain = r.Value.Sub(r.Invested)
	// Recomputed from the summed amounts, never averaged across funds.
	r.Return = r.Gain.PercentOf(r.Invested)

	r.foldDaily()
	r.foldEstimates()
	return r
}

// valuateFund values a single fund, returning either a valuation or the
// warning that excludes it.
func valuateFund(ctx context.Context, ledger *Ledger, mapping FundMapping, data *MarketData, opts ReviewOptions, code string) (*FundValuation, *Warning) {
	info, err := mapping.Require(code)
	if err != nil {
		return nil, &Warning{
			Kind:    WarnUnclassified,
			Fund:    code,
			Message: err.Error(),
		}
	}

	valuer := ClassifyFund(info, opts.Cutoff)

	var hist *History
	switch valuer.Method() {
	case MethodIndex:
		hist, err = data.IndexHistory(ctx, info.Index, info.Market)
	default:
		hist, err = data.NavHistory(ctx, code)
	}
	if err != nil {
		return nil, &Warning{
			Kind:    WarnDataUnavailable,
			Fund:    code,
			Message: fmt.Sprintf("history fetch failed: %v", err),
		}
	}

	fv, err := valuer.Valuate(code, info, ledger.Of(code), hist, opts.On)
	if err != nil {
		return nil, &Warning{
			Kind:    WarnDataUnavailable,
			Fund:    code,
			Message: err.Error(),
		}
	}

	if prev := opts.Previous; prev != nil {
		if sf, ok := prev.Funds[code]; ok && !sf.Value.IsZero() {
			fv.PrevValue = sf.Value
			fv.DayGain = fv.Value.Sub(sf.Value)
			fv.DayReturn = fv.DayGain.PercentOf(sf.Value)
			fv.DayKnown = true
		}
	}

	if q, ok := opts.Quotes[info.Index]; ok {
		pct := q.ChangePct * info.TrackingRatio
		fv.EstimatedDayPct = Percent(pct)
		fv.EstimatedDayGain = fv.Value.Scale(pct / 100)
		fv.HasEstimate = true
	}

	return fv, nil
}

// foldDaily aggregates per-fund day-over-day deltas. The portfolio figure
// is reported only when every valued fund has one.
func (r *Review) foldDaily() {
	if len(r.Funds) == 0 {
		return
	}
	gain, prev := CNY(0), CNY(0)
	for _, fv := range r.Funds {
		if !fv.DayKnown {
			return
		}
		gain = gain.Add(fv.DayGain)
		prev = prev.Add(fv.PrevValue)
	}
	r.DayGain = gain
	r.DayReturn = gain.PercentOf(prev)
	r.DayKnown = true
}

// foldEstimates aggregates the intraday estimates of the funds that have
// one; the percentage is relative to the whole portfolio value.
func (r *Review) foldEstimates() {
	gain := CNY(0)
	for _, fv := range r.Funds {
		if fv.HasEstimate {
			gain = gain.Add(fv.EstimatedDayGain)
			r.HasEstimate = true
		}
	}
	if !r.HasEstimate {
		return
	}
	r.EstimatedDayGain = gain
	r.EstimatedDayPct = gain.PercentOf(r.Value)
}

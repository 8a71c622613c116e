package fundval

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable marks a fund that cannot be valued because no usable
// price observation exists for a required date. It is a per-fund condition:
// the fund is excluded from totals and the run continues.
var ErrDataUnavailable = errors.New("market data unavailable")

// Method identifies the valuation strategy applied to a fund.
type Method string

const (
	// MethodNAV values from the fund's own published net asset value.
	MethodNAV Method = "nav"
	// MethodIndex estimates from the tracked index movement. Used for QDII
	// funds whose authoritative NAV lags by several days.
	MethodIndex Method = "index"
)

// TxValuation is the result of valuing a single purchase.
type TxValuation struct {
	Transaction
	ConfirmedOn Date     // settlement date; zero while confirmation is pending
	Price       float64  // NAV or index price at the confirmation date
	Shares      Quantity // owned shares; zero under the index method
	Value       Money    // current value of this purchase
	Gain        Money    // Value minus amount paid
	Provisional bool     // carried at cost, the settlement price is not usable yet
	Note        string   // why the result is provisional
}

// FundValuation is the aggregate valuation of one fund.
type FundValuation struct {
	Code   string
	Name   string
	Method Method

	Invested Money
	Value    Money
	Gain     Money
	Return   Percent

	// PricedOn is the date of the most recent observation used. Stale is
	// true when it is older than the valuation date: the provider has not
	// published that day's price yet.
	PricedOn Date
	Stale    bool

	// NAV method.
	Shares Quantity
	NAV    float64

	// Index method.
	Index         string
	IndexName     string
	TrackingRatio float64
	IndexLatest   float64

	// ProvisionalAmount is the total purchase amount carried at cost
	// because its settlement price is not available yet.
	ProvisionalAmount Money

	Transactions []TxValuation

	// Day-over-day change against the previous snapshot, and the intraday
	// estimate from the tracked index. Both optional, set by the review.
	PrevValue        Money
	DayGain          Money
	DayReturn        Percent
	DayKnown         bool
	EstimatedDayPct  Percent
	EstimatedDayGain Money
	HasEstimate      bool
}

// A Valuer turns one fund's purchases plus a price history into a
// valuation. The two implementations share the confirmation rule and
// differ only in how a purchase grows from its confirmation date.
type Valuer interface {
	Method() Method
	// Valuate values the fund as of 'on'. The history is the fund's NAV
	// series or its tracked index series, depending on the method.
	// It fails with ErrDataUnavailable when the history is unusable as a
	// whole; per-purchase gaps degrade to provisional results instead.
	Valuate(code string, info FundInfo, txs []Transaction, hist *History, on Date) (*FundValuation, error)
}

// ClassifyFund selects the valuation strategy for a mapped fund:
// internationally tracking funds are estimated from their index, anything
// else is valued on its own NAV.
func ClassifyFund(info FundInfo, cutoff Cutoff) Valuer {
	if info.Market == MarketUS {
		return indexValuer{cutoff: cutoff}
	}
	return navValuer{cutoff: cutoff}
}

// navValuer values a fund from its published NAV series:
// shares bought = amount / NAV at confirmation, current value =
// total shares x latest NAV.
type navValuer struct {
	cutoff Cutoff
}

func (navValuer) Method() Method { return MethodNAV }

func (v navValuer) Valuate(code string, info FundInfo, txs []Transaction, hist *History, on Date) (*FundValuation, error) {
	if hist.IsEmpty() {
		return nil, fmt.Errorf("fund %s: no NAV history: %w", code, ErrDataUnavailable)
	}
	latestOn, latestNAV, ok := hist.AsOf(on)
	if !ok || latestNAV <= 0 {
		return nil, fmt.Errorf("fund %s: no NAV published on or before %s: %w", code, on, ErrDataUnavailable)
	}
	nav := CNY(latestNAV)

	fv := &FundValuation{
		Code:              code,
		Name:              info.Name,
		Method:            MethodNAV,
		PricedOn:          latestOn,
		Stale:             latestOn != on,
		NAV:               latestNAV,
		Invested:          CNY(0),
		ProvisionalAmount: CNY(0),
	}

	shares := Q(0)
	for _, tx := range txs {
		tv := TxValuation{Transaction: tx}
		confirmedOn, buyNAV, ok := v.cutoff.Resolve(tx.At, hist)
		switch {
		case !ok:
			// The purchase is newer than every published NAV. Carry it at
			// cost until the settlement NAV appears.
			tv.Provisional = true
			tv.Note = "confirmation pending, NAV not yet published"
			tv.Value = tx.Amount
		case buyNAV <= 0:
			tv.Provisional = true
			tv.Note = fmt.Sprintf("unusable NAV %v on %s", buyNAV, confirmedOn)
			tv.ConfirmedOn = confirmedOn
			tv.Value = tx.Amount
		default:
			tv.ConfirmedOn = confirmedOn
			tv.Price = buyNAV
			tv.Shares = tx.Amount.DivPrice(CNY(buyNAV))
			tv.Value = nav.Mul(tv.Shares)
		}
		tv.Gain = tv.Value.Sub(tx.Amount)
		if tv.Provisional {
			fv.ProvisionalAmount = fv.ProvisionalAmount.Add(tx.Amount)
		}
		shares = shares.Add(tv.Shares)
		fv.Invested = fv.Invested.Add(tx.Amount)
		fv.Transactions = append(fv.Transactions, tv)
	}

	fv.Shares = shares
	fv.Value = nav.Mul(shares).Add(fv.ProvisionalAmount)
	fv.Gain = fv.Value.Sub(fv.Invested)
	fv.Return = fv.Gain.PercentOf(fv.Invested)
	return fv, nil
}

// indexValuer estimates a fund from its tracked index: each purchase is
// scaled by the index change since its confirmation date, times the
// tracking ratio. Purchases are deliberately not pooled into a share
// count: with a lagging NAV there is no real share price to pool against,
// only a linear return approximation per purchase. Keeping each purchase
// tied to its own confirmation-date index price is what makes a later
// accuracy audit possible.
type indexValuer struct {
	cutoff Cutoff
}

func (indexValuer) Method() Method { return MethodIndex }

func (v indexValuer) Valuate(code string, info FundInfo, txs []Transaction, hist *History, on Date) (*FundValuation, error) {
	if hist.IsEmpty() {
		return nil, fmt.Errorf("fund %s: no history for index %s: %w", code, info.Index, ErrDataUnavailable)
	}
	latestOn, latest, ok := hist.AsOf(on)
	if !ok || latest <= 0 {
		return nil, fmt.Errorf("fund %s: index %s has no price on or before %s: %w", code, info.Index, on, ErrDataUnavailable)
	}

	fv := &FundValuation{
		Code:              code,
		Name:              info.Name,
		Method:            MethodIndex,
		PricedOn:          latestOn,
		Stale:             latestOn != on,
		Index:             info.Index,
		IndexName:         info.IndexName,
		TrackingRatio:     info.TrackingRatio,
		IndexLatest:       latest,
		Invested:          CNY(0),
		Value:             CNY(0),
		ProvisionalAmount: CNY(0),
	}

	for _, tx := range txs {
		tv := TxValuation{Transaction: tx}
		confirmedOn, buyPrice, ok := v.cutoff.Resolve(tx.At, hist)
		switch {
		case !ok:
			tv.Provisional = true
			tv.Note = "confirmation pending, index has no later observation"
			tv.Value = tx.Amount
		case buyPrice <= 0:
			tv.Provisional = true
			tv.Note = fmt.Sprintf("unusable index price %v on %s", buyPrice, confirmedOn)
			tv.ConfirmedOn = confirmedOn
			tv.Value = tx.Amount
		default:
			tv.ConfirmedOn = confirmedOn
			tv.Price = buyPrice
			change := (latest - buyPrice) / buyPrice
			tv.Value = tx.Amount.Scale(1 + change*info.TrackingRatio)
		}
		tv.Gain = tv.Value.Sub(tx.Amount)
		if tv.Provisional {
			fv.ProvisionalAmount = fv.ProvisionalAmount.Add(tx.Amount)
		}
		fv.Invested = fv.Invested.Add(tx.Amount)
		fv.Value = fv.Value.Add(tv.Value)
		fv.Transactions = append(fv.Transactions, tv)
	}

	fv.Gain = fv.Value.Sub(fv.Invested)
	fv.Return = fv.Gain.PercentOf(fv.Invested)
	return fv, nil
}

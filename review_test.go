package fundval

import (
	"context"
	"errors"
	"testing"
)

// fakeProviders serves canned histories; a missing entry is an empty
// history, and codes listed in fail return a transport error.
type fakeProviders struct {
	navs    map[string]*History
	indices map[string]*History
	fail    map[string]bool
}

func (f *fakeProviders) NavHistory(_ context.Context, fund string) (*History, error) {
	if f.fail[fund] {
		return nil, errors.New("connection refused")
	}
	if h, ok := f.navs[fund]; ok {
		return h, nil
	}
	return &History{}, nil
}

func (f *fakeProviders) IndexHistory(_ context.Context, code string, _ Market) (*History, error) {
	if f.fail[code] {
		return nil, errors.New("connection refused")
	}
	if h, ok := f.indices[code]; ok {
		return h, nil
	}
	return &History{}, nil
}

func setupReviewTest(t *testing.T) (*Ledger, FundMapping, *MarketData) {
	t.Helper()

	ledger := NewLedger()
	if err := ledger.Append(
		buyTx(t, "000001", 1000, "2025-07-01", 14, 0), // domestic, NAV
		buyTx(t, "017641", 1000, "2025-07-01", 14, 0), // QDII, index
		buyTx(t, "999999", 300, "2025-07-01", 14, 0),  // unmapped
		buyTx(t, "888888", 200, "2025-07-01", 14, 0),  // mapped, no data
	); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	mapping := FundMapping{
		"000001": {Name: "Domestic Fund", Market: MarketDomestic},
		"017641": {Name: "QDII Fund", Index: "^NDX", TrackingRatio: 1.0, Market: MarketUS},
		"888888": {Name: "Empty Fund", Market: MarketDomestic},
	}

	providers := &fakeProviders{
		navs: map[string]*History{
			"000001": newHistory(t, map[string]float64{
				"2025-07-01": 2.0,
				"2025-07-10": 2.2,
			}),
		},
		indices: map[string]*History{
			"^NDX": newHistory(t, map[string]float64{
				"2025-07-01": 4000,
				"2025-07-09": 4100,
				"2025-07-10": 4200,
			}),
		},
		fail: map[string]bool{},
	}
	return ledger, mapping, NewMarketData(providers, providers)
}

func buyTx(t *testing.T, fund string, amount float64, day string, hour, min int) Transaction {
	t.Helper()
	tx := buyAt(t, amount, day, hour, min)
	tx.Fund = fund
	return tx
}

func TestNewReview(t *testing.T) {
	ledger, mapping, data := setupReviewTest(t)

	r := NewReview(context.Background(), ledger, mapping, data, ReviewOptions{
		On: MustParseDate("2025-07-10"),
	})

	if r.Empty {
		t.Fatal("review should not be empty")
	}
	if len(r.Funds) != 2 {
		t.Fatalf("valued funds = %d, want 2 (got warnings %v)", len(r.Funds), r.Warnings)
	}

	// Domestic: 500 shares x 2.2 = 1100. QDII: 1000 x (1 + 5%) = 1050.
	// Largest position first.
	if r.Funds[0].Code != "000001" || r.Funds[1].Code != "017641" {
		t.Errorf("fund order = %s, %s; want 000001, 017641", r.Funds[0].Code, r.Funds[1].Code)
	}
	if !r.Invested.Equal(CNY(2000)) {
		t.Errorf("Invested = %v, want 2000 (warned funds excluded)", r.Invested)
	}
	if !r.Value.Equal(CNY(2150)) {
		t.Errorf("Value = %v, want 2150", r.Value)
	}
	if !r.Gain.Equal(CNY(150)) {
		t.Errorf("Gain = %v, want 150", r.Gain)
	}
	if !r.Return.Equal(Percent(7.5)) {
		t.Errorf("Return = %v, want +7.50%%", r.Return)
	}

	wantWarnings := map[string]WarningKind{
		"999999": WarnUnclassified,
		"888888": WarnDataUnavailable,
	}
	if len(r.Warnings) != len(wantWarnings) {
		t.Fatalf("warnings = %v, want %d of them", r.Warnings, len(wantWarnings))
	}
	for _, w := range r.Warnings {
		if wantWarnings[w.Fund] != w.Kind {
			t.Errorf("warning for %s = %v, want %v", w.Fund, w.Kind, wantWarnings[w.Fund])
		}
	}
}

func TestNewReview_FetchFailureDegradesToWarning(t *testing.T) {
	ledger, mapping, data := setupReviewTest(t)
	providers := &fakeProviders{fail: map[string]bool{"000001": true, "^NDX": true, "888888": true}}
	data = NewMarketData(providers, providers)

	r := NewReview(context.Background(), ledger, mapping, data, ReviewOptions{
		On: MustParseDate("2025-07-10"),
	})

	if len(r.Funds) != 0 {
		t.Errorf("valued funds = %d, want 0", len(r.Funds))
	}
	// Every mapped fund degraded to data-unavailable, the unmapped one to
	// unclassified; the run itself still succeeded.
	if len(r.Warnings) != 4 {
		t.Errorf("warnings = %v, want 4", r.Warnings)
	}
	if !r.Value.IsZero() || !r.Return.IsNA() {
		t.Errorf("Value = %v Return = %v, want 0 and N/A", r.Value, r.Return)
	}
}

func TestNewReview_DayOverDay(t *testing.T) {
	ledger, mapping, data := setupReviewTest(t)

	prev := &Snapshot{
		On: MustParseDate("2025-07-09"),
		Funds: map[string]SnapshotFund{
			"000001": {Invested: CNY(1000), Value: CNY(1050)},
			"017641": {Invested: CNY(1000), Value: CNY(1025)},
		},
	}

	r := NewReview(context.Background(), ledger, mapping, data, ReviewOptions{
		On:       MustParseDate("2025-07-10"),
		Previous: prev,
	})

	if !r.DayKnown {
		t.Fatal("day change should be known, every valued fund is in the snapshot")
	}
	// 1100-1050 + 1050-1025 = 75 over a 2075 baseline.
	if !r.DayGain.Equal(CNY(75)) {
		t.Errorf("DayGain = %v, want 75", r.DayGain)
	}
	if !r.DayReturn.Equal(75.0 / 2075.0 * 100) {
		t.Errorf("DayReturn = %v, want %.4f", r.DayReturn, 75.0/2075.0*100)
	}
}

func TestNewReview_PartialSnapshotHidesDayChange(t *testing.T) {
	ledger, mapping, data := setupReviewTest(t)

	prev := &Snapshot{
		On: MustParseDate("2025-07-09"),
		Funds: map[string]SnapshotFund{
			"000001": {Invested: CNY(1000), Value: CNY(1050)},
			// 017641 missing: it was not valued yesterday.
		},
	}

	r := NewReview(context.Background(), ledger, mapping, data, ReviewOptions{
		On:       MustParseDate("2025-07-10"),
		Previous: prev,
	})

	if r.DayKnown {
		t.Error("portfolio day change should be hidden when a fund is missing from the snapshot")
	}
	for _, fv := range r.Funds {
		if fv.Code == "000001" && !fv.DayKnown {
			t.Error("per-fund day change should still be reported for 000001")
		}
	}
}

func TestNewReview_Estimates(t *testing.T) {
	ledger, mapping, data := setupReviewTest(t)

	// The index moved 4100 -> 4200 on the last day.
	quotes := map[string]Quote{
		"^NDX": {Code: "^NDX", Price: 4200, Change: 100, ChangePct: 100.0 / 4100.0 * 100},
	}

	r := NewReview(context.Background(), ledger, mapping, data, ReviewOptions{
		On:     MustParseDate("2025-07-10"),
		Quotes: quotes,
	})

	if !r.HasEstimate {
		t.Fatal("review should carry an estimate, the QDII fund has a quote")
	}
	var qdii *FundValuation
	for _, fv := range r.Funds {
		if fv.Code == "017641" {
			qdii = fv
		}
	}
	if qdii == nil || !qdii.HasEstimate {
		t.Fatal("QDII fund should have an estimate")
	}
	if qdii.EstimatedDayPct.IsNA() {
		t.Error("estimated day percent should be computable")
	}
}

func TestNewReview_EmptyPortfolio(t *testing.T) {
	_, mapping, data := setupReviewTest(t)

	r := NewReview(context.Background(), NewLedger(), mapping, data, ReviewOptions{})
	if !r.Empty {
		t.Error("review of an empty ledger should be Empty")
	}
	if len(r.Warnings) != 0 {
		t.Errorf("empty review warnings = %v, want none", r.Warnings)
	}

	ledger := NewLedger()
	if err := ledger.Append(buyTx(t, "000001", 100, "2025-07-01", 10, 0)); err != nil {
		t.Fatal(err)
	}
	r = NewReview(context.Background(), ledger, FundMapping{}, data, ReviewOptions{})
	if !r.Empty {
		t.Error("review with an empty mapping should be Empty")
	}
}

func TestNewReview_Deterministic(t *testing.T) {
	ledger, mapping, data := setupReviewTest(t)
	opts := ReviewOptions{On: MustParseDate("2025-07-10"), Concurrency: 8}

	a := NewReview(context.Background(), ledger, mapping, data, opts)
	b := NewReview(context.Background(), ledger, mapping, data, opts)

	if len(a.Funds) != len(b.Funds) {
		t.Fatalf("runs differ in fund count: %d vs %d", len(a.Funds), len(b.Funds))
	}
	for i := range a.Funds {
		if a.Funds[i].Code != b.Funds[i].Code || !a.Funds[i].Value.Equal(b.Funds[i].Value) {
			t.Errorf("fund %d differs between runs", i)
		}
	}
	if !a.Value.Equal(b.Value) {
		t.Errorf("totals differ: %v vs %v", a.Value, b.Value)
	}
}

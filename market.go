package fundval

import (
	"context"
	"sync"
)

// Quote is a live (or latest-close) index reading with its day change.
type Quote struct {
	Code      string
	Name      string
	Price     float64
	Change    float64
	ChangePct float64 // in percent points
	On        Date
}

// NavProvider supplies a fund's published NAV series. An empty history
// means "no data" and is not an error; errors are transport failures.
type NavProvider interface {
	NavHistory(ctx context.Context, fund string) (*History, error)
}

// IndexProvider supplies an index's daily closing series for a market.
type IndexProvider interface {
	IndexHistory(ctx context.Context, code string, market Market) (*History, error)
}

// MarketData is the market data cache for exactly one valuation run. It
// memoizes provider responses so each fund or index is fetched once no
// matter how many goroutines ask, and it is discarded with the run: no
// market data survives between invocations.
type MarketData struct {
	navs    NavProvider
	indices IndexProvider

	mu      sync.Mutex
	navHist map[string]*fetch
	idxHist map[string]*fetch
}

type fetch struct {
	once sync.Once
	hist *History
	err  error
}

// NewMarketData returns an empty run cache backed by the given providers.
func NewMarketData(navs NavProvider, indices IndexProvider) *MarketData {
	return &MarketData{
		navs:    navs,
		indices: indices,
		navHist: make(map[string]*fetch),
		idxHist: make(map[string]*fetch),
	}
}

func (m *MarketData) entry(cache map[string]*fetch, key string) *fetch {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := cache[key]
	if !ok {
		f = &fetch{}
		cache[key] = f
	}
	return f
}

// NavHistory returns the NAV series of a fund, fetching it on first use.
func (m *MarketData) NavHistory(ctx context.Context, fund string) (*History, error) {
	f := m.entry(m.navHist, fund)
	f.once.Do(func() { f.hist, f.err = m.navs.NavHistory(ctx, fund) })
	return f.hist, f.err
}

// IndexHistory returns the closing series of an index, fetching it on first use.
func (m *MarketData) IndexHistory(ctx context.Context, code string, market Market) (*History, error) {
	f := m.entry(m.idxHist, string(market)+"/"+code)
	f.once.Do(func() { f.hist, f.err = m.indices.IndexHistory(ctx, code, market) })
	return f.hist, f.err
}

// QuoteOf derives a day quote from the last two observations of a series:
// latest close against the previous one. During a trading day the domestic
// kline feed already carries the running bar, so this doubles as a live
// reading.
func QuoteOf(code, name string, h *History) (Quote, bool) {
	if h.Len() < 2 {
		return Quote{}, false
	}
	on, last := h.Latest()
	prevOn := on.Add(-1)
	_, prev, ok := h.AsOf(prevOn)
	if !ok || prev == 0 {
		return Quote{}, false
	}
	return Quote{
		Code:      code,
		Name:      name,
		Price:     last,
		Change:    last - prev,
		ChangePct: 100 * (last - prev) / prev,
		On:        on,
	}, true
}

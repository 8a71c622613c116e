package fundval

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

// Yahoo fetches US index daily closes from the public v8 chart endpoint.
// Symbols use Yahoo's notation, "^NDX" for Nasdaq-100.
type Yahoo struct {
	client *http.Client
	api    string // overridable in tests
}

// NewYahoo returns a provider backed by the daily disk cache.
func NewYahoo() *Yahoo {
	return &Yahoo{client: daily(), api: "https://query1.finance.yahoo.com"}
}

// IndexHistory fetches the last three months of daily closes for a US index.
func (y *Yahoo) IndexHistory(ctx context.Context, code string, market Market) (*History, error) {
	if market != MarketUS {
		return nil, fmt.Errorf("yahoo: unsupported market %q for index %s", market, code)
	}

	addr := fmt.Sprintf("%s/v8/finance/chart/%s?range=3mo&interval=1d", y.api, url.PathEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	// The chart endpoint rejects the default Go user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64)")

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch chart for index %s: %w", code, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("cannot http GET %v/%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	var jobj any
	if err := decodeJSON(resp, &jobj); err != nil {
		return nil, fmt.Errorf("cannot decode chart for index %s: %w", code, err)
	}

	stamps, err := jsonArray(jobj, "$.chart.result[0].timestamp")
	if err != nil {
		return &History{}, nil
	}
	closes, err := jsonArray(jobj, "$.chart.result[0].indicators.quote[0].close")
	if err != nil {
		return &History{}, nil
	}
	zone := tradingZone(jobj)

	h := &History{}
	for i, jstamp := range stamps {
		if i >= len(closes) {
			break
		}
		sec, ok := jstamp.(float64)
		if !ok {
			continue
		}
		// A market holiday shows up as a null close.
		price, ok := closes[i].(float64)
		if !ok || price <= 0 {
			continue
		}
		on := DateOf(time.Unix(int64(sec), 0).In(zone))
		h.Append(on, price)
	}
	return h, nil
}

// jsonArray evaluates a jsonpath expected to yield a JSON array.
func jsonArray(jobj any, path string) ([]any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("cannot evaluate %q: %w", path, err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("%q is not an array", path)
	}
	return jlist, nil
}

// tradingZone resolves the exchange timezone from the chart metadata so a
// session maps to the exchange's calendar date, not the caller's. New York
// is assumed when the metadata is unusable.
func tradingZone(jobj any) *time.Location {
	jval, err := jsonpath.Get("$.chart.result[0].meta.exchangeTimezoneName", jobj)
	if err == nil {
		if name, ok := jval.(string); ok {
			if zone, err := time.LoadLocation(name); err == nil {
				return zone
			}
		}
	}
	zone, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}
	return zone
}

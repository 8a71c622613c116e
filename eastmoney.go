package fundval

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"golang.org/x/time/rate"
)

// Eastmoney fetches domestic fund NAVs and A-share index klines from the
// eastmoney.com public endpoints. Responses go through the daily disk
// cache, and a polite rate limit protects against hammering the service
// when many funds are valued at once.
type Eastmoney struct {
	client  *http.Client
	limiter *rate.Limiter
	rows    int    // observations to request per series
	fundAPI string // overridable in tests
	histAPI string
}

// NewEastmoney returns a provider with the daily cache and a conservative
// request rate.
func NewEastmoney() *Eastmoney {
	return &Eastmoney{
		client:  daily(),
		limiter: rate.NewLimiter(rate.Limit(5), 1),
		rows:    90,
		fundAPI: "https://api.fund.eastmoney.com",
		histAPI: "https://push2his.eastmoney.com",
	}
}

// NavHistory fetches a fund's published per-unit NAV series.
//
// The f10/lsjz endpoint rejects requests without a fund-page referer.
func (e *Eastmoney) NavHistory(ctx context.Context, fund string) (*History, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	addr := fmt.Sprintf("%s/f10/lsjz?fundCode=%s&pageIndex=1&pageSize=%d", e.fundAPI, fund, e.rows)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Referer", "https://fundf10.eastmoney.com/")

	jobj, err := e.getJSON(req)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch NAV history for fund %s: %w", fund, err)
	}

	jval, err := jsonpath.Get("$.Data.LSJZList", jobj)
	if err != nil {
		// A fund the service does not know yields a null list, not a 404.
		return &History{}, nil
	}
	jlist, ok := jval.([]any)
	if !ok {
		return &History{}, nil
	}

	h := &History{}
	for _, jrow := range jlist {
		row, ok := jrow.(map[string]any)
		if !ok {
			continue
		}
		day, _ := row["FSRQ"].(string)  // observation date
		nav, _ := row["DWJZ"].(string)  // per-unit NAV, empty on non-trading rows
		on, err := ParseDate(day)
		if err != nil {
			continue
		}
		price, err := strconv.ParseFloat(nav, 64)
		if err != nil || price <= 0 {
			continue
		}
		h.Append(on, price)
	}
	return h, nil
}

// IndexHistory fetches an A-share index daily closing series from the
// push2his kline endpoint.
func (e *Eastmoney) IndexHistory(ctx context.Context, code string, market Market) (*History, error) {
	if market != MarketDomestic {
		return nil, fmt.Errorf("eastmoney: unsupported market %q for index %s", market, code)
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	addr := fmt.Sprintf("%s/api/qt/stock/kline/get?secid=%s&fields1=f1,f3&fields2=f51,f53&klt=101&fqt=1&end=20500101&lmt=%d", e.histAPI, secid(code), e.rows)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}

	jobj, err := e.getJSON(req)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch kline for index %s: %w", code, err)
	}

	jval, err := jsonpath.Get("$.data.klines", jobj)
	if err != nil {
		return &History{}, nil
	}
	jlist, ok := jval.([]any)
	if !ok {
		return &History{}, nil
	}

	h := &History{}
	for _, jrow := range jlist {
		// Each kline row is a comma-joined string, "2025-07-01,3455.61"
		// with the fields requested in fields2.
		line, ok := jrow.(string)
		if !ok {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}
		on, err := ParseDate(parts[0])
		if err != nil {
			continue
		}
		price, err := strconv.ParseFloat(parts[1], 64)
		if err != nil || price <= 0 {
			continue
		}
		h.Append(on, price)
	}
	return h, nil
}

// secid maps an index code to the eastmoney market-qualified id: Shenzhen
// indices (399xxx) live on market 0, everything else on market 1.
func secid(code string) string {
	if strings.HasPrefix(code, "399") {
		return "0." + code
	}
	return "1." + code
}

func (e *Eastmoney) getJSON(req *http.Request) (any, error) {
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("cannot http GET %v/%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	var jobj any
	if err := decodeJSON(resp, &jobj); err != nil {
		return nil, err
	}
	return jobj, nil
}

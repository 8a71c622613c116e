package fundval

import (
	"context"
	"fmt"
)

// Providers is the default provider set, routing each lookup to the
// service that publishes it: eastmoney for fund NAVs and A-share indices,
// yahoo for US indices. It satisfies both provider interfaces, so a
// MarketData can be built straight from it.
type Providers struct {
	East  *Eastmoney
	Yahoo *Yahoo
}

// NewProviders wires the default provider set.
func NewProviders() *Providers {
	return &Providers{East: NewEastmoney(), Yahoo: NewYahoo()}
}

func (p *Providers) NavHistory(ctx context.Context, fund string) (*History, error) {
	return p.East.NavHistory(ctx, fund)
}

func (p *Providers) IndexHistory(ctx context.Context, code string, market Market) (*History, error) {
	switch market {
	case MarketUS:
		return p.Yahoo.IndexHistory(ctx, code, market)
	case MarketDomestic:
		return p.East.IndexHistory(ctx, code, market)
	default:
		return nil, fmt.Errorf("no provider for market %q", market)
	}
}

var (
	_ NavProvider   = (*Providers)(nil)
	_ IndexProvider = (*Providers)(nil)
)

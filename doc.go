// Package fundval values a personal mutual fund portfolio.
//
// Purchases are recorded in an append-only JSONL ledger. Each fund is
// classified by a YAML mapping and valued by one of two strategies:
// domestic funds from their own published NAV, QDII funds (whose NAV
// lags by days) estimated from the index they track. Both strategies
// share the confirmation rule: an order placed before the day's cutoff
// settles against the earliest observation on or after the order date,
// a later order against the first strictly after it. Trading days are
// whatever days the price series actually has.
//
// A valuation run is deterministic and side-effect free apart from its
// snapshot file, which seeds the next run's day-over-day comparison.
package fundval

package fundval

import (
	"fmt"
	"time"
)

// Purchases placed before the cutoff on a trading day settle against that
// same day's price; orders at or after the cutoff, or on a non-trading
// day, settle against the next trading day. Trading days are not known
// from a calendar: a day is a trading day exactly when the price series
// has an observation for it.

// Cutoff is the time of day that splits a trading day for order confirmation.
type Cutoff struct {
	Hour   int
	Minute int
}

// DefaultCutoff is the 15:00 close of the domestic fund subscription window.
var DefaultCutoff = Cutoff{Hour: 15}

// ParseCutoff parses a cutoff like "15:00".
func ParseCutoff(s string) (Cutoff, error) {
	var c Cutoff
	if _, err := fmt.Sscanf(s, "%d:%d", &c.Hour, &c.Minute); err != nil {
		return Cutoff{}, fmt.Errorf("invalid cutoff %q, want HH:MM: %w", s, err)
	}
	if c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 {
		return Cutoff{}, fmt.Errorf("invalid cutoff %q, want HH:MM", s)
	}
	return c, nil
}

func (c Cutoff) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// before reports whether the order time is strictly before the cutoff on
// its own day. An order at exactly the cutoff already missed it.
func (c Cutoff) before(at time.Time) bool {
	return at.Hour()*60+at.Minute() < c.Hour*60+c.Minute
}

// Resolve maps an order timestamp to the observation whose price is
// authoritative for that purchase:
//
//   - strictly before cutoff: the earliest observation dated on or after
//     the order date (same day when the day traded and the price is
//     published, the next trading day otherwise);
//   - at or after cutoff: the earliest observation dated strictly after
//     the order date.
//
// ok is false when the series holds no such observation, typically because
// the purchase is more recent than all fetched data. The caller must treat
// that as "confirmation pending", not as an error.
func (c Cutoff) Resolve(at time.Time, h *History) (on Date, price float64, ok bool) {
	day := DateOf(at)
	if c.before(at) {
		return h.FirstOnOrAfter(day)
	}
	return h.FirstAfter(day)
}

package fundval

import (
	"fmt"
	"math"
)

// Percent is a percentage expressed in percent points (5.0 means 5%).
// The NaN value means "not computable" (zero denominator, no prior
// snapshot) and renders as N/A: a meaningless figure must never be
// shown as 0%.
type Percent float64

// NoPercent is the not-computable percentage.
func NoPercent() Percent { return Percent(math.NaN()) }

// IsNA reports whether the percentage could not be computed.
func (p Percent) IsNA() bool { return math.IsNaN(float64(p)) }

func (p Percent) Equal(q Percent) bool {
	if p.IsNA() || q.IsNA() {
		return p.IsNA() == q.IsNA()
	}
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	if p.IsNA() {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", float64(p))
}

func (p Percent) SignedString() string {
	if p.IsNA() {
		return "N/A"
	}
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" {
		return "-"
	}
	return res
}

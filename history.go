package fundval

import (
	"iter"
	"slices"
	"sort"
)

// History stores a chronological series of prices, each associated with a
// specific observation date. Dates are unique and the series is always kept
// sorted, whatever order the points were appended in: providers return
// observations in arbitrary order and lookups must never depend on it.
type History struct {
	days   []Date
	values []float64
}

// Len returns the number of observations in the history.
func (h *History) Len() int { return len(h.days) }

// IsEmpty reports whether the history carries no observation at all.
// Providers represent "no data" as an empty history, never as an error.
func (h *History) IsEmpty() bool { return len(h.days) == 0 }

// chronological is a private implementation to make this history chronologically sorted.
type chronological struct{ *History }

func (s chronological) Len() int           { return len(s.days) }
func (s chronological) Less(i, j int) bool { return s.days[i].Before(s.days[j]) }
func (s chronological) Swap(i, j int) {
	s.days[i], s.days[j] = s.days[j], s.days[i]
	s.values[i], s.values[j] = s.values[j], s.values[i]
}

// Append adds an observation to the history.
//
// An existing value at that date is overwritten.
func (h *History) Append(on Date, price float64) *History {
	if i := slices.Index(h.days, on); i >= 0 {
		// A later point at the same date wins, providers publish corrections.
		h.values[i] = price
		return h
	}
	h.days, h.values = append(h.days, on), append(h.values, price)
	sort.Sort(chronological{h})
	return h
}

// Values returns an iterator over all date/price pairs in chronological order.
func (h *History) Values() iter.Seq2[Date, float64] {
	return func(yield func(Date, float64) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// Get returns the price observed exactly on 'day'.
func (h *History) Get(day Date) (float64, bool) {
	if i := slices.Index(h.days, day); i >= 0 {
		return h.values[i], true
	}
	return 0, false
}

// search returns the index where 'day' would be inserted, and whether it is present.
func (h *History) search(day Date) (int, bool) {
	return slices.BinarySearchFunc(h.days, day, func(d, t Date) int {
		if d.After(t) {
			return 1
		}
		if d.Before(t) {
			return -1
		}
		return 0
	})
}

// AsOf returns the observation on 'day', or the most recent one before it.
// This is the "latest available" lookup: on a weekend or before today's
// publication it falls back to the last published point.
func (h *History) AsOf(day Date) (on Date, price float64, ok bool) {
	i, found := h.search(day)
	if found {
		return h.days[i], h.values[i], true
	}
	if i == 0 {
		return Date{}, 0, false // no observation on or before that day
	}
	return h.days[i-1], h.values[i-1], true
}

// FirstOnOrAfter returns the earliest observation dated on or after 'day'.
// Confirmation dates are resolved empirically against the series: any day
// absent from it (weekend, holiday, not yet published) is skipped.
func (h *History) FirstOnOrAfter(day Date) (on Date, price float64, ok bool) {
	i, found := h.search(day)
	if found {
		return h.days[i], h.values[i], true
	}
	if i >= len(h.days) {
		return Date{}, 0, false // no observation on or after that day
	}
	return h.days[i], h.values[i], true
}

// FirstAfter returns the earliest observation dated strictly after 'day'.
func (h *History) FirstAfter(day Date) (on Date, price float64, ok bool) {
	return h.FirstOnOrAfter(day.Add(1))
}

// Latest returns the most recent observation in the history.
// If the history is empty, it returns zero values.
func (h *History) Latest() (on Date, price float64) {
	last := len(h.days) - 1
	if last < 0 {
		return Date{}, 0
	}
	return h.days[last], h.values[last]
}

package fundval

import (
	"testing"
	"time"
)

// newHistory builds a history from date/price pairs given in any order.
func newHistory(t *testing.T, points map[string]float64) *History {
	t.Helper()
	h := &History{}
	for day, price := range points {
		h.Append(MustParseDate(day), price)
	}
	return h
}

func TestHistory_Append_SortsAndOverwrites(t *testing.T) {
	h := &History{}
	h.Append(NewDate(2025, time.July, 3), 3)
	h.Append(NewDate(2025, time.July, 1), 1)
	h.Append(NewDate(2025, time.July, 2), 2)
	h.Append(NewDate(2025, time.July, 1), 1.5) // correction

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}
	var days []Date
	var prices []float64
	for on, price := range h.Values() {
		days = append(days, on)
		prices = append(prices, price)
	}
	if days[0] != NewDate(2025, time.July, 1) || days[2] != NewDate(2025, time.July, 3) {
		t.Errorf("days not chronological: %v", days)
	}
	if prices[0] != 1.5 {
		t.Errorf("overwritten value = %v, want 1.5", prices[0])
	}
}

func TestHistory_AsOf(t *testing.T) {
	h := newHistory(t, map[string]float64{
		"2025-07-01": 1.0,
		"2025-07-02": 2.0,
		"2025-07-04": 4.0, // the 3rd did not trade
	})

	testCases := []struct {
		name     string
		day      string
		wantOn   string
		wantVal  float64
		wantMiss bool
	}{
		{name: "exact hit", day: "2025-07-02", wantOn: "2025-07-02", wantVal: 2.0},
		{name: "gap falls back", day: "2025-07-03", wantOn: "2025-07-02", wantVal: 2.0},
		{name: "after last", day: "2025-07-10", wantOn: "2025-07-04", wantVal: 4.0},
		{name: "before first", day: "2025-06-30", wantMiss: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			on, val, ok := h.AsOf(MustParseDate(tc.day))
			if tc.wantMiss {
				if ok {
					t.Fatalf("AsOf(%s) = %v %v, want miss", tc.day, on, val)
				}
				return
			}
			if !ok || on != MustParseDate(tc.wantOn) || val != tc.wantVal {
				t.Errorf("AsOf(%s) = %v %v %v, want %s %v", tc.day, on, val, ok, tc.wantOn, tc.wantVal)
			}
		})
	}
}

func TestHistory_FirstOnOrAfter(t *testing.T) {
	h := newHistory(t, map[string]float64{
		"2025-07-01": 1.0,
		"2025-07-02": 2.0,
		"2025-07-04": 4.0,
	})

	testCases := []struct {
		name     string
		day      string
		wantOn   string
		wantVal  float64
		wantMiss bool
	}{
		{name: "exact hit", day: "2025-07-02", wantOn: "2025-07-02", wantVal: 2.0},
		{name: "gap skips forward", day: "2025-07-03", wantOn: "2025-07-04", wantVal: 4.0},
		{name: "before first", day: "2025-06-30", wantOn: "2025-07-01", wantVal: 1.0},
		{name: "after last", day: "2025-07-05", wantMiss: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			on, val, ok := h.FirstOnOrAfter(MustParseDate(tc.day))
			if tc.wantMiss {
				if ok {
					t.Fatalf("FirstOnOrAfter(%s) = %v %v, want miss", tc.day, on, val)
				}
				return
			}
			if !ok || on != MustParseDate(tc.wantOn) || val != tc.wantVal {
				t.Errorf("FirstOnOrAfter(%s) = %v %v %v, want %s %v", tc.day, on, val, ok, tc.wantOn, tc.wantVal)
			}
		})
	}
}

func TestHistory_FirstAfter(t *testing.T) {
	h := newHistory(t, map[string]float64{
		"2025-07-01": 1.0,
		"2025-07-02": 2.0,
	})
	on, val, ok := h.FirstAfter(MustParseDate("2025-07-01"))
	if !ok || on != MustParseDate("2025-07-02") || val != 2.0 {
		t.Errorf("FirstAfter(2025-07-01) = %v %v %v, want 2025-07-02 2.0", on, val, ok)
	}
	if _, _, ok := h.FirstAfter(MustParseDate("2025-07-02")); ok {
		t.Error("FirstAfter(last day) should miss")
	}
}

func TestHistory_Latest_Empty(t *testing.T) {
	h := &History{}
	if !h.IsEmpty() {
		t.Error("new history should be empty")
	}
	on, price := h.Latest()
	if !on.IsZero() || price != 0 {
		t.Errorf("Latest() on empty = %v %v, want zero values", on, price)
	}
}

package fundval

import (
	"testing"
	"time"
)

func TestParseCutoff(t *testing.T) {
	testCases := []struct {
		in      string
		want    Cutoff
		wantErr bool
	}{
		{in: "15:00", want: Cutoff{Hour: 15}},
		{in: "9:30", want: Cutoff{Hour: 9, Minute: 30}},
		{in: "24:00", wantErr: true},
		{in: "15:60", wantErr: true},
		{in: "noon", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := ParseCutoff(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseCutoff(%q) = %v, want error", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseCutoff(%q) failed: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseCutoff(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCutoff_Resolve(t *testing.T) {
	// Tue 1st, Wed 2nd and Fri 4th traded; Thu 3rd is a holiday, the
	// weekend follows.
	h := newHistory(t, map[string]float64{
		"2025-07-01": 1.0,
		"2025-07-02": 2.0,
		"2025-07-04": 4.0,
	})
	at := func(day string, hour, min int) time.Time {
		on := MustParseDate(day)
		return time.Date(on.Year(), on.Month(), on.Day(), hour, min, 0, 0, time.Local)
	}

	testCases := []struct {
		name     string
		at       time.Time
		wantOn   string
		wantVal  float64
		wantMiss bool
	}{
		{name: "before cutoff same day", at: at("2025-07-01", 14, 0), wantOn: "2025-07-01", wantVal: 1.0},
		{name: "one minute before cutoff", at: at("2025-07-01", 14, 59), wantOn: "2025-07-01", wantVal: 1.0},
		{name: "exactly at cutoff is late", at: at("2025-07-01", 15, 0), wantOn: "2025-07-02", wantVal: 2.0},
		{name: "after cutoff next trading day", at: at("2025-07-01", 16, 30), wantOn: "2025-07-02", wantVal: 2.0},
		{name: "holiday rolls forward", at: at("2025-07-03", 10, 0), wantOn: "2025-07-04", wantVal: 4.0},
		{name: "after cutoff before holiday", at: at("2025-07-02", 15, 0), wantOn: "2025-07-04", wantVal: 4.0},
		{name: "weekend order pending", at: at("2025-07-05", 10, 0), wantMiss: true},
		{name: "last day after cutoff pending", at: at("2025-07-04", 15, 0), wantMiss: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			on, val, ok := DefaultCutoff.Resolve(tc.at, h)
			if tc.wantMiss {
				if ok {
					t.Fatalf("Resolve(%v) = %v %v, want pending", tc.at, on, val)
				}
				return
			}
			if !ok || on != MustParseDate(tc.wantOn) || val != tc.wantVal {
				t.Errorf("Resolve(%v) = %v %v %v, want %s %v", tc.at, on, val, ok, tc.wantOn, tc.wantVal)
			}
		})
	}
}

func TestCutoff_Resolve_CustomCutoff(t *testing.T) {
	h := newHistory(t, map[string]float64{
		"2025-07-01": 1.0,
		"2025-07-02": 2.0,
	})
	c := Cutoff{Hour: 9, Minute: 30}
	at := time.Date(2025, time.July, 1, 10, 0, 0, 0, time.Local)
	on, _, ok := c.Resolve(at, h)
	if !ok || on != MustParseDate("2025-07-02") {
		t.Errorf("Resolve with 09:30 cutoff = %v %v, want 2025-07-02", on, ok)
	}
}

package fundval

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := &Snapshot{
		On:       MustParseDate("2025-07-10"),
		Invested: CNY(2000),
		Value:    CNY(2150),
		Funds: map[string]SnapshotFund{
			"000001": {Name: "Domestic Fund", Invested: CNY(1000), Value: CNY(1100)},
			"017641": {Name: "QDII Fund", Invested: CNY(1000), Value: CNY(1050)},
		},
	}
	if err := WriteSnapshot(dir, s); err != nil {
		t.Fatalf("WriteSnapshot() failed: %v", err)
	}

	got, err := ReadSnapshot(filepath.Join(dir, "valuation-2025-07-10.json"))
	if err != nil {
		t.Fatalf("ReadSnapshot() failed: %v", err)
	}
	if got.On != s.On {
		t.Errorf("On = %v, want %v", got.On, s.On)
	}
	if !got.Value.Equal(s.Value) || !got.Invested.Equal(s.Invested) {
		t.Errorf("totals = %v/%v, want %v/%v", got.Invested, got.Value, s.Invested, s.Value)
	}
	if f := got.Funds["000001"]; f.Name != "Domestic Fund" || !f.Value.Equal(CNY(1100)) {
		t.Errorf("fund 000001 = %+v", f)
	}
}

func TestWriteSnapshot_RerunOverwrites(t *testing.T) {
	dir := t.TempDir()
	on := MustParseDate("2025-07-10")

	for _, value := range []float64{100, 200} {
		s := &Snapshot{On: on, Invested: CNY(100), Value: CNY(value), Funds: map[string]SnapshotFund{}}
		if err := WriteSnapshot(dir, s); err != nil {
			t.Fatalf("WriteSnapshot() failed: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("snapshot files = %d, want 1 (rerun must overwrite)", len(entries))
	}
	got, err := ReadSnapshot(filepath.Join(dir, snapshotName(on)))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Value.Equal(CNY(200)) {
		t.Errorf("Value = %v, want the second run's 200", got.Value)
	}
}

func TestLoadPrevious(t *testing.T) {
	dir := t.TempDir()
	for _, day := range []string{"2025-07-07", "2025-07-08", "2025-07-10"} {
		s := &Snapshot{On: MustParseDate(day), Invested: CNY(1), Value: CNY(1), Funds: map[string]SnapshotFund{}}
		if err := WriteSnapshot(dir, s); err != nil {
			t.Fatal(err)
		}
	}
	// An unrelated file must be ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name   string
		before string
		want   string // empty means nil
	}{
		{name: "skips same-day snapshot", before: "2025-07-10", want: "2025-07-08"},
		{name: "most recent strictly before", before: "2025-07-09", want: "2025-07-08"},
		{name: "nothing before", before: "2025-07-07", want: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LoadPrevious(dir, MustParseDate(tc.before))
			if err != nil {
				t.Fatalf("LoadPrevious() failed: %v", err)
			}
			if tc.want == "" {
				if got != nil {
					t.Fatalf("LoadPrevious() = %v, want nil", got.On)
				}
				return
			}
			if got == nil || got.On != MustParseDate(tc.want) {
				t.Errorf("LoadPrevious() = %v, want %s", got, tc.want)
			}
		})
	}
}

func TestLoadPrevious_MissingDir(t *testing.T) {
	got, err := LoadPrevious(filepath.Join(t.TempDir(), "does-not-exist"), Today())
	if err != nil || got != nil {
		t.Errorf("LoadPrevious(missing dir) = %v, %v; want nil, nil", got, err)
	}
}

func TestSnapshotOf_ExcludesWarnedFunds(t *testing.T) {
	r := &Review{
		On:       MustParseDate("2025-07-10"),
		Invested: CNY(1000),
		Value:    CNY(1100),
		Funds: []*FundValuation{
			{Code: "000001", Name: "Domestic Fund", Invested: CNY(1000), Value: CNY(1100)},
		},
		Warnings: []Warning{{Kind: WarnUnclassified, Fund: "999999"}},
	}
	s := SnapshotOf(r)
	if len(s.Funds) != 1 {
		t.Fatalf("snapshot funds = %d, want 1", len(s.Funds))
	}
	if _, ok := s.Funds["999999"]; ok {
		t.Error("warned fund must not enter the snapshot")
	}
}

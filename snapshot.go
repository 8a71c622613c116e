package fundval

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// A Snapshot is the persisted outcome of one valuation run, just enough
// to compute the next run's day-over-day change. One file per valuation
// date; rerunning a date overwrites its file, it never appends.
type Snapshot struct {
	On       Date                    `json:"date"`
	Invested Money                   `json:"invested"`
	Value    Money                   `json:"value"`
	Funds    map[string]SnapshotFund `json:"funds"`
}

// SnapshotFund is one fund's position in a snapshot.
type SnapshotFund struct {
	Name     string `json:"name,omitempty"`
	Invested Money  `json:"invested"`
	Value    Money  `json:"value"`
}

// SnapshotOf captures the valued funds of a review. Funds excluded by a
// warning are absent, so they stay out of the next day-over-day baseline.
func SnapshotOf(r *Review) *Snapshot {
	s := &Snapshot{
		On:       r.On,
		Invested: r.Invested,
		Value:    r.Value,
		Funds:    make(map[string]SnapshotFund, len(r.Funds)),
	}
	for _, fv := range r.Funds {
		s.Funds[fv.Code] = SnapshotFund{
			Name:     fv.Name,
			Invested: fv.Invested,
			Value:    fv.Value,
		}
	}
	return s
}

var snapshotNameRE = regexp.MustCompile(`^valuation-(\d{4}-\d{2}-\d{2})\.json$`)

func snapshotName(on Date) string { return fmt.Sprintf("valuation-%s.json", on) }

// WriteSnapshot persists the snapshot under dir, creating it if needed.
func WriteSnapshot(dir string, s *Snapshot) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create snapshot dir %q: %w", dir, err)
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode snapshot: %w", err)
	}
	path := filepath.Join(dir, snapshotName(s.On))
	if err := os.WriteFile(path, append(b, '\n'), 0644); err != nil {
		return fmt.Errorf("cannot write snapshot %q: %w", path, err)
	}
	return nil
}

// ReadSnapshot loads one snapshot file.
func ReadSnapshot(path string) (*Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read snapshot %q: %w", path, err)
	}
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("cannot decode snapshot %q: %w", path, err)
	}
	return &s, nil
}

// LoadPrevious returns the most recent snapshot strictly before the given
// date, or nil when none exists. A missing directory is the same as an
// empty one: the very first run has no baseline.
func LoadPrevious(dir string, before Date) (*Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot list snapshot dir %q: %w", dir, err)
	}

	var best Date
	var bestName string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := snapshotNameRE.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		on, err := ParseDate(m[1])
		if err != nil {
			continue
		}
		if !on.Before(before) {
			continue
		}
		if bestName == "" || best.Before(on) {
			best, bestName = on, e.Name()
		}
	}
	if bestName == "" {
		return nil, nil
	}
	return ReadSnapshot(filepath.Join(dir, bestName))
}

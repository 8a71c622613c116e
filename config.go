package fundval

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfigurationGap marks a fund that has recorded purchases but no
// entry in the fund mapping. Valuation surfaces it as a warning; guessing
// a strategy would mis-value the fund silently.
var ErrConfigurationGap = errors.New("no fund mapping entry")

// Market tags a fund's valuation regime.
type Market string

const (
	// MarketDomestic funds publish a trustworthy NAV every trading day.
	MarketDomestic Market = "a_share"
	// MarketUS marks QDII funds tracking a US index: their NAV lags by
	// days, so valuation estimates from the index instead.
	MarketUS Market = "us"
)

// defaultTrackingRatio is applied when the mapping leaves the ratio out:
// plain index funds track slightly under 1 after fees.
const defaultTrackingRatio = 0.95

// FundInfo describes how one fund is valued: which index it tracks, how
// tightly, and on which market. Read-only at valuation time.
type FundInfo struct {
	Name          string  `yaml:"name"`
	Index         string  `yaml:"index"`
	IndexName     string  `yaml:"index_name"`
	TrackingRatio float64 `yaml:"tracking_ratio"`
	Market        Market  `yaml:"market"`
}

// FundMapping maps a fund code to its valuation configuration. A fund with
// transactions but no entry here is a configuration gap the valuation must
// surface, never silently default.
type FundMapping map[string]FundInfo

// Get looks a fund up, normalizing defaults. The second value reports
// whether the fund is mapped at all.
func (m FundMapping) Get(code string) (FundInfo, bool) {
	info, ok := m[code]
	if !ok {
		return FundInfo{}, false
	}
	if info.TrackingRatio == 0 {
		info.TrackingRatio = defaultTrackingRatio
	}
	if info.Market == "" {
		info.Market = MarketDomestic
	}
	return info, true
}

// Require is Get for callers that treat an unmapped fund as an error.
func (m FundMapping) Require(code string) (FundInfo, error) {
	info, ok := m.Get(code)
	if !ok {
		return FundInfo{}, fmt.Errorf("fund %s: %w", code, ErrConfigurationGap)
	}
	return info, nil
}

// IndexSpec names one market index shown in the market overview.
type IndexSpec struct {
	Code   string `yaml:"code"`
	Name   string `yaml:"name"`
	Market Market `yaml:"market"`
}

// Config is the tool configuration file.
type Config struct {
	Cutoff  string            `yaml:"cutoff"`  // order cutoff time, "15:00" if empty
	Funds   FundMapping       `yaml:"funds"`   // fund code -> valuation mapping
	Aliases map[string]string `yaml:"aliases"` // bill fund name -> fund code
	Indices []IndexSpec       `yaml:"indices"` // indices for the market overview
}

// LoadConfig reads and parses the YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %q: %w", path, err)
	}
	return ParseConfig(b)
}

// ParseConfig parses YAML configuration bytes.
func ParseConfig(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("cannot parse config: %w", err)
	}
	if c.Funds == nil {
		c.Funds = FundMapping{}
	}
	for code, info := range c.Funds {
		if info.TrackingRatio < 0 {
			return nil, fmt.Errorf("fund %s: tracking_ratio must not be negative", code)
		}
	}
	return &c, nil
}

// CutoffTime returns the configured order cutoff.
func (c *Config) CutoffTime() (Cutoff, error) {
	if c.Cutoff == "" {
		return DefaultCutoff, nil
	}
	return ParseCutoff(c.Cutoff)
}

package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SideDirection fixes which underlying's leg is sold on one option side.
// Exactly two cases exist; anything else is rejected at decode time.
type SideDirection string

const (
	SellPrimaryBuySecondary SideDirection = "sell_primary_buy_secondary"
	SellSecondaryBuyPrimary SideDirection = "sell_secondary_buy_primary"
)

func (d SideDirection) Valid() bool {
	return d == SellPrimaryBuySecondary || d == SellSecondaryBuyPrimary
}

func (d *SideDirection) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dir := SideDirection(s)
	if !dir.Valid() {
		return fmt.Errorf("unknown side direction %q", s)
	}
	*d = dir
	return nil
}

// StrategyConfig describes the dual-underlying strategy being analyzed: the
// two symbols, the fixed contract ratio between them, and the directional
// choice per option side.
type StrategyConfig struct {
	PrimarySymbol   string        `yaml:"primary_symbol" json:"primary_symbol"`
	SecondarySymbol string        `yaml:"secondary_symbol" json:"secondary_symbol"`
	QtyRatio        int           `yaml:"qty_ratio" json:"qty_ratio"`
	StrikeStep      float64       `yaml:"strike_step" json:"strike_step"`
	IncludeCalls    bool          `yaml:"include_calls" json:"include_calls"`
	IncludePuts     bool          `yaml:"include_puts" json:"include_puts"`
	CallDirection   SideDirection `yaml:"call_direction" json:"call_direction"`
	PutDirection    SideDirection `yaml:"put_direction" json:"put_direction"`
}

func (c *StrategyConfig) Validate() error {
	if c.PrimarySymbol == "" || c.SecondarySymbol == "" {
		return fmt.Errorf("both symbols are required")
	}
	if c.QtyRatio <= 0 {
		return fmt.Errorf("qty_ratio must be positive, got %d", c.QtyRatio)
	}
	if !c.IncludeCalls && !c.IncludePuts {
		return fmt.Errorf("at least one of calls/puts must be included")
	}
	if c.IncludeCalls && !c.CallDirection.Valid() {
		return fmt.Errorf("invalid call direction %q", c.CallDirection)
	}
	if c.IncludePuts && !c.PutDirection.Valid() {
		return fmt.Errorf("invalid put direction %q", c.PutDirection)
	}
	return nil
}

type SortBy string

const (
	SortBySafety SortBy = "safety" // worst case descending
	SortByProfit SortBy = "profit" // credit descending
	SortByRatio  SortBy = "ratio"  // risk/reward descending
)

// ScanParams tunes the scan pipeline. Zero values are replaced by
// DefaultScanParams values via Normalize.
type ScanParams struct {
	GridPoints       int     `yaml:"grid_points" json:"grid_points"`
	PriceRangePct    float64 `yaml:"price_range_pct" json:"price_range_pct"`
	DriftTolerance   float64 `yaml:"drift_tolerance" json:"drift_tolerance"`
	PairTolerancePct float64 `yaml:"pair_tolerance_pct" json:"pair_tolerance_pct"`
	MinVolume        int     `yaml:"min_volume" json:"min_volume"`
	HideIlliquid     bool    `yaml:"hide_illiquid" json:"hide_illiquid"`
	WideSpreadPct    float64 `yaml:"wide_spread_pct" json:"wide_spread_pct"`
	SortBy           SortBy  `yaml:"sort_by" json:"sort_by"`
	Progress         bool    `yaml:"progress" json:"progress"`
}

// DefaultScanParams returns the defaults validated against historical
// sessions. DriftTolerance in particular must exceed the largest basis drift
// observed in the target data; check marketdata.DriftStats before trusting
// the worst case as a bound.
func DefaultScanParams() ScanParams {
	return ScanParams{
		GridPoints:       50,
		PriceRangePct:    0.05,
		DriftTolerance:   0.001,
		PairTolerancePct: 0.005,
		MinVolume:        5,
		WideSpreadPct:    0.20,
		SortBy:           SortBySafety,
	}
}

// Normalize fills unset numeric fields with defaults.
func (p ScanParams) Normalize() ScanParams {
	def := DefaultScanParams()
	if p.GridPoints <= 0 {
		p.GridPoints = def.GridPoints
	}
	if p.PriceRangePct <= 0 {
		p.PriceRangePct = def.PriceRangePct
	}
	if p.DriftTolerance <= 0 {
		p.DriftTolerance = def.DriftTolerance
	}
	if p.PairTolerancePct <= 0 {
		p.PairTolerancePct = def.PairTolerancePct
	}
	if p.MinVolume <= 0 {
		p.MinVolume = def.MinVolume
	}
	if p.WideSpreadPct <= 0 {
		p.WideSpreadPct = def.WideSpreadPct
	}
	if p.SortBy == "" {
		p.SortBy = def.SortBy
	}
	return p
}

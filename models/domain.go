package models

import (
	"time"

	"github.com/dualarb/darb/marketdata"
)

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Leg is one buy or sell of one option contract. Legs are built once by the
// position builder and never mutated.
type Leg struct {
	Symbol     string           `json:"symbol"`
	Strike     float64          `json:"strike"`
	Right      marketdata.Right `json:"right"`
	Side       Side             `json:"side"`
	Qty        int              `json:"qty"`
	EntryPrice float64          `json:"entry_price"`
}

// Position is an ordered set of legs plus the credit and margin derived from
// them. Built per analysis call, never persisted.
type Position struct {
	Legs            []Leg   `json:"legs"`
	CallCredit      float64 `json:"call_credit"`
	PutCredit       float64 `json:"put_credit"`
	TotalCredit     float64 `json:"total_credit"`
	EstimatedMargin float64 `json:"estimated_margin"`
}

// PriceQuote is one resolved option price with liquidity diagnostics.
// Computed fresh on every lookup.
type PriceQuote struct {
	Price     float64 `json:"price"`
	Source    string  `json:"source"` // "trade" or "midpoint"
	Volume    int     `json:"volume"`
	HasQuote  bool    `json:"has_quote"`
	Bid       float64 `json:"bid,omitempty"`
	Ask       float64 `json:"ask,omitempty"`
	Spread    float64 `json:"spread,omitempty"`
	SpreadPct float64 `json:"spread_pct,omitempty"`
	IsStale   bool    `json:"is_stale"`
	Warning   string  `json:"warning,omitempty"`
}

// RiskRewardCap stands in for an infinite risk/reward ratio when the worst
// case is non-negative.
const RiskRewardCap = 9999.0

// ScanResult is one fully evaluated strike pair.
type ScanResult struct {
	PrimaryStrike     float64       `json:"primary_strike"`
	SecondaryStrike   float64       `json:"secondary_strike"`
	Moneyness         string        `json:"moneyness"`
	MaxSpread         float64       `json:"max_spread"`
	MaxSpreadTime     time.Time     `json:"max_spread_time"`
	CreditAtMaxSpread float64       `json:"credit_at_max_spread"`
	WorstCase         float64       `json:"worst_case"`
	BestEntryTime     time.Time     `json:"best_entry_time"`
	Direction         SideDirection `json:"direction"`
	PrimaryVolume     int           `json:"primary_volume"`
	SecondaryVolume   int           `json:"secondary_volume"`
	LiquidityTier     string        `json:"liquidity_tier"`
	PriceSource       string        `json:"price_source"`
	RiskReward        float64       `json:"risk_reward"`
}

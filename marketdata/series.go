package marketdata

import "time"

// Availability classifies which series exist for a contract, resolved once so
// pricing logic never re-checks for nil slices.
type Availability int

const (
	NoData Availability = iota
	TradeOnly
	QuoteOnly
	Both
)

// OptionSeries holds the materialized time series for one option contract.
// Either slice may be empty; Availability reports which are usable.
type OptionSeries struct {
	Trades []TradeBar `json:"trades,omitempty"`
	Quotes []QuoteBar `json:"quotes,omitempty"`
}

func (s *OptionSeries) Availability() Availability {
	if s == nil {
		return NoData
	}
	switch {
	case len(s.Trades) > 0 && len(s.Quotes) > 0:
		return Both
	case len(s.Trades) > 0:
		return TradeOnly
	case len(s.Quotes) > 0:
		return QuoteOnly
	}
	return NoData
}

// SessionVolume sums observed trade volume over the whole session.
func SessionVolume(trades []TradeBar) int {
	total := 0
	for _, t := range trades {
		total += t.Volume
	}
	return total
}

// SessionOpen returns the first bar's open price, 0 if there are no bars.
func SessionOpen(bars []Bar) float64 {
	if len(bars) == 0 {
		return 0
	}
	return bars[0].Open
}

// CloseAt returns the close of the latest bar at or before the given time.
// Before the first bar it returns that bar's open; 0 if there are no bars.
func CloseAt(bars []Bar, at time.Time) float64 {
	if len(bars) == 0 {
		return 0
	}
	price := 0.0
	found := false
	for _, b := range bars {
		if b.Timestamp.After(at) {
			break
		}
		price = b.Close
		found = true
	}
	if !found {
		return bars[0].Open
	}
	return price
}

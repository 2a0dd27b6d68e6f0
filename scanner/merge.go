package scanner

import (
	"math"
	"time"

	"github.com/dualarb/darb/marketdata"
)

// mergedRow is one overlapping observation of both legs' option prices,
// with the secondary leg rescaled into primary terms.
type mergedRow struct {
	Timestamp time.Time
	Primary   float64
	Secondary float64 // divided by openRatio
	Spread    float64 // Secondary - Primary
}

// LiquidBars keeps only bars where trades actually printed.
func LiquidBars(trades []marketdata.TradeBar) []marketdata.TradeBar {
	liquid := make([]marketdata.TradeBar, 0, len(trades))
	for _, t := range trades {
		if t.Volume > 0 {
			liquid = append(liquid, t)
		}
	}
	return liquid
}

// mergeLiquid joins the two legs' liquid trade bars on timestamp and
// computes the rescaled spread per row.
func mergeLiquid(primary, secondary []marketdata.TradeBar, openRatio float64) []mergedRow {
	if openRatio <= 0 {
		return nil
	}

	secondaryAt := make(map[int64]float64)
	for _, b := range LiquidBars(secondary) {
		secondaryAt[b.Timestamp.UnixNano()] = b.Open
	}

	var rows []mergedRow
	for _, b := range LiquidBars(primary) {
		s, ok := secondaryAt[b.Timestamp.UnixNano()]
		if !ok {
			continue
		}
		rescaled := s / openRatio
		rows = append(rows, mergedRow{
			Timestamp: b.Timestamp,
			Primary:   b.Open,
			Secondary: rescaled,
			Spread:    rescaled - b.Open,
		})
	}
	return rows
}

// quickScore is the cheap per-timestamp entry heuristic: gross credit proxy
// from the rescaled spread, less a drift cost proportional to strike size
// and tolerance, less a moneyness mismatch cost between the two legs. Only
// used to pick a promising timestamp; the scenario engine's worst case is
// the authoritative number.
func quickScore(spread, primaryStrike, secondaryStrike float64, qtyRatio int, driftTolerance, primaryUnderlying, secondaryUnderlying float64) float64 {
	gross := math.Abs(spread) * float64(qtyRatio) * 100

	driftCost := secondaryStrike * driftTolerance * 100

	moneynessCost := 0.0
	if primaryStrike > 0 && secondaryStrike > 0 && primaryUnderlying > 0 && secondaryUnderlying > 0 {
		mP := (primaryUnderlying - primaryStrike) / primaryStrike
		mS := (secondaryUnderlying - secondaryStrike) / secondaryStrike
		moneynessCost = math.Abs(mP-mS) * primaryStrike * float64(qtyRatio) * 100
	}

	return gross - driftCost - moneynessCost
}

// Package pricing resolves one best option price at or near a target time
// from imperfect trade and quote series, with liquidity diagnostics.
package pricing

import (
	"time"

	"github.com/dualarb/darb/marketdata"
	"github.com/dualarb/darb/models"
)

const (
	SourceTrade    = "trade"
	SourceMidpoint = "midpoint"

	WarningStale      = "STALE"
	WarningNoTrades   = "no trades, quoted"
	WarningWideSpread = "wide spread"
)

// Resolve picks the best available price for one contract at the target time.
// Quote midpoints are preferred, restricted to timestamps where trades show
// volume when trade data exists; trade opens are the fallback. The boolean is
// false when no usable bar exists at all. Pure and deterministic.
func Resolve(series *marketdata.OptionSeries, at time.Time, wideSpreadPct float64) (models.PriceQuote, bool) {
	avail := series.Availability()
	if avail == marketdata.NoData {
		return models.PriceQuote{}, false
	}

	if avail == marketdata.QuoteOnly || avail == marketdata.Both {
		if q, ok := resolveQuote(series, at); ok {
			return diagnose(q, wideSpreadPct), true
		}
	}

	if t, ok := resolveTrade(series.Trades, at); ok {
		return diagnose(t, wideSpreadPct), true
	}
	return models.PriceQuote{}, false
}

func resolveQuote(series *marketdata.OptionSeries, at time.Time) (models.PriceQuote, bool) {
	volumeAt := make(map[int64]int, len(series.Trades))
	for _, t := range series.Trades {
		volumeAt[t.Timestamp.UnixNano()] += t.Volume
	}

	candidates := series.Quotes
	if len(series.Trades) > 0 {
		candidates = nil
		for _, q := range series.Quotes {
			if volumeAt[q.Timestamp.UnixNano()] > 0 {
				candidates = append(candidates, q)
			}
		}
	}

	idx, ok := nearestBar(len(candidates), at, func(i int) time.Time { return candidates[i].Timestamp })
	if !ok {
		return models.PriceQuote{}, false
	}
	q := candidates[idx]

	mid := q.Mid
	if mid <= 0 && q.Bid > 0 && q.Ask > 0 {
		mid = (q.Bid + q.Ask) / 2
	}
	if mid <= 0 {
		return models.PriceQuote{}, false
	}

	pq := models.PriceQuote{
		Price:  mid,
		Source: SourceMidpoint,
		Volume: volumeAt[q.Timestamp.UnixNano()],
	}
	if q.Bid > 0 && q.Ask > 0 {
		pq.HasQuote = true
		pq.Bid = q.Bid
		pq.Ask = q.Ask
		pq.Spread = q.Ask - q.Bid
		pq.SpreadPct = pq.Spread / mid * 100
	}
	return pq, true
}

func resolveTrade(trades []marketdata.TradeBar, at time.Time) (models.PriceQuote, bool) {
	liquid := make([]marketdata.TradeBar, 0, len(trades))
	for _, t := range trades {
		if t.Volume > 0 {
			liquid = append(liquid, t)
		}
	}

	pick := liquid
	idx, ok := nearestBar(len(pick), at, func(i int) time.Time { return pick[i].Timestamp })
	if !ok {
		pick = trades
		idx, ok = nearestBar(len(pick), at, func(i int) time.Time { return pick[i].Timestamp })
	}
	if !ok {
		return models.PriceQuote{}, false
	}

	bar := pick[idx]
	return models.PriceQuote{
		Price:  bar.Open,
		Source: SourceTrade,
		Volume: bar.Volume,
	}, true
}

// nearestBar applies the selection rule shared by quote and trade lookup:
// exact timestamp match, else earliest bar at/after the target, else the
// latest bar before it. Bars are assumed time-ordered.
func nearestBar(n int, at time.Time, ts func(int) time.Time) (int, bool) {
	if n == 0 {
		return 0, false
	}
	for i := 0; i < n; i++ {
		if ts(i).Equal(at) {
			return i, true
		}
	}
	for i := 0; i < n; i++ {
		if ts(i).After(at) {
			return i, true
		}
	}
	return n - 1, true
}

func diagnose(pq models.PriceQuote, wideSpreadPct float64) models.PriceQuote {
	if pq.Volume == 0 {
		if pq.HasQuote {
			pq.Warning = WarningNoTrades
		} else {
			pq.IsStale = true
			pq.Warning = WarningStale
		}
	}
	if pq.HasQuote && wideSpreadPct > 0 && pq.SpreadPct > wideSpreadPct*100 {
		if pq.Warning != "" {
			pq.Warning += "; " + WarningWideSpread
		} else {
			pq.Warning = WarningWideSpread
		}
	}
	return pq
}

package scanner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dualarb/darb/marketdata"
)

var sessionStart = time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)

func minute(n int) time.Time { return sessionStart.Add(time.Duration(n) * time.Minute) }

func bars(volumes ...int) []marketdata.TradeBar {
	out := make([]marketdata.TradeBar, len(volumes))
	for i, v := range volumes {
		out[i] = marketdata.TradeBar{
			Timestamp: minute(i),
			Open:      2.50 + float64(i)*0.01,
			Volume:    v,
		}
	}
	return out
}

func TestLiquidBars(t *testing.T) {
	liquid := LiquidBars(bars(10, 0, 5, 0, 8))
	require.Len(t, liquid, 3)
	assert.Equal(t, 23, marketdata.SessionVolume(liquid))
}

func TestMergeLiquidOverlapOnly(t *testing.T) {
	primary := bars(10, 0, 5, 0, 8)
	secondary := []marketdata.TradeBar{
		{Timestamp: minute(0), Open: 25.0, Volume: 2},
		{Timestamp: minute(1), Open: 25.1, Volume: 9}, // primary printed nothing here
		{Timestamp: minute(4), Open: 26.0, Volume: 1},
	}

	rows := mergeLiquid(primary, secondary, 10.0)
	require.Len(t, rows, 2)

	assert.Equal(t, minute(0), rows[0].Timestamp)
	assert.InDelta(t, 2.50, rows[0].Primary, 1e-9)
	assert.InDelta(t, 2.50, rows[0].Secondary, 1e-9)
	assert.InDelta(t, 0.0, rows[0].Spread, 1e-9)

	assert.Equal(t, minute(4), rows[1].Timestamp)
	assert.InDelta(t, 2.54, rows[1].Primary, 1e-9)
	assert.InDelta(t, 2.60, rows[1].Secondary, 1e-9)
	assert.InDelta(t, 0.06, rows[1].Spread, 1e-9)
}

func TestMergeLiquidBadRatio(t *testing.T) {
	assert.Empty(t, mergeLiquid(bars(1), bars(1), 0))
}

func TestQuickScoreRewardsSpread(t *testing.T) {
	low := quickScore(0.01, 600, 6000, 10, 0.001, 600, 6000)
	high := quickScore(0.10, 600, 6000, 10, 0.001, 600, 6000)
	assert.Greater(t, high, low)
}

func TestQuickScorePenalizesMoneynessMismatch(t *testing.T) {
	aligned := quickScore(0.05, 600, 6000, 10, 0.001, 600, 6000)
	mismatched := quickScore(0.05, 600, 6000, 10, 0.001, 610, 6000)
	assert.Greater(t, aligned, mismatched)
}

func TestQuickScoreGuardsZeroUnderlying(t *testing.T) {
	// A dead underlying feed must not blow up the heuristic.
	score := quickScore(0.05, 600, 6000, 10, 0.001, 0, 6000)
	assert.InDelta(t, 0.05*10*100-6000*0.001*100, score, 1e-9)
}

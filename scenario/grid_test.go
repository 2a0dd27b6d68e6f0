package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/dualarb/darb/marketdata"
	"github.com/dualarb/darb/models"
	"github.com/dualarb/darb/positions"
)

func gridParams() GridParams {
	return GridParams{
		PrimarySymbol:   "SPY",
		SecondarySymbol: "SPX",
		GridPoints:      50,
		PriceRangePct:   0.05,
		DriftTolerance:  0.001,
	}
}

func ratioPutPosition() models.Position {
	cfg := models.StrategyConfig{
		PrimarySymbol:   "SPY",
		SecondarySymbol: "SPX",
		QtyRatio:        10,
		IncludePuts:     true,
		PutDirection:    models.SellPrimaryBuySecondary,
	}
	return positions.Build(cfg, positions.StrikePair{Primary: 600, Secondary: 6000}, positions.LegPrices{
		PrimaryPut:   2.50,
		SecondaryPut: 20.00,
	})
}

func TestEvaluateBestAtLeastWorst(t *testing.T) {
	best, worst := Evaluate(ratioPutPosition(), 600, 6000, gridParams())
	assert.GreaterOrEqual(t, best.NetPnL, worst.NetPnL)
}

func TestEvaluateBreakdownConsistency(t *testing.T) {
	best, worst := Evaluate(ratioPutPosition(), 600, 6000, gridParams())
	for _, out := range []Outcome{best, worst} {
		net := 0.0
		for _, side := range out.Sides {
			sidePnL := 0.0
			for _, leg := range side.Legs {
				assert.GreaterOrEqual(t, leg.Settlement, 0.0)
				sidePnL += leg.PnL
			}
			// Credit collected minus settlement cost is the side's P&L.
			assert.InDelta(t, side.Credit-side.SettlementCost, sidePnL, 1e-6)
			net += sidePnL
		}
		assert.InDelta(t, net, out.NetPnL, 1e-6)
	}
}

func TestEvaluateZeroDriftPerfectHedge(t *testing.T) {
	// With no configured drift the 10:1 put pair settles identically on both
	// underlyings, so every cell realizes exactly the entry credit.
	p := gridParams()
	p.DriftTolerance = 1e-12
	best, worst := Evaluate(ratioPutPosition(), 600, 6000, p)
	assert.InDelta(t, 500.0, best.NetPnL, 1.0)
	assert.InDelta(t, 500.0, worst.NetPnL, 1.0)
}

func TestEvaluateCallsOnlyAndPutsOnly(t *testing.T) {
	cfg := models.StrategyConfig{
		PrimarySymbol:   "SPY",
		SecondarySymbol: "SPX",
		QtyRatio:        10,
		IncludeCalls:    true,
		CallDirection:   models.SellSecondaryBuyPrimary,
	}
	pos := positions.Build(cfg, positions.StrikePair{Primary: 600, Secondary: 6000}, positions.LegPrices{
		PrimaryCall:   1.10,
		SecondaryCall: 12.00,
	})
	best, worst := Evaluate(pos, 600, 6000, gridParams())
	require.Len(t, best.Sides, 1)
	assert.Equal(t, marketdata.Call, best.Sides[0].Right)
	assert.GreaterOrEqual(t, best.NetPnL, worst.NetPnL)
}

func TestEvaluateEmptyPosition(t *testing.T) {
	best, worst := Evaluate(models.Position{}, 600, 6000, gridParams())
	assert.Zero(t, best.NetPnL)
	assert.Zero(t, worst.NetPnL)
	assert.Empty(t, best.Sides)
}

func TestEvaluateDeterministic(t *testing.T) {
	pos := ratioPutPosition()
	firstBest, firstWorst := Evaluate(pos, 600, 6000, gridParams())
	for i := 0; i < 5; i++ {
		best, worst := Evaluate(pos, 600, 6000, gridParams())
		assert.Equal(t, firstBest, best)
		assert.Equal(t, firstWorst, worst)
	}
}

func TestEvaluateBestAtLeastWorstRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		entryP := 100 + rng.Float64()*900
		ratio := 2 + rng.Float64()*18
		entryS := entryP * ratio
		qty := 1 + rng.Intn(20)

		dir := models.SellPrimaryBuySecondary
		if rng.Intn(2) == 0 {
			dir = models.SellSecondaryBuyPrimary
		}
		cfg := models.StrategyConfig{
			PrimarySymbol:   "A",
			SecondarySymbol: "B",
			QtyRatio:        qty,
			IncludeCalls:    rng.Intn(2) == 0,
			IncludePuts:     rng.Intn(2) == 0,
			CallDirection:   dir,
			PutDirection:    dir,
		}
		if !cfg.IncludeCalls && !cfg.IncludePuts {
			cfg.IncludePuts = true
		}

		strikes := positions.StrikePair{
			Primary:   entryP * (0.9 + rng.Float64()*0.2),
			Secondary: entryS * (0.9 + rng.Float64()*0.2),
		}
		prices := positions.LegPrices{
			PrimaryCall:   rng.Float64() * 30,
			SecondaryCall: rng.Float64() * 300,
			PrimaryPut:    rng.Float64() * 30,
			SecondaryPut:  rng.Float64() * 300,
		}
		pos := positions.Build(cfg, strikes, prices)

		p := GridParams{
			PrimarySymbol:   "A",
			SecondarySymbol: "B",
			GridPoints:      20 + rng.Intn(40),
			PriceRangePct:   0.01 + rng.Float64()*0.1,
			DriftTolerance:  rng.Float64() * 0.01,
		}
		best, worst := Evaluate(pos, entryP, entryS, p)
		require.GreaterOrEqual(t, best.NetPnL, worst.NetPnL,
			"case %d: best must never undercut worst", i)
	}
}

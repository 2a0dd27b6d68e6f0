// Package scenario bounds a position's P&L with an exhaustive grid search
// across underlying price movement and basis drift between the two
// underlyings.
package scenario

import (
	"gonum.org/v1/gonum/floats"

	"github.com/dualarb/darb/marketdata"
	"github.com/dualarb/darb/models"
	"github.com/dualarb/darb/positions"
)

// GridParams sizes the scenario grid. DriftTolerance must exceed the
// largest basis drift present in the data for the worst case to hold as a
// lower bound; see marketdata.DriftStats.
type GridParams struct {
	PrimarySymbol   string
	SecondarySymbol string
	GridPoints      int     // primary price steps, default 50
	PriceRangePct   float64 // +/- range around entry, default 0.05
	DriftTolerance  float64 // basis drift half-width, default 0.001
}

func (p GridParams) normalized() GridParams {
	if p.GridPoints <= 0 {
		p.GridPoints = 50
	}
	if p.PriceRangePct <= 0 {
		p.PriceRangePct = 0.05
	}
	if p.DriftTolerance <= 0 {
		p.DriftTolerance = 0.001
	}
	return p
}

type LegOutcome struct {
	Leg        models.Leg `json:"leg"`
	Settlement float64    `json:"settlement"`
	PnL        float64    `json:"pnl"`
}

// SideBreakdown decomposes one option side of a scenario: the credit
// collected at entry against the net cash paid out at settlement.
// Credit - SettlementCost equals the sum of the side's leg P&L.
type SideBreakdown struct {
	Right          marketdata.Right `json:"right"`
	Credit         float64          `json:"credit"`
	SettlementCost float64          `json:"settlement_cost"`
	Legs           []LegOutcome     `json:"legs"`
}

// Outcome is one fully evaluated scenario cell.
type Outcome struct {
	PrimaryPrice   float64         `json:"primary_price"`
	SecondaryPrice float64         `json:"secondary_price"`
	BasisDriftPct  float64         `json:"basis_drift_pct"`
	NetPnL         float64         `json:"net_pnl"`
	Sides          []SideBreakdown `json:"sides"`
}

// Evaluate runs the full grid and returns the best and worst cells with
// their breakdowns. The grid spans entryPrimary*(1±PriceRangePct) in
// GridPoints steps; each primary price is paired with the entry-ratio
// secondary shifted by {1-D, 1, 1+D}. Pure and deterministic; a position
// with no legs or a non-positive entry yields two zero outcomes.
func Evaluate(pos models.Position, entryPrimary, entrySecondary float64, p GridParams) (best, worst Outcome) {
	p = p.normalized()
	if len(pos.Legs) == 0 || entryPrimary <= 0 || entrySecondary <= 0 {
		return Outcome{}, Outcome{}
	}
	entryRatio := entrySecondary / entryPrimary

	grid := make([]float64, p.GridPoints)
	if p.GridPoints == 1 {
		grid[0] = entryPrimary
	} else {
		floats.Span(grid, entryPrimary*(1-p.PriceRangePct), entryPrimary*(1+p.PriceRangePct))
	}
	driftMults := [3]float64{1 - p.DriftTolerance, 1, 1 + p.DriftTolerance}

	first := true
	for _, primary := range grid {
		for _, mult := range driftMults {
			secondary := primary * entryRatio * mult
			cell := evaluateCell(pos, p, primary, secondary, (mult-1)*100)
			if first {
				best, worst = cell, cell
				first = false
				continue
			}
			if cell.NetPnL > best.NetPnL {
				best = cell
			}
			if cell.NetPnL < worst.NetPnL {
				worst = cell
			}
		}
	}
	return best, worst
}

func evaluateCell(pos models.Position, p GridParams, primary, secondary, driftPct float64) Outcome {
	out := Outcome{
		PrimaryPrice:   primary,
		SecondaryPrice: secondary,
		BasisDriftPct:  driftPct,
	}

	for _, right := range [2]marketdata.Right{marketdata.Call, marketdata.Put} {
		var side SideBreakdown
		side.Right = right
		for _, leg := range pos.Legs {
			if leg.Right != right {
				continue
			}
			underlying := secondary
			if leg.Symbol == p.PrimarySymbol {
				underlying = primary
			}
			settle := positions.Settlement(underlying, leg.Strike, leg.Right)
			pnl := positions.LegPnL(leg.EntryPrice, settle, leg.Side, leg.Qty)

			entryCash := leg.EntryPrice * float64(leg.Qty) * positions.ContractMultiplier
			settleCash := settle * float64(leg.Qty) * positions.ContractMultiplier
			if leg.Side == models.Sell {
				side.Credit += entryCash
				side.SettlementCost += settleCash
			} else {
				side.Credit -= entryCash
				side.SettlementCost -= settleCash
			}

			side.Legs = append(side.Legs, LegOutcome{Leg: leg, Settlement: settle, PnL: pnl})
			out.NetPnL += pnl
		}
		if len(side.Legs) > 0 {
			out.Sides = append(out.Sides, side)
		}
	}
	return out
}

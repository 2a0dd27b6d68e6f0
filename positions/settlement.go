package positions

import (
	"math"

	"github.com/dualarb/darb/marketdata"
	"github.com/dualarb/darb/models"
)

// ContractMultiplier is the cash value of one point per contract.
const ContractMultiplier = 100.0

// Settlement is the intrinsic value of one option at expiration, never
// negative.
func Settlement(underlying, strike float64, right marketdata.Right) float64 {
	if right == marketdata.Call {
		return math.Max(0, underlying-strike)
	}
	return math.Max(0, strike-underlying)
}

// LegPnL converts an entry/exit price pair into cash P&L for one leg.
func LegPnL(entry, exit float64, side models.Side, qty int) float64 {
	if side == models.Sell {
		return (entry - exit) * float64(qty) * ContractMultiplier
	}
	return (exit - entry) * float64(qty) * ContractMultiplier
}

type SettlementRow struct {
	Leg        models.Leg `json:"leg"`
	Settlement float64    `json:"settlement"`
	PnL        float64    `json:"pnl"`
}

// SettlementReport is the per-leg settlement table exposed for display.
// TotalRealized = credit collected at entry + settlement P&L.
type SettlementReport struct {
	Rows          []SettlementRow `json:"rows"`
	SettlementPnL float64         `json:"settlement_pnl"`
	Credit        float64         `json:"credit"`
	TotalRealized float64         `json:"total_realized"`
}

// SettlementTable values every leg of a position at a hypothetical pair of
// closing underlying prices. Legs on the primary symbol settle against
// closePrimary, all others against closeSecondary.
func SettlementTable(pos models.Position, primarySymbol string, closePrimary, closeSecondary float64) SettlementReport {
	report := SettlementReport{Credit: pos.TotalCredit}
	for _, leg := range pos.Legs {
		underlying := closeSecondary
		if leg.Symbol == primarySymbol {
			underlying = closePrimary
		}
		settle := Settlement(underlying, leg.Strike, leg.Right)
		pnl := LegPnL(leg.EntryPrice, settle, leg.Side, leg.Qty)
		report.Rows = append(report.Rows, SettlementRow{Leg: leg, Settlement: settle, PnL: pnl})
		report.SettlementPnL += pnl
	}
	report.TotalRealized = report.Credit + report.SettlementPnL
	return report
}

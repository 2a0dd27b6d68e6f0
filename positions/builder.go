package positions

import (
	"math"

	"github.com/dualarb/darb/marketdata"
	"github.com/dualarb/darb/models"
)

// marginRate is the broker-style 20% notional requirement on short legs.
const marginRate = 0.20

// StrikePair is one primary/secondary strike combination.
type StrikePair struct {
	Primary   float64 `json:"primary"`
	Secondary float64 `json:"secondary"`
}

// LegPrices carries up to four observed option prices for a strike pair.
// A missing price enters the position as 0.0; surfacing that is the
// caller's concern.
type LegPrices struct {
	PrimaryCall   float64
	SecondaryCall float64
	PrimaryPut    float64
	SecondaryPut  float64
}

// Build maps a strategy configuration plus observed prices into a concrete
// position: per included side exactly one SELL and one BUY leg, with the
// primary symbol always trading QtyRatio contracts against 1 secondary.
func Build(cfg models.StrategyConfig, strikes StrikePair, prices LegPrices) models.Position {
	var pos models.Position

	if cfg.IncludeCalls {
		legs, credit := buildSide(cfg, strikes, marketdata.Call, cfg.CallDirection, prices.PrimaryCall, prices.SecondaryCall)
		pos.Legs = append(pos.Legs, legs...)
		pos.CallCredit = credit
	}
	if cfg.IncludePuts {
		legs, credit := buildSide(cfg, strikes, marketdata.Put, cfg.PutDirection, prices.PrimaryPut, prices.SecondaryPut)
		pos.Legs = append(pos.Legs, legs...)
		pos.PutCredit = credit
	}

	pos.TotalCredit = pos.CallCredit + pos.PutCredit
	pos.EstimatedMargin = estimateMargin(pos)
	return pos
}

func buildSide(cfg models.StrategyConfig, strikes StrikePair, right marketdata.Right, dir models.SideDirection, primaryPrice, secondaryPrice float64) ([]models.Leg, float64) {
	primary := models.Leg{
		Symbol:     cfg.PrimarySymbol,
		Strike:     strikes.Primary,
		Right:      right,
		Qty:        cfg.QtyRatio,
		EntryPrice: primaryPrice,
	}
	secondary := models.Leg{
		Symbol:     cfg.SecondarySymbol,
		Strike:     strikes.Secondary,
		Right:      right,
		Qty:        1,
		EntryPrice: secondaryPrice,
	}

	if dir == models.SellPrimaryBuySecondary {
		primary.Side = models.Sell
		secondary.Side = models.Buy
	} else {
		primary.Side = models.Buy
		secondary.Side = models.Sell
	}

	sell, buy := primary, secondary
	if sell.Side != models.Sell {
		sell, buy = secondary, primary
	}

	credit := sell.EntryPrice*float64(sell.Qty)*ContractMultiplier -
		buy.EntryPrice*float64(buy.Qty)*ContractMultiplier
	return []models.Leg{sell, buy}, credit
}

// estimateMargin sums, per option side, 20% of SELL-leg notional minus that
// side's credit, floored at zero. BUY legs contribute nothing.
func estimateMargin(pos models.Position) float64 {
	sideMargin := func(right marketdata.Right, credit float64) float64 {
		notional := 0.0
		present := false
		for _, leg := range pos.Legs {
			if leg.Right != right || leg.Side != models.Sell {
				continue
			}
			notional += float64(leg.Qty) * leg.Strike * ContractMultiplier
			present = true
		}
		if !present {
			return 0
		}
		return math.Max(0, notional*marginRate-credit)
	}
	return sideMargin(marketdata.Call, pos.CallCredit) + sideMargin(marketdata.Put, pos.PutCredit)
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func validConfig() StrategyConfig {
	return StrategyConfig{
		PrimarySymbol:   "SPY",
		SecondarySymbol: "SPX",
		QtyRatio:        10,
		IncludeCalls:    true,
		IncludePuts:     true,
		CallDirection:   SellSecondaryBuyPrimary,
		PutDirection:    SellPrimaryBuySecondary,
	}
}

func TestStrategyConfigValidate(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	broken := cfg
	broken.PrimarySymbol = ""
	assert.Error(t, broken.Validate())

	broken = cfg
	broken.QtyRatio = -1
	assert.Error(t, broken.Validate())

	broken = cfg
	broken.IncludeCalls = false
	broken.IncludePuts = false
	assert.Error(t, broken.Validate())

	broken = cfg
	broken.CallDirection = "sell everything"
	assert.Error(t, broken.Validate())

	// An invalid direction on an excluded side does not matter.
	onlyPuts := cfg
	onlyPuts.IncludeCalls = false
	onlyPuts.CallDirection = ""
	assert.NoError(t, onlyPuts.Validate())
}

func TestSideDirectionYAML(t *testing.T) {
	var cfg StrategyConfig
	doc := `
primary_symbol: SPY
secondary_symbol: SPX
qty_ratio: 10
include_puts: true
put_direction: sell_primary_buy_secondary
`
	require.NoError(t, yaml.Unmarshal([]byte(doc), &cfg))
	assert.Equal(t, SellPrimaryBuySecondary, cfg.PutDirection)

	bad := `put_direction: buy_everything`
	assert.Error(t, yaml.Unmarshal([]byte(bad), &cfg))
}

func TestScanParamsNormalize(t *testing.T) {
	def := DefaultScanParams()
	assert.Equal(t, def, ScanParams{}.Normalize())

	custom := ScanParams{GridPoints: 25, DriftTolerance: 0.002}
	norm := custom.Normalize()
	assert.Equal(t, 25, norm.GridPoints)
	assert.InDelta(t, 0.002, norm.DriftTolerance, 1e-12)
	assert.InDelta(t, def.PriceRangePct, norm.PriceRangePct, 1e-12)
	assert.Equal(t, def.SortBy, norm.SortBy)
}

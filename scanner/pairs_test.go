package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dualarb/darb/positions"
)

func TestPairStrikesTolerance(t *testing.T) {
	primary := []float64{600}
	secondary := []float64{5980, 5985, 6000, 6015, 6025, 6100}

	pairs := PairStrikes(primary, secondary, 10.0, 0.005, 0)
	require.Len(t, pairs, 3)
	assert.Equal(t, positions.StrikePair{Primary: 600, Secondary: 5985}, pairs[0])
	assert.Equal(t, positions.StrikePair{Primary: 600, Secondary: 6000}, pairs[1])
	assert.Equal(t, positions.StrikePair{Primary: 600, Secondary: 6015}, pairs[2])
}

func TestPairStrikesRejectsFarStrike(t *testing.T) {
	// 6100 is ~1.67% off the 6000 target, well past a 0.5% tolerance.
	pairs := PairStrikes([]float64{600}, []float64{6100}, 10.0, 0.005, 0)
	assert.Empty(t, pairs)
}

func TestPairStrikesSnapsTargetToStep(t *testing.T) {
	// Open ratio of 10.02 gives a raw target of 6012; snapping to the 5-wide
	// strike grid centers the tolerance band on 6010.
	pairs := PairStrikes([]float64{600}, []float64{6010, 6015}, 10.02, 0.0005, 5)
	require.Len(t, pairs, 1)
	assert.InDelta(t, 6010, pairs[0].Secondary, 1e-9)
}

func TestPairStrikesMultiplePrimaries(t *testing.T) {
	pairs := PairStrikes([]float64{595, 600}, []float64{5950, 6000}, 10.0, 0.005, 0)
	require.Len(t, pairs, 2)
	assert.InDelta(t, 595, pairs[0].Primary, 1e-9)
	assert.InDelta(t, 5950, pairs[0].Secondary, 1e-9)
	assert.InDelta(t, 600, pairs[1].Primary, 1e-9)
	assert.InDelta(t, 6000, pairs[1].Secondary, 1e-9)
}

func TestPairStrikesDegenerateInputs(t *testing.T) {
	assert.Empty(t, PairStrikes(nil, nil, 10.0, 0.005, 0))
	assert.Empty(t, PairStrikes([]float64{600}, []float64{6000}, 0, 0.005, 0))
	assert.Empty(t, PairStrikes([]float64{600}, []float64{6000}, 10.0, 0, 0))
}

package scanner

import (
	"math"
	"sort"

	"github.com/dualarb/darb/positions"
)

// PairStrikes matches every primary strike against secondary strikes within
// a relative tolerance of primary*openRatio. A positive step snaps the
// target onto the secondary strike grid first. Results are ordered by
// primary then secondary strike.
func PairStrikes(primary, secondary []float64, openRatio, tolerancePct, step float64) []positions.StrikePair {
	if openRatio <= 0 || tolerancePct <= 0 {
		return nil
	}

	var pairs []positions.StrikePair
	for _, p := range primary {
		target := p * openRatio
		if step > 0 {
			target = math.Round(target/step) * step
		}
		if target <= 0 {
			continue
		}
		for _, s := range secondary {
			if math.Abs(s-target)/target <= tolerancePct {
				pairs = append(pairs, positions.StrikePair{Primary: p, Secondary: s})
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Primary != pairs[j].Primary {
			return pairs[i].Primary < pairs[j].Primary
		}
		return pairs[i].Secondary < pairs[j].Secondary
	})
	return pairs
}

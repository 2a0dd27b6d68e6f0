package marketdata

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// DriftResult summarizes how far the secondary/primary price ratio moved away
// from its session-open value. MaxAbsDrift is what a scenario drift tolerance
// has to exceed for the worst case to be a true lower bound.
type DriftResult struct {
	Samples     int
	MeanDrift   float64
	StdDrift    float64
	MaxAbsDrift float64
	Correlation float64
}

// DriftStats computes basis-drift statistics over the bars' overlapping
// timestamps. Drift at time t is secondary(t)/primary(t) divided by the
// open ratio, minus 1.
func DriftStats(primary, secondary []Bar) DriftResult {
	openP := SessionOpen(primary)
	openS := SessionOpen(secondary)
	if openP <= 0 || openS <= 0 {
		return DriftResult{}
	}
	openRatio := openS / openP

	byTime := make(map[int64]float64, len(secondary))
	for _, b := range secondary {
		if b.Close > 0 {
			byTime[b.Timestamp.UnixNano()] = b.Close
		}
	}

	var drifts, closesP, closesS []float64
	for _, b := range primary {
		s, ok := byTime[b.Timestamp.UnixNano()]
		if !ok || b.Close <= 0 {
			continue
		}
		drifts = append(drifts, (s/b.Close)/openRatio-1)
		closesP = append(closesP, b.Close)
		closesS = append(closesS, s)
	}
	if len(drifts) == 0 {
		return DriftResult{}
	}

	maxAbs := 0.0
	for _, d := range drifts {
		if a := math.Abs(d); a > maxAbs {
			maxAbs = a
		}
	}

	res := DriftResult{
		Samples:     len(drifts),
		MeanDrift:   stat.Mean(drifts, nil),
		MaxAbsDrift: maxAbs,
	}
	if len(drifts) > 1 {
		res.StdDrift = sanitizeFloat(stat.StdDev(drifts, nil))
		res.Correlation = sanitizeFloat(stat.Correlation(closesP, closesS, nil))
	}
	return res
}

func sanitizeFloat(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

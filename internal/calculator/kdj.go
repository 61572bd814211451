package calculator

import (
	"math"

	"github.com/mdsiyam69/Clarity/internal/model"
)

const (
	kdjWindow = 9
	// centre of mass 2
	kdjAlpha = 1.0 / 3.0
)

// KDJResult holds the latest stochastic readings.
type KDJResult struct {
	K, D, J float64
}

// RSV returns the raw stochastic value series over a window.
// Values that cannot be computed (warm-up or a flat range) are 50.
func RSV(bars model.PriceHistory, window int) []float64 {
	out := make([]float64, len(bars))
	for i := range bars {
		if i+1 < window {
			out[i] = 50
			continue
		}
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, b := range bars[i+1-window : i+1] {
			lo = math.Min(lo, b.Low)
			hi = math.Max(hi, b.High)
		}
		if hi == lo {
			out[i] = 50
			continue
		}
		out[i] = (bars[i].Close - lo) / (hi - lo) * 100
	}
	return out
}

// CalculateKDJ computes KDJ(9,3,3). K smooths RSV and D smooths K with the same factor.
func CalculateKDJ(bars model.PriceHistory) KDJResult {
	if len(bars) < kdjWindow {
		return KDJResult{K: 50, D: 50, J: 50}
	}
	k := EMA(RSV(bars, kdjWindow), kdjAlpha)
	d := EMA(k, kdjAlpha)
	lk, ld := last(k), last(d)
	return KDJResult{K: lk, D: ld, J: 3*lk - 2*ld}
}

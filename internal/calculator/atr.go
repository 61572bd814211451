package calculator

import (
	"math"

	"github.com/mdsiyam69/Clarity/internal/model"
)

// dxEpsilon keeps the DX denominator non-zero.
const dxEpsilon = 1e-10

// TrueRange returns the true range series. The first bar has no previous
// close, so its range is high - low.
func TrueRange(bars model.PriceHistory) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		tr := b.High - b.Low
		if i > 0 {
			prev := bars[i-1].Close
			tr = math.Max(tr, math.Max(math.Abs(b.High-prev), math.Abs(b.Low-prev)))
		}
		out[i] = tr
	}
	return out
}

// CalculateATR returns the simple rolling mean of true range over period, or 0
// when there are fewer than period bars.
func CalculateATR(bars model.PriceHistory, period int) float64 {
	return finiteOr(last(RollingMean(TrueRange(bars), period)), 0)
}

// DirectionalMovement returns the +DM and -DM series. Index 0 is zero.
func DirectionalMovement(bars model.PriceHistory) (plus, minus []float64) {
	plus = make([]float64, len(bars))
	minus = make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		up := bars[i].High - bars[i-1].High
		down := bars[i-1].Low - bars[i].Low
		if up > down {
			plus[i] = up
		}
		if down > up {
			minus[i] = down
		}
	}
	return plus, minus
}

// CalculateADX is a simplified ADX: directional indicators come from simple
// rolling means of DM over simple-mean ATR, and ADX is the simple mean of the
// last period DX values. Returns 0 until 2*period-1 bars are available.
func CalculateADX(bars model.PriceHistory, period int) float64 {
	if len(bars) < 2*period-1 {
		return 0
	}
	atr := RollingMean(TrueRange(bars), period)
	plusDM, minusDM := DirectionalMovement(bars)
	plusMean := RollingMean(plusDM, period)
	minusMean := RollingMean(minusDM, period)

	dx := make([]float64, len(bars))
	for i := range bars {
		if math.IsNaN(atr[i]) || atr[i] == 0 {
			dx[i] = math.NaN()
			continue
		}
		pdi := 100 * plusMean[i] / atr[i]
		mdi := 100 * minusMean[i] / atr[i]
		dx[i] = math.Abs(pdi-mdi) / (pdi + mdi + dxEpsilon) * 100
	}
	return finiteOr(last(RollingMean(dx, period)), 0)
}

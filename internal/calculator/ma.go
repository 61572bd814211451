package calculator

import (
	"errors"
	"math"
)

// CalculateSMA computes the simple moving average of the last period values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// RollingMean returns the trailing simple mean at every index.
// Indexes before the first full window, or whose window holds a NaN, are NaN.
func RollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if window <= 0 || i+1 < window {
			out[i] = math.NaN()
			continue
		}
		sum := 0.0
		for _, v := range values[i+1-window : i+1] {
			sum += v
		}
		out[i] = sum / float64(window)
	}
	return out
}

// CalculateBias returns the percentage deviation of price from the moving average.
func CalculateBias(price, ma float64) float64 {
	if ma == 0 {
		return 0
	}
	return (price - ma) / ma * 100
}

// smaOrZero is CalculateSMA with a zero fallback for short input.
func smaOrZero(values []float64, period int) float64 {
	v, err := CalculateSMA(values, period)
	if err != nil {
		return 0
	}
	return v
}

func last(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return values[len(values)-1]
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

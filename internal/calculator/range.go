package calculator

import (
	"errors"
	"math"

	"github.com/mdsiyam69/Clarity/internal/model"
)

// CalculateRange scans the most recent window bars and returns the highest high
// and the lowest low.
func CalculateRange(bars model.PriceHistory, window int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	if window <= 0 {
		return 0, 0, errors.New("window must be positive")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars.Tail(window) {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, nil
}

// SupportResistance returns the window-bar low and high, or zeros when fewer
// than window bars exist.
func SupportResistance(bars model.PriceHistory, window int) (support, resistance float64) {
	if len(bars) < window {
		return 0, 0
	}
	high, low, err := CalculateRange(bars, window)
	if err != nil {
		return 0, 0
	}
	return low, high
}

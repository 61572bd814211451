package calculator

import "github.com/mdsiyam69/Clarity/internal/model"

// CalculateVolumeRatio compares the latest volume with the window-bar average,
// the latest bar included. Returns 1 when the average is undefined or zero.
func CalculateVolumeRatio(bars model.PriceHistory, window int) float64 {
	avg, err := CalculateSMA(bars.Volumes(), window)
	if err != nil || avg <= 0 {
		return 1
	}
	lb, _ := bars.Last()
	return lb.Volume / avg
}

// CalculateChangePct returns the percentage change between the last two closes.
func CalculateChangePct(bars model.PriceHistory) float64 {
	if len(bars) < 2 {
		return 0
	}
	prev := bars[len(bars)-2].Close
	if prev == 0 {
		return 0
	}
	return (bars[len(bars)-1].Close - prev) / prev * 100
}

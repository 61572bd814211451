package calculator

// lossFloor replaces a zero average loss so RS stays finite.
const lossFloor = 1e-10

// CalculateRSI computes RSI over the last period price changes using simple means
// of gains and losses rather than Wilder smoothing. Returns 50 when there are
// not enough closes.
func CalculateRSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return 50
	}
	var gain, loss float64
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gain += change
		} else {
			loss -= change
		}
	}
	gain /= float64(period)
	loss /= float64(period)
	if loss == 0 {
		loss = lossFloor
	}
	rs := gain / loss
	return 100 - 100/(1+rs)
}

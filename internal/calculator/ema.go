package calculator

// EMA returns the non-adjusted exponential moving average series,
// seeded with the first value: ema[0] = x[0], ema[i] = a*x[i] + (1-a)*ema[i-1].
func EMA(values []float64, alpha float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if i == 0 {
			out[i] = v
			continue
		}
		out[i] = alpha*v + (1-alpha)*out[i-1]
	}
	return out
}

// EMASpan is EMA with alpha = 2/(span+1).
func EMASpan(values []float64, span int) []float64 {
	return EMA(values, 2/(float64(span)+1))
}

// MACDResult holds the latest MACD readings.
type MACDResult struct {
	Line   float64
	Signal float64
	Hist   float64
}

// CalculateMACD computes MACD(12,26,9) on closes.
func CalculateMACD(closes []float64) MACDResult {
	if len(closes) == 0 {
		return MACDResult{}
	}
	fast := EMASpan(closes, 12)
	slow := EMASpan(closes, 26)
	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fast[i] - slow[i]
	}
	signal := EMASpan(line, 9)
	l, s := last(line), last(signal)
	return MACDResult{Line: l, Signal: s, Hist: l - s}
}

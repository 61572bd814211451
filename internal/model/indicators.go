package model

// IndicatorSnapshot holds the latest technical readings for one symbol.
// Every field is always set; undefined readings fall back to a neutral value.
type IndicatorSnapshot struct {
	Price       float64 `json:"price"`
	ChangePct   float64 `json:"change_pct"`
	MA5         float64 `json:"ma5"`
	MA10        float64 `json:"ma10"`
	MA20        float64 `json:"ma20"`
	MA60        float64 `json:"ma60"`
	RSI         float64 `json:"rsi"`
	MACD        float64 `json:"macd"`
	MACDSignal  float64 `json:"macd_signal"`
	MACDHist    float64 `json:"macd_hist"`
	KDJK        float64 `json:"kdj_k"`
	KDJD        float64 `json:"kdj_d"`
	KDJJ        float64 `json:"kdj_j"`
	ADX         float64 `json:"adx"`
	ATR         float64 `json:"atr"`
	Bias        float64 `json:"bias"`
	VolumeRatio float64 `json:"volume_ratio"`
	Support     float64 `json:"support"`
	Resistance  float64 `json:"resistance"`
	Bars        int     `json:"bars"`
}

// NeutralSnapshot is returned when there is not enough history to compute indicators.
func NeutralSnapshot(price float64) IndicatorSnapshot {
	return IndicatorSnapshot{
		Price:       price,
		RSI:         50,
		KDJK:        50,
		KDJD:        50,
		KDJJ:        50,
		VolumeRatio: 1,
	}
}

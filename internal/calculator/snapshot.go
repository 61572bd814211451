package calculator

import "github.com/mdsiyam69/Clarity/internal/model"

const (
	rsiPeriod     = 14
	atrPeriod     = 14
	adxPeriod     = 14
	srWindow      = 20
	volumeWindow  = 5
	longMAPeriod  = 60
	shortMAPeriod = 20
)

// Compute derives the full indicator snapshot from a daily history. It never
// fails: histories shorter than model.MinHistoryBars yield the neutral snapshot.
func Compute(history model.PriceHistory) model.IndicatorSnapshot {
	lb, ok := history.Last()
	if !ok {
		return model.NeutralSnapshot(0)
	}
	if len(history) < model.MinHistoryBars {
		snap := model.NeutralSnapshot(lb.Close)
		snap.Bars = len(history)
		return snap
	}

	closes := history.Closes()
	s := model.IndicatorSnapshot{
		Price:     lb.Close,
		ChangePct: CalculateChangePct(history),
		MA5:       smaOrZero(closes, 5),
		MA10:      smaOrZero(closes, 10),
		MA20:      smaOrZero(closes, shortMAPeriod),
		Bars:      len(history),
	}
	if len(closes) >= longMAPeriod {
		s.MA60 = smaOrZero(closes, longMAPeriod)
	} else {
		s.MA60 = s.MA20
	}
	s.Bias = CalculateBias(s.Price, s.MA20)

	macd := CalculateMACD(closes)
	s.MACD, s.MACDSignal, s.MACDHist = macd.Line, macd.Signal, macd.Hist

	kdj := CalculateKDJ(history)
	s.KDJK, s.KDJD, s.KDJJ = kdj.K, kdj.D, kdj.J

	s.RSI = CalculateRSI(closes, rsiPeriod)
	s.ATR = CalculateATR(history, atrPeriod)
	s.ADX = CalculateADX(history, adxPeriod)
	s.Support, s.Resistance = SupportResistance(history, srWindow)
	s.VolumeRatio = CalculateVolumeRatio(history, volumeWindow)
	return s
}

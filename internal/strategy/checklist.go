package strategy

import (
	"math"

	"github.com/mdsiyam69/Clarity/internal/model"
)

// BuildChecklist evaluates the 14 trading rules against a snapshot and derives
// entry, stop and target levels.
func BuildChecklist(s model.IndicatorSnapshot) model.TradingChecklist {
	cl := model.TradingChecklist{
		MAAlignment:   checkMAAlignment(s),
		MACDCross:     checkMACD(s),
		TrendStrength: band(s.ADX, 25, 15, true),
		PricePosition: checkPricePosition(s),

		BiasCheck:     band(math.Abs(s.Bias), 3, 5, false),
		Volatility:    checkVolatility(s),
		VolumeConfirm: checkVolume(s),

		RSIZone:         checkRSI(s.RSI),
		KDJSignal:       checkKDJ(s),
		SupportDistance: checkSupport(s),
		PullbackEntry:   checkPullback(s),
		UpsideSpace:     checkUpside(s),
	}

	// stop loss: 2×ATR below price, else just under support
	if s.ATR > 0 {
		cl.StopLoss = s.Price - 2*s.ATR
		cl.StopLossDefined = model.StatusWarn
		if cl.StopLoss > 0 {
			cl.StopLossDefined = model.StatusPass
		}
	} else {
		if s.Support > 0 {
			cl.StopLoss = s.Support * 0.98
		} else {
			cl.StopLoss = s.Price * 0.95
		}
		cl.StopLossDefined = model.StatusWarn
	}

	cl.EntryPrice = s.Price
	if s.Resistance > s.Price {
		cl.TargetPrice = s.Resistance
	} else {
		cl.TargetPrice = s.Price * 1.10
	}

	risk := cl.EntryPrice - cl.StopLoss
	if risk > 0 {
		cl.RiskRewardRatio = (cl.TargetPrice - cl.EntryPrice) / risk
		cl.RiskReward = band(cl.RiskRewardRatio, 3, 2, true)
	} else {
		cl.RiskReward = model.StatusFail
	}
	return cl
}

// band grades v against two cut-offs. With higherIsBetter, v >= pass passes and
// v >= warn warns; otherwise v <= pass passes and v <= warn warns.
func band(v, pass, warn float64, higherIsBetter bool) model.CheckStatus {
	if higherIsBetter {
		switch {
		case v >= pass:
			return model.StatusPass
		case v >= warn:
			return model.StatusWarn
		}
		return model.StatusFail
	}
	switch {
	case v <= pass:
		return model.StatusPass
	case v <= warn:
		return model.StatusWarn
	}
	return model.StatusFail
}

func checkMAAlignment(s model.IndicatorSnapshot) model.CheckStatus {
	switch {
	case s.MA5 > s.MA10 && s.MA10 > s.MA20:
		return model.StatusPass
	case s.MA5 < s.MA10 && s.MA10 < s.MA20:
		return model.StatusFail
	}
	return model.StatusWarn
}

func checkMACD(s model.IndicatorSnapshot) model.CheckStatus {
	if s.MACDHist > 0 {
		if s.MACD > s.MACDSignal {
			return model.StatusPass
		}
		return model.StatusWarn
	}
	if s.MACD < s.MACDSignal {
		return model.StatusFail
	}
	return model.StatusWarn
}

func checkPricePosition(s model.IndicatorSnapshot) model.CheckStatus {
	switch {
	case s.Price > s.MA20:
		return model.StatusPass
	case s.Price > s.MA60:
		return model.StatusWarn
	}
	return model.StatusFail
}

func checkVolatility(s model.IndicatorSnapshot) model.CheckStatus {
	if s.ATR <= 0 || s.Price <= 0 {
		return model.StatusUnknown
	}
	return band(s.ATR/s.Price*100, 3, 5, false)
}

func checkVolume(s model.IndicatorSnapshot) model.CheckStatus {
	switch {
	case s.VolumeRatio >= 0.8 && s.VolumeRatio <= 2.0:
		if s.ChangePct >= 0 {
			return model.StatusPass
		}
		return model.StatusWarn
	case s.VolumeRatio > 3.0:
		// heavy volume on a down day is distribution
		if s.ChangePct < 0 {
			return model.StatusFail
		}
		return model.StatusWarn
	}
	return model.StatusWarn
}

func checkRSI(rsi float64) model.CheckStatus {
	switch {
	case rsi < 30:
		return model.StatusPass
	case rsi <= 50:
		return model.StatusPass
	case rsi <= 70:
		return model.StatusWarn
	}
	return model.StatusFail
}

func checkKDJ(s model.IndicatorSnapshot) model.CheckStatus {
	switch {
	case s.KDJK > s.KDJD && s.KDJJ < 80:
		return model.StatusPass
	case s.KDJK < s.KDJD:
		return model.StatusFail
	}
	return model.StatusWarn
}

func checkSupport(s model.IndicatorSnapshot) model.CheckStatus {
	if s.Support <= 0 || s.Price <= 0 {
		return model.StatusUnknown
	}
	return band((s.Price-s.Support)/s.Price*100, 3, 8, false)
}

func checkPullback(s model.IndicatorSnapshot) model.CheckStatus {
	if s.MA10 <= 0 {
		return model.StatusUnknown
	}
	return band(math.Abs(s.Price-s.MA10)/s.MA10*100, 2, 5, false)
}

func checkUpside(s model.IndicatorSnapshot) model.CheckStatus {
	if s.Resistance <= s.Price || s.Price <= 0 {
		return model.StatusFail
	}
	return band(upsidePct(s.Resistance, s.Price), 10, 5, true)
}

func upsidePct(target, price float64) float64 {
	if price == 0 {
		return 0
	}
	return (target - price) / price * 100
}

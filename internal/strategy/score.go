package strategy

import "github.com/mdsiyam69/Clarity/internal/model"

// Score converts a checklist into category sub-scores and a 0..100 total.
// Trend, risk and timing are floored at zero; risk starts full and is deducted.
func Score(cl model.TradingChecklist) model.ScoreBreakdown {
	var trend int
	switch cl.MAAlignment {
	case model.StatusPass:
		trend += 10
	case model.StatusFail:
		trend -= 5
	}
	switch cl.MACDCross {
	case model.StatusPass:
		trend += 8
	case model.StatusFail:
		trend -= 3
	}
	if cl.TrendStrength == model.StatusPass {
		trend += 7
	}
	if cl.PricePosition == model.StatusPass {
		trend += 5
	}

	risk := 30
	switch cl.BiasCheck {
	case model.StatusFail:
		risk -= 20
	case model.StatusWarn:
		risk -= 8
	}
	if cl.Volatility == model.StatusFail {
		risk -= 5
	}
	if cl.VolumeConfirm == model.StatusFail {
		risk -= 5
	}

	var timing int
	switch cl.RSIZone {
	case model.StatusPass:
		timing += 8
	case model.StatusFail:
		timing -= 5
	}
	switch cl.KDJSignal {
	case model.StatusPass:
		timing += 7
	case model.StatusFail:
		timing -= 3
	}
	if cl.SupportDistance == model.StatusPass {
		timing += 5
	}
	if cl.PullbackEntry == model.StatusPass {
		timing += 5
	}

	var profit int
	if cl.UpsideSpace == model.StatusPass {
		profit += 8
	}
	switch cl.RiskReward {
	case model.StatusPass:
		profit += 7
	case model.StatusWarn:
		profit += 3
	}

	b := model.ScoreBreakdown{
		Trend:  max(0, trend),
		Risk:   max(0, risk),
		Timing: max(0, timing),
		Profit: profit,
	}
	b.Total = min(100, max(0, b.Trend+b.Risk+b.Timing+b.Profit))
	return b
}

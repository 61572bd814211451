package strategy

import "github.com/mdsiyam69/Clarity/internal/model"

const (
	// OverrideFailCount forces a downgrade when this many checks fail.
	OverrideFailCount = 3
	// OverrideHoldScore separates Hold from Sell under an override.
	OverrideHoldScore = 60
)

// Tiers maps score and pass count to a signal, evaluated top-down.
var Tiers = []struct {
	MinScore  int
	MinPasses int
	Signal    model.Signal
}{
	{80, 10, model.SignalStrongBuy},
	{65, 7, model.SignalBuy},
	{50, 0, model.SignalHold},
	{35, 0, model.SignalSell},
}

// DefaultSignal applies when no tier matches.
const DefaultSignal = model.SignalStrongSell

// Classify picks the signal for a score. A chasing-risk bias or too many failed
// checks caps the outcome at Hold.
func Classify(score int, cl model.TradingChecklist) model.Signal {
	if cl.FailCount() >= OverrideFailCount || cl.BiasCheck == model.StatusFail {
		if score >= OverrideHoldScore {
			return model.SignalHold
		}
		return model.SignalSell
	}
	passes := cl.PassCount()
	for _, t := range Tiers {
		if score >= t.MinScore && passes >= t.MinPasses {
			return t.Signal
		}
	}
	return DefaultSignal
}

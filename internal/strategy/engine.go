package strategy

import "github.com/mdsiyam69/Clarity/internal/model"

// Evaluation is the outcome of a single evaluation pass over one snapshot.
type Evaluation struct {
	Checklist model.TradingChecklist
	Breakdown model.ScoreBreakdown
	Score     int
	Signal    model.Signal
	Reasons   []string
}

// Evaluate runs checklist, scoring, classification and reasons on the same snapshot.
func Evaluate(s model.IndicatorSnapshot) Evaluation {
	cl := BuildChecklist(s)
	b := Score(cl)
	return Evaluation{
		Checklist: cl,
		Breakdown: b,
		Score:     b.Total,
		Signal:    Classify(b.Total, cl),
		Reasons:   Reasons(s, cl),
	}
}

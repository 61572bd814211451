package model

import "time"

// CheckStatus is the outcome of a single checklist rule.
type CheckStatus string

const (
	StatusPass    CheckStatus = "pass"
	StatusWarn    CheckStatus = "warn"
	StatusFail    CheckStatus = "fail"
	StatusUnknown CheckStatus = "unknown"
)

// Mark returns the emoji used in reports.
func (s CheckStatus) Mark() string {
	switch s {
	case StatusPass:
		return "✅"
	case StatusWarn:
		return "⚠️"
	case StatusFail:
		return "❌"
	default:
		return "❓"
	}
}

// CheckCategory groups checklist items for scoring.
type CheckCategory string

const (
	CategoryTrend  CheckCategory = "trend"
	CategoryRisk   CheckCategory = "risk"
	CategoryTiming CheckCategory = "timing"
	CategoryProfit CheckCategory = "profit"
)

// CheckItem is a named checklist entry, used for display and counting.
type CheckItem struct {
	Name     string
	Category CheckCategory
	Status   CheckStatus
}

// TradingChecklist is the 14-item evaluation of one snapshot plus derived levels.
type TradingChecklist struct {
	// trend (30%)
	MAAlignment   CheckStatus `json:"ma_alignment"`
	MACDCross     CheckStatus `json:"macd_cross"`
	TrendStrength CheckStatus `json:"trend_strength"`
	PricePosition CheckStatus `json:"price_position"`

	// risk (30%)
	BiasCheck       CheckStatus `json:"bias_check"`
	Volatility      CheckStatus `json:"volatility"`
	VolumeConfirm   CheckStatus `json:"volume_confirm"`
	StopLossDefined CheckStatus `json:"stop_loss_defined"`

	// timing (25%)
	RSIZone         CheckStatus `json:"rsi_zone"`
	KDJSignal       CheckStatus `json:"kdj_signal"`
	SupportDistance CheckStatus `json:"support_distance"`
	PullbackEntry   CheckStatus `json:"pullback_entry"`

	// profit (15%)
	UpsideSpace CheckStatus `json:"upside_space"`
	RiskReward  CheckStatus `json:"risk_reward"`

	EntryPrice      float64 `json:"entry_price"`
	StopLoss        float64 `json:"stop_loss"`
	TargetPrice     float64 `json:"target_price"`
	RiskRewardRatio float64 `json:"risk_reward_ratio"`
}

// Items returns the checks in display order.
func (c TradingChecklist) Items() []CheckItem {
	return []CheckItem{
		{"MA alignment", CategoryTrend, c.MAAlignment},
		{"MACD cross", CategoryTrend, c.MACDCross},
		{"Trend strength", CategoryTrend, c.TrendStrength},
		{"Price position", CategoryTrend, c.PricePosition},
		{"Bias", CategoryRisk, c.BiasCheck},
		{"Volatility", CategoryRisk, c.Volatility},
		{"Volume confirm", CategoryRisk, c.VolumeConfirm},
		{"Stop loss", CategoryRisk, c.StopLossDefined},
		{"RSI zone", CategoryTiming, c.RSIZone},
		{"KDJ signal", CategoryTiming, c.KDJSignal},
		{"Support distance", CategoryTiming, c.SupportDistance},
		{"Pullback entry", CategoryTiming, c.PullbackEntry},
		{"Upside space", CategoryProfit, c.UpsideSpace},
		{"Risk reward", CategoryProfit, c.RiskReward},
	}
}

func (c TradingChecklist) count(s CheckStatus) int {
	n := 0
	for _, it := range c.Items() {
		if it.Status == s {
			n++
		}
	}
	return n
}

// PassCount returns the number of passing checks.
func (c TradingChecklist) PassCount() int { return c.count(StatusPass) }

// WarnCount returns the number of warning checks.
func (c TradingChecklist) WarnCount() int { return c.count(StatusWarn) }

// FailCount returns the number of failing checks.
func (c TradingChecklist) FailCount() int { return c.count(StatusFail) }

// Signal is the five-tier recommendation.
type Signal string

const (
	SignalStrongBuy  Signal = "STRONG_BUY"
	SignalBuy        Signal = "BUY"
	SignalHold       Signal = "HOLD"
	SignalSell       Signal = "SELL"
	SignalStrongSell Signal = "STRONG_SELL"
)

// Label returns the display label.
func (s Signal) Label() string {
	switch s {
	case SignalStrongBuy:
		return "极具潜力"
	case SignalBuy:
		return "值得关注"
	case SignalHold:
		return "观望"
	case SignalSell:
		return "谨慎对待"
	case SignalStrongSell:
		return "风险较高"
	default:
		return string(s)
	}
}

// ScoreBreakdown holds the per-category sub-scores behind a total.
type ScoreBreakdown struct {
	Trend  int `json:"trend"`
	Risk   int `json:"risk"`
	Timing int `json:"timing"`
	Profit int `json:"profit"`
	Total  int `json:"total"`
}

// StockRecommendation is the analysis result for a single symbol.
type StockRecommendation struct {
	Symbol     string            `json:"symbol"`
	Name       string            `json:"name"`
	Market     Market            `json:"market"`
	Indicators IndicatorSnapshot `json:"indicators"`
	Checklist  TradingChecklist  `json:"checklist"`
	Breakdown  ScoreBreakdown    `json:"breakdown"`
	Score      int               `json:"score"`
	Signal     Signal            `json:"signal"`
	Reasons    []string          `json:"reasons"`
	DataSource string            `json:"data_source"`
}

// MarketOverview summarises a market's session.
type MarketOverview struct {
	Market         Market  `json:"market"`
	Date           string  `json:"date"`
	IndexName      string  `json:"index_name"`
	IndexValue     float64 `json:"index_value"`
	IndexChangePct float64 `json:"index_change_pct"`
	UpCount        int     `json:"up_count"`
	DownCount      int     `json:"down_count"`
	// Turnover is expressed in units of 1e8 of the local currency.
	Turnover float64 `json:"turnover"`
}

// ScanResult is the output of one scan run.
type ScanResult struct {
	Date            string                `json:"date"`
	GeneratedAt     time.Time             `json:"generated_at"`
	Overviews       []MarketOverview      `json:"overviews"`
	Recommendations []StockRecommendation `json:"recommendations"`
	Summary         string                `json:"summary"`
}

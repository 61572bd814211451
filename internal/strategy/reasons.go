package strategy

import (
	"fmt"

	"github.com/mdsiyam69/Clarity/internal/model"
)

// Reasons explains a checklist outcome in display order and closes with the
// key price levels.
func Reasons(s model.IndicatorSnapshot, cl model.TradingChecklist) []string {
	var out []string
	add := func(format string, args ...any) {
		out = append(out, fmt.Sprintf(format, args...))
	}

	switch cl.MAAlignment {
	case model.StatusPass:
		add("✅ 均线多头排列")
	case model.StatusFail:
		add("❌ 均线空头排列")
	}
	switch cl.MACDCross {
	case model.StatusPass:
		add("✅ MACD 金叉向上")
	case model.StatusFail:
		add("❌ MACD 死叉")
	}
	switch cl.TrendStrength {
	case model.StatusPass:
		add("✅ 趋势强劲 ADX=%.1f", s.ADX)
	case model.StatusFail:
		add("⚠️ 震荡格局 ADX=%.1f", s.ADX)
	}

	switch cl.BiasCheck {
	case model.StatusFail:
		if s.Bias > 5 {
			add("❌ 严禁追高！乖离率 %.1f%% > 5%%", s.Bias)
		} else {
			add("❌ 超卖风险，乖离率 %.1f%%", s.Bias)
		}
	case model.StatusWarn:
		add("⚠️ 乖离率偏高 %.1f%%", s.Bias)
	default:
		add("✅ 乖离率安全 %.1f%%", s.Bias)
	}
	if cl.Volatility == model.StatusFail {
		add("⚠️ 波动过大")
	}
	switch cl.VolumeConfirm {
	case model.StatusPass:
		add("✅ 量价配合")
	case model.StatusFail:
		add("❌ 放量下跌，量价背离")
	}

	switch cl.RSIZone {
	case model.StatusPass:
		if s.RSI < 30 {
			add("✅ RSI 超卖 %.0f，存在反弹机会", s.RSI)
		} else {
			add("✅ RSI 健康 %.0f", s.RSI)
		}
	case model.StatusFail:
		add("❌ RSI 超买 %.0f", s.RSI)
	}
	if cl.KDJSignal == model.StatusPass {
		add("✅ KDJ 金叉")
	}
	if cl.SupportDistance == model.StatusPass {
		add("✅ 贴近支撑位 %.2f", s.Support)
	}
	if cl.PullbackEntry == model.StatusPass {
		add("✅ 回踩 MA10 附近")
	}

	switch cl.UpsideSpace {
	case model.StatusPass:
		add("✅ 上涨空间 %.1f%%", upsidePct(cl.TargetPrice, s.Price))
	case model.StatusFail:
		add("⚠️ 上涨空间有限")
	}
	switch cl.RiskReward {
	case model.StatusPass:
		add("✅ 盈亏比 %.1f:1", cl.RiskRewardRatio)
	case model.StatusWarn:
		add("⚠️ 盈亏比 %.1f:1", cl.RiskRewardRatio)
	default:
		add("❌ 盈亏比不足 %.1f:1", cl.RiskRewardRatio)
	}

	out = append(out, "", "📍 **关键点位**")
	add("   买入价: %.2f", cl.EntryPrice)
	add("   止损价: %.2f", cl.StopLoss)
	add("   目标价: %.2f", cl.TargetPrice)
	return out
}

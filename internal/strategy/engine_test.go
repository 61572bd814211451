package strategy

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdsiyam69/Clarity/internal/calculator"
	"github.com/mdsiyam69/Clarity/internal/model"
)

// healthySnapshot passes most rules: bullish MAs, mild bias, RSI in the buy zone.
func healthySnapshot() model.IndicatorSnapshot {
	return model.IndicatorSnapshot{
		Price:       100,
		ChangePct:   1,
		MA5:         99,
		MA10:        99,
		MA20:        98,
		MA60:        95,
		RSI:         45,
		MACD:        0.5,
		MACDSignal:  0.3,
		MACDHist:    0.2,
		KDJK:        60,
		KDJD:        50,
		KDJJ:        70,
		ADX:         30,
		ATR:         2,
		Bias:        2,
		VolumeRatio: 1.2,
		Support:     98,
		Resistance:  115,
		Bars:        60,
	}
}

func TestEvaluate_HealthySetup(t *testing.T) {
	ev := Evaluate(healthySnapshot())
	cl := ev.Checklist

	assert.Equal(t, model.StatusWarn, cl.MAAlignment, "MA5 == MA10 is not strict order")
	assert.Equal(t, model.StatusPass, cl.BiasCheck)
	assert.Equal(t, model.StatusPass, cl.StopLossDefined)
	assert.InDelta(t, 96.0, cl.StopLoss, 1e-9)
	assert.InDelta(t, 115.0, cl.TargetPrice, 1e-9)
	assert.InDelta(t, 15.0/4.0, cl.RiskRewardRatio, 1e-9)
	assert.Equal(t, model.StatusPass, cl.RiskReward)

	assert.Equal(t, ev.Breakdown.Total, ev.Score)
	assert.GreaterOrEqual(t, ev.Score, 80)
	assert.Equal(t, model.SignalStrongBuy, ev.Signal)
}

func TestEvaluate_AscendingSixtyBars(t *testing.T) {
	bars := make(model.PriceHistory, 60)
	c := 100.0
	for i := range bars {
		bars[i] = model.PriceBar{
			Time:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1_000_000,
		}
		c *= 1.002
	}

	ev := Evaluate(calculator.Compute(bars))
	assert.Equal(t, model.StatusPass, ev.Checklist.MAAlignment)
	assert.Equal(t, model.StatusPass, ev.Checklist.BiasCheck)
	assert.GreaterOrEqual(t, ev.Breakdown.Trend, 25)
}

func TestEvaluate_ChasingBias(t *testing.T) {
	s := healthySnapshot()
	s.Bias = 8
	ev := Evaluate(s)
	assert.Equal(t, model.StatusFail, ev.Checklist.BiasCheck)
	assert.Equal(t, 10, ev.Breakdown.Risk)
	assert.Contains(t, ev.Reasons[0:6], "❌ 严禁追高！乖离率 8.0% > 5%")
	assert.Contains(t, []model.Signal{model.SignalHold, model.SignalSell}, ev.Signal)

	// two more failures on top of the bias failure
	s.RSI = 80
	s.KDJK, s.KDJD = 40, 50
	ev = Evaluate(s)
	require.GreaterOrEqual(t, ev.Checklist.FailCount(), 3)
	if ev.Score >= 60 {
		assert.Equal(t, model.SignalHold, ev.Signal)
	} else {
		assert.Equal(t, model.SignalSell, ev.Signal)
	}
}

func TestBuildChecklist_BiasPartition(t *testing.T) {
	tests := []struct {
		bias float64
		want model.CheckStatus
	}{
		{0, model.StatusPass},
		{3, model.StatusPass},
		{-3, model.StatusPass},
		{3.01, model.StatusWarn},
		{5, model.StatusWarn},
		{-5, model.StatusWarn},
		{5.01, model.StatusFail},
		{-8, model.StatusFail},
	}
	for _, tt := range tests {
		s := healthySnapshot()
		s.Bias = tt.bias
		assert.Equal(t, tt.want, BuildChecklist(s).BiasCheck, "bias %.2f", tt.bias)
	}
}

func TestBuildChecklist_Volume(t *testing.T) {
	tests := []struct {
		ratio, change float64
		want          model.CheckStatus
	}{
		{1.0, 0, model.StatusPass},
		{0.8, 2, model.StatusPass},
		{2.0, -1, model.StatusWarn},
		{2.5, 3, model.StatusWarn},
		{3.5, 1, model.StatusWarn},
		{3.5, -1, model.StatusFail},
		{0.5, 1, model.StatusWarn},
	}
	for _, tt := range tests {
		s := healthySnapshot()
		s.VolumeRatio, s.ChangePct = tt.ratio, tt.change
		assert.Equal(t, tt.want, BuildChecklist(s).VolumeConfirm, "ratio %.1f change %.1f", tt.ratio, tt.change)
	}
}

func TestBuildChecklist_RSIZone(t *testing.T) {
	tests := []struct {
		rsi  float64
		want model.CheckStatus
	}{
		{10, model.StatusPass},
		{30, model.StatusPass},
		{50, model.StatusPass},
		{50.5, model.StatusWarn},
		{70, model.StatusWarn},
		{70.1, model.StatusFail},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, checkRSI(tt.rsi), "rsi %.1f", tt.rsi)
	}
}

func TestBuildChecklist_UnknownAndFallbackLevels(t *testing.T) {
	s := model.IndicatorSnapshot{Price: 10, RSI: 50, KDJK: 50, KDJD: 50, KDJJ: 50, VolumeRatio: 1}
	cl := BuildChecklist(s)

	assert.Equal(t, model.StatusUnknown, cl.Volatility)
	assert.Equal(t, model.StatusUnknown, cl.SupportDistance)
	assert.Equal(t, model.StatusUnknown, cl.PullbackEntry)
	assert.Equal(t, model.StatusFail, cl.UpsideSpace)

	assert.Equal(t, model.StatusWarn, cl.StopLossDefined)
	assert.InDelta(t, 9.5, cl.StopLoss, 1e-9)
	assert.InDelta(t, 11.0, cl.TargetPrice, 1e-9)
	assert.InDelta(t, 2.0, cl.RiskRewardRatio, 1e-9)
	assert.Equal(t, model.StatusWarn, cl.RiskReward)

	s.Support = 9
	cl = BuildChecklist(s)
	assert.InDelta(t, 8.82, cl.StopLoss, 1e-9)
}

func TestBuildChecklist_NegativeStop(t *testing.T) {
	s := healthySnapshot()
	s.ATR = 60
	cl := BuildChecklist(s)
	assert.Equal(t, model.StatusWarn, cl.StopLossDefined)
	assert.Less(t, cl.StopLoss, 0.0)
}

func TestBuildChecklist_MACD(t *testing.T) {
	tests := []struct {
		line, sig, hist float64
		want            model.CheckStatus
	}{
		{1, 0.5, 0.5, model.StatusPass},
		{0.5, 1, 0.1, model.StatusWarn},
		{0.5, 1, -0.5, model.StatusFail},
		{1, 1, 0, model.StatusWarn},
	}
	for _, tt := range tests {
		s := healthySnapshot()
		s.MACD, s.MACDSignal, s.MACDHist = tt.line, tt.sig, tt.hist
		assert.Equal(t, tt.want, BuildChecklist(s).MACDCross)
	}
}

func randomChecklist(r *rand.Rand) model.TradingChecklist {
	statuses := []model.CheckStatus{model.StatusPass, model.StatusWarn, model.StatusFail, model.StatusUnknown}
	pick := func() model.CheckStatus { return statuses[r.Intn(len(statuses))] }
	return model.TradingChecklist{
		MAAlignment: pick(), MACDCross: pick(), TrendStrength: pick(), PricePosition: pick(),
		BiasCheck: pick(), Volatility: pick(), VolumeConfirm: pick(), StopLossDefined: pick(),
		RSIZone: pick(), KDJSignal: pick(), SupportDistance: pick(), PullbackEntry: pick(),
		UpsideSpace: pick(), RiskReward: pick(),
	}
}

func TestScore_AlwaysInRange(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		cl := randomChecklist(r)
		b := Score(cl)
		require.GreaterOrEqual(t, b.Total, 0)
		require.LessOrEqual(t, b.Total, 100)
		require.GreaterOrEqual(t, b.Trend, 0)
		require.GreaterOrEqual(t, b.Risk, 0)
		require.GreaterOrEqual(t, b.Timing, 0)
	}
}

func TestScore_OverrideAlwaysCapsSignal(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		cl := randomChecklist(r)
		score := r.Intn(101)
		sig := Classify(score, cl)
		if cl.FailCount() >= 3 || cl.BiasCheck == model.StatusFail {
			require.Contains(t, []model.Signal{model.SignalHold, model.SignalSell}, sig)
		}
	}
}

func TestScore_Extremes(t *testing.T) {
	all := func(s model.CheckStatus) model.TradingChecklist {
		return model.TradingChecklist{
			MAAlignment: s, MACDCross: s, TrendStrength: s, PricePosition: s,
			BiasCheck: s, Volatility: s, VolumeConfirm: s, StopLossDefined: s,
			RSIZone: s, KDJSignal: s, SupportDistance: s, PullbackEntry: s,
			UpsideSpace: s, RiskReward: s,
		}
	}
	best := Score(all(model.StatusPass))
	assert.Equal(t, model.ScoreBreakdown{Trend: 30, Risk: 30, Timing: 25, Profit: 15, Total: 100}, best)

	worst := Score(all(model.StatusFail))
	assert.Equal(t, model.ScoreBreakdown{Trend: 0, Risk: 0, Timing: 0, Profit: 0, Total: 0}, worst)

	warn := Score(all(model.StatusWarn))
	assert.Equal(t, 22, warn.Risk)
	assert.Equal(t, 3, warn.Profit)
}

func TestClassify_Tiers(t *testing.T) {
	passing := func(n int) model.TradingChecklist {
		cl := model.TradingChecklist{
			MAAlignment: model.StatusWarn, MACDCross: model.StatusWarn, TrendStrength: model.StatusWarn,
			PricePosition: model.StatusWarn, BiasCheck: model.StatusWarn, Volatility: model.StatusWarn,
			VolumeConfirm: model.StatusWarn, StopLossDefined: model.StatusWarn, RSIZone: model.StatusWarn,
			KDJSignal: model.StatusWarn, SupportDistance: model.StatusWarn, PullbackEntry: model.StatusWarn,
			UpsideSpace: model.StatusWarn, RiskReward: model.StatusWarn,
		}
		fields := []*model.CheckStatus{
			&cl.MAAlignment, &cl.MACDCross, &cl.TrendStrength, &cl.PricePosition,
			&cl.BiasCheck, &cl.Volatility, &cl.VolumeConfirm, &cl.StopLossDefined,
			&cl.RSIZone, &cl.KDJSignal, &cl.SupportDistance, &cl.PullbackEntry,
			&cl.UpsideSpace, &cl.RiskReward,
		}
		for i := 0; i < n; i++ {
			*fields[i] = model.StatusPass
		}
		return cl
	}

	tests := []struct {
		score  int
		passes int
		want   model.Signal
	}{
		{100, 14, model.SignalStrongBuy},
		{80, 10, model.SignalStrongBuy},
		{80, 9, model.SignalBuy},
		{79, 12, model.SignalBuy},
		{65, 7, model.SignalBuy},
		{65, 6, model.SignalHold},
		{64, 14, model.SignalHold},
		{50, 0, model.SignalHold},
		{49, 14, model.SignalSell},
		{35, 0, model.SignalSell},
		{34, 0, model.SignalStrongSell},
		{0, 0, model.SignalStrongSell},
	}
	for _, tt := range tests {
		got := Classify(tt.score, passing(tt.passes))
		assert.Equal(t, tt.want, got, "score %d passes %d", tt.score, tt.passes)
	}
}

func TestClassify_Override(t *testing.T) {
	cl := model.TradingChecklist{BiasCheck: model.StatusFail}
	assert.Equal(t, model.SignalHold, Classify(95, cl))
	assert.Equal(t, model.SignalHold, Classify(60, cl))
	assert.Equal(t, model.SignalSell, Classify(59, cl))
	assert.Equal(t, model.SignalSell, Classify(10, cl), "override never yields StrongSell")

	cl = model.TradingChecklist{
		MAAlignment: model.StatusFail, MACDCross: model.StatusFail, RSIZone: model.StatusFail,
		BiasCheck: model.StatusPass,
	}
	assert.Equal(t, model.SignalHold, Classify(90, cl))
}

func TestReasons_EndWithKeyLevels(t *testing.T) {
	s := healthySnapshot()
	cl := BuildChecklist(s)
	reasons := Reasons(s, cl)
	require.GreaterOrEqual(t, len(reasons), 5)

	tail := reasons[len(reasons)-5:]
	assert.Equal(t, "", tail[0])
	assert.Equal(t, "📍 **关键点位**", tail[1])
	assert.Equal(t, "   买入价: 100.00", tail[2])
	assert.Equal(t, "   止损价: 96.00", tail[3])
	assert.Equal(t, "   目标价: 115.00", tail[4])
}

func TestReasons_Order(t *testing.T) {
	s := healthySnapshot()
	s.MA5 = 100
	reasons := Reasons(s, BuildChecklist(s))
	assert.Equal(t, "✅ 均线多头排列", reasons[0])
	assert.Equal(t, "✅ MACD 金叉向上", reasons[1])
	assert.Equal(t, "✅ 趋势强劲 ADX=30.0", reasons[2])
	assert.Equal(t, "✅ 乖离率安全 2.0%", reasons[3])
}

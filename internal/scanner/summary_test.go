package scanner

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mdsiyam69/Clarity/internal/model"
)

func TestSummary(t *testing.T) {
	r := &model.ScanResult{
		Date: "2025-01-17",
		Overviews: []model.MarketOverview{
			{Market: model.MarketAShare, IndexName: "上证指数", IndexValue: 3241.82, IndexChangePct: -0.35,
				UpCount: 2000, DownCount: 3000, Turnover: 9876.4},
			{Market: model.MarketUS, IndexName: "纳斯达克综合指数", IndexValue: 19630.2, IndexChangePct: 1.5},
		},
		Recommendations: []model.StockRecommendation{{
			Symbol:     "600519",
			Name:       "贵州茅台",
			Market:     model.MarketAShare,
			Indicators: model.IndicatorSnapshot{Price: 1700.5, ChangePct: 1.234},
			Score:      85,
			Signal:     model.SignalStrongBuy,
			Reasons:    []string{"✅ 均线多头排列", "✅ MACD 金叉向上"},
			DataSource: "tencent",
		}},
	}
	at := time.Date(2025, 1, 17, 15, 30, 5, 0, time.UTC)
	out := Summary(r, at)
	lines := strings.Split(out, "\n")

	assert.Equal(t, "## 📊 2025-01-17 市场扫描报告", lines[0])
	assert.Contains(t, lines, "### 市场概览")
	assert.Contains(t, lines, "- **A股** 上证指数: 3241.82 (↓0.35%)")
	assert.Contains(t, lines, "  - 上涨: 2000 | 下跌: 3000")
	assert.Contains(t, lines, "  - 成交额: 9876亿")
	assert.Contains(t, lines, "- **美股** 纳斯达克综合指数: 19630.20 (↑1.50%)")
	assert.Contains(t, lines, "| 排名 | 代码 | 名称 | 市场 | 现价 | 涨跌幅 | 评分 | 信号 |")
	assert.Contains(t, lines, "| 1 | 600519 | 贵州茅台 | A股 | 1700.50 | +1.23% | 85 | 极具潜力 |")
	assert.Contains(t, lines, "**1. 600519 贵州茅台** (评分: 85)")
	assert.Contains(t, lines, "   - ✅ 均线多头排列")
	assert.Contains(t, lines, "   - 数据来源: tencent")
	assert.Equal(t, "*生成时间: 15:30:05*", lines[len(lines)-1])
	assert.Equal(t, "---", lines[len(lines)-2])
}

func TestSummary_Empty(t *testing.T) {
	out := Summary(&model.ScanResult{Date: "2025-01-17"}, time.Date(2025, 1, 17, 9, 0, 0, 0, time.UTC))
	assert.NotContains(t, out, "市场概览")
	assert.NotContains(t, out, "推荐理由")
	assert.True(t, strings.HasSuffix(out, "---\n*生成时间: 09:00:00*"))
}

func TestSummary_LimitsRows(t *testing.T) {
	r := &model.ScanResult{Date: "2025-01-17"}
	for i := 0; i < 12; i++ {
		r.Recommendations = append(r.Recommendations, model.StockRecommendation{
			Symbol: "S", Market: model.MarketUS, Score: 60, Signal: model.SignalHold,
		})
	}
	out := Summary(r, time.Now())
	assert.Equal(t, 10, strings.Count(out, "| S | "))
	assert.Equal(t, 5, strings.Count(out, "(评分: 60)"))
}

package scanner

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mdsiyam69/Clarity/internal/model"
)

const (
	summaryTableRows  = 10
	summaryReasonRows = 5
)

// Summary renders a scan result as a markdown report.
func Summary(r *model.ScanResult, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## 📊 %s 市场扫描报告\n\n", r.Date)

	if len(r.Overviews) > 0 {
		b.WriteString("### 市场概览\n\n")
		for _, ov := range r.Overviews {
			arrow := "↓"
			if ov.IndexChangePct > 0 {
				arrow = "↑"
			}
			fmt.Fprintf(&b, "- **%s** %s: %.2f (%s%.2f%%)\n",
				ov.Market.Label(), ov.IndexName, ov.IndexValue, arrow, math.Abs(ov.IndexChangePct))
			if ov.UpCount > 0 || ov.DownCount > 0 {
				fmt.Fprintf(&b, "  - 上涨: %d | 下跌: %d\n", ov.UpCount, ov.DownCount)
			}
			if ov.Turnover > 0 {
				fmt.Fprintf(&b, "  - 成交额: %.0f亿\n", ov.Turnover)
			}
		}
		b.WriteString("\n")
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("### Top 10 潜力股推荐\n\n")
		b.WriteString("| 排名 | 代码 | 名称 | 市场 | 现价 | 涨跌幅 | 评分 | 信号 |\n")
		b.WriteString("|------|------|------|------|------|--------|------|------|\n")
		for i, rec := range r.Recommendations {
			if i == summaryTableRows {
				break
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %.2f | %+.2f%% | %d | %s |\n",
				i+1, rec.Symbol, rec.Name, rec.Market.Label(),
				rec.Indicators.Price, rec.Indicators.ChangePct, rec.Score, rec.Signal.Label())
		}
		b.WriteString("\n### 推荐理由\n\n")
		for i, rec := range r.Recommendations {
			if i == summaryReasonRows {
				break
			}
			fmt.Fprintf(&b, "**%d. %s %s** (评分: %d)\n", i+1, rec.Symbol, rec.Name, rec.Score)
			for _, reason := range rec.Reasons {
				fmt.Fprintf(&b, "   - %s\n", reason)
			}
			fmt.Fprintf(&b, "   - 数据来源: %s\n\n", rec.DataSource)
		}
	}

	b.WriteString("---\n")
	fmt.Fprintf(&b, "*生成时间: %s*", at.Format("15:04:05"))
	return b.String()
}

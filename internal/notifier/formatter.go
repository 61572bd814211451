package notifier

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mdsiyam69/Clarity/internal/model"
)

const (
	reportTableRows  = 10
	reportDetailRows = 5
)

var (
	printer = message.NewPrinter(language.English)

	htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	mdBold      = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

// escape makes text safe for Telegram's HTML parse mode and turns
// **bold** markers into <b> tags.
func escape(s string) string {
	return mdBold.ReplaceAllString(htmlEscaper.Replace(s), "<b>$1</b>")
}

func arrow(pct float64) string {
	if pct > 0 {
		return "🔺"
	}
	return "🔻"
}

// FormatScanReport formats a scan result as the daily dashboard message.
func FormatScanReport(r *model.ScanResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>每日决策仪表盘</b> | %s\n\n", r.Date)

	if len(r.Overviews) > 0 {
		b.WriteString("🌍 <b>市场概览</b>\n")
		for _, ov := range r.Overviews {
			b.WriteString(printer.Sprintf("<b>%s</b> %s: %.2f (%s %.2f%%)\n",
				ov.Market.Label(), escape(ov.IndexName), ov.IndexValue,
				arrow(ov.IndexChangePct), math.Abs(ov.IndexChangePct)))
			if ov.UpCount > 0 || ov.DownCount > 0 {
				fmt.Fprintf(&b, "  上涨: %d 家 | 下跌: %d 家\n", ov.UpCount, ov.DownCount)
			}
			if ov.Turnover > 0 {
				b.WriteString(printer.Sprintf("  成交额: %.0f 亿\n", ov.Turnover))
			}
		}
		b.WriteString("\n")
	}

	if len(r.Recommendations) == 0 {
		b.WriteString("⚠️ <b>暂无推荐</b>\n当前市场条件下未找到符合标准的股票。\n\n")
	} else {
		b.WriteString("🎯 <b>Top 10 值得关注</b>\n")
		for i, rec := range r.Recommendations {
			if i == reportTableRows {
				break
			}
			fmt.Fprintf(&b, "%d. <code>%s</code> %s [%s] %.2f %s | <b>%d</b> %s\n",
				i+1, escape(rec.Symbol), escape(rec.Name), rec.Market.Label(),
				rec.Indicators.Price, changeText(rec.Indicators.ChangePct), rec.Score, rec.Signal.Label())
		}
		b.WriteString("\n📝 <b>详细分析</b>\n")
		for i, rec := range r.Recommendations {
			if i == reportDetailRows {
				break
			}
			fmt.Fprintf(&b, "\n<b>%d. %s - %s</b>\n", i+1, escape(rec.Symbol), escape(rec.Name))
			writeDetail(&b, rec)
		}
		b.WriteString("\n")
	}

	b.WriteString("⚠️ <b>风险提示</b>\n")
	b.WriteString("- 以上分析仅供参考，不构成投资建议\n")
	b.WriteString("- 股市有风险，投资需谨慎\n")
	b.WriteString("- 请结合自身风险承受能力做出投资决策\n\n")
	fmt.Fprintf(&b, "<i>报告生成时间: %s</i>", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	return b.String()
}

func changeText(pct float64) string {
	if pct == 0 {
		return "-"
	}
	return fmt.Sprintf("%+.2f%%", pct)
}

func writeDetail(b *strings.Builder, rec model.StockRecommendation) {
	ind := rec.Indicators
	fmt.Fprintf(b, "市场: %s | 评分: %d/100 | 信号: %s\n", rec.Market.Label(), rec.Score, rec.Signal.Label())
	fmt.Fprintf(b, "现价: %.2f | MA5: %.2f | MA10: %.2f | MA20: %.2f\n", ind.Price, ind.MA5, ind.MA10, ind.MA20)
	fmt.Fprintf(b, "RSI: %.1f | 量比: %.2f\n", ind.RSI, ind.VolumeRatio)
	for _, reason := range rec.Reasons {
		if reason == "" {
			b.WriteString("\n")
			continue
		}
		fmt.Fprintf(b, "• %s\n", escape(strings.TrimSpace(reason)))
	}
	fmt.Fprintf(b, "<i>数据来源: %s</i>\n", escape(rec.DataSource))
}

// FormatRecommendation formats a single-symbol analysis with its checklist.
func FormatRecommendation(rec *model.StockRecommendation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔎 <b>%s %s</b>\n", escape(rec.Symbol), escape(rec.Name))
	writeDetail(&b, *rec)

	cl := rec.Checklist
	fmt.Fprintf(&b, "\n📋 <b>检查清单</b> ✅%d ⚠️%d ❌%d\n", cl.PassCount(), cl.WarnCount(), cl.FailCount())
	for _, it := range cl.Items() {
		fmt.Fprintf(&b, "%s %s\n", it.Status.Mark(), it.Name)
	}
	bd := rec.Breakdown
	fmt.Fprintf(&b, "\n趋势 %d | 风险 %d | 时机 %d | 空间 %d", bd.Trend, bd.Risk, bd.Timing, bd.Profit)
	return b.String()
}

// FormatError formats a failed command.
func FormatError(what string, err error) string {
	return fmt.Sprintf("❌ %s: %s", escape(what), escape(err.Error()))
}

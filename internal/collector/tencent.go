package collector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mdsiyam69/Clarity/internal/model"
)

const tencentKlineURL = "https://web.ifzq.gtimg.cn"

// TencentFetcher reads forward-adjusted daily klines from Tencent's
// fqkline endpoint. It covers A-share and HK symbols.
type TencentFetcher struct {
	HTTP    *HTTPClient
	BaseURL string
}

func NewTencentFetcher(client *HTTPClient) *TencentFetcher {
	return &TencentFetcher{HTTP: client, BaseURL: tencentKlineURL}
}

func (f *TencentFetcher) Name() string { return "tencent" }

type tencentKline struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data map[string]struct {
		QfqDay [][]interface{} `json:"qfqday"`
		Day    [][]interface{} `json:"day"`
	} `json:"data"`
}

func (f *TencentFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) (model.PriceHistory, error) {
	if DetectMarket(symbol) == model.MarketUS {
		return nil, fmt.Errorf("tencent %s: %w", symbol, ErrUnsupportedSymbol)
	}
	code := TencentCode(symbol)
	u := fmt.Sprintf("%s/appstock/app/fqkline/get?param=%s,day,,,%d,qfq", f.BaseURL, code, days)

	var resp tencentKline
	if err := f.HTTP.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("tencent fetch: %w", err)
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("tencent api error: code %d %s", resp.Code, resp.Msg)
	}
	entry, ok := resp.Data[code]
	if !ok {
		return nil, fmt.Errorf("tencent %s: %w", symbol, ErrNoData)
	}
	rows := entry.QfqDay
	if len(rows) == 0 {
		rows = entry.Day
	}

	bars := make(model.PriceHistory, 0, len(rows))
	for _, row := range rows {
		bar, err := parseTencentRow(row)
		if err != nil {
			continue
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("tencent %s: %w", symbol, ErrNoData)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars.Tail(days), nil
}

// parseTencentRow decodes [date, open, close, high, low, volume, ...].
func parseTencentRow(row []interface{}) (model.PriceBar, error) {
	if len(row) < 6 {
		return model.PriceBar{}, fmt.Errorf("short row: %d fields", len(row))
	}
	date, _ := row[0].(string)
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return model.PriceBar{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	return model.PriceBar{
		Time:   t,
		Open:   toFloat(row[1]),
		Close:  toFloat(row[2]),
		High:   toFloat(row[3]),
		Low:    toFloat(row[4]),
		Volume: toFloat(row[5]),
	}, nil
}

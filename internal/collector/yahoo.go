package collector

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/mdsiyam69/Clarity/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
// It covers US and HK symbols and the benchmark indices.
type YahooFetcher struct {
	HTTP      *HTTPClient
	BaseURL   string
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(client *HTTPClient) *YahooFetcher {
	return &YahooFetcher{
		HTTP:    client,
		BaseURL: yahooBaseURL,
		SymbolMap: map[string]string{
			"IXIC":   "^IXIC",
			"NASDAQ": "^IXIC",
			"HSI":    "^HSI",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return YahooTicker(symbol)
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol string `json:"symbol"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return 0
}

func at(vals []interface{}, i int) float64 {
	if i >= len(vals) {
		return 0
	}
	return toFloat(vals[i])
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) (model.PriceHistory, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), interval, rng)

	var chart yahooChart
	if err := f.HTTP.GetJSON(ctx, u, &chart); err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make(model.PriceHistory, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := at(quote.Open, i)
		h := at(quote.High, i)
		l := at(quote.Low, i)
		c := at(quote.Close, i)
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // null bars on holidays
		}
		bars = append(bars, model.PriceBar{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: at(quote.Volume, i),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// yahooRange picks the smallest chart range holding the requested trading days.
func yahooRange(days int) string {
	switch {
	case days <= 5:
		return "5d"
	case days <= 20:
		return "1mo"
	case days <= 60:
		return "3mo"
	case days <= 120:
		return "6mo"
	case days <= 250:
		return "1y"
	}
	return "2y"
}

func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) (model.PriceHistory, error) {
	bars, err := f.fetchChart(ctx, symbol, "1d", yahooRange(days))
	if err != nil {
		return nil, err
	}
	return bars.Tail(days), nil
}

// IndexQuote returns the latest close of an index and its change from the
// previous close.
func (f *YahooFetcher) IndexQuote(ctx context.Context, code string) (model.IndexQuote, error) {
	bars, err := f.fetchChart(ctx, code, "1d", "5d")
	if err != nil {
		return model.IndexQuote{}, err
	}
	if len(bars) == 0 {
		return model.IndexQuote{}, fmt.Errorf("yahoo %s: %w", code, ErrNoData)
	}
	q := model.IndexQuote{Code: code, Value: bars[len(bars)-1].Close}
	if len(bars) >= 2 {
		if prev := bars[len(bars)-2].Close; prev > 0 {
			q.ChangePct = (q.Value - prev) / prev * 100
		}
	}
	return q, nil
}

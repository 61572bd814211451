package model

import (
	"fmt"
	"strings"
	"time"
)

// MinHistoryBars is the shortest history the scanner will analyse.
const MinHistoryBars = 20

// PriceBar represents a single daily candlestick.
type PriceBar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceHistory is an ascending-by-date series of daily bars.
type PriceHistory []PriceBar

// Closes returns the close column.
func (h PriceHistory) Closes() []float64 {
	out := make([]float64, len(h))
	for i, b := range h {
		out[i] = b.Close
	}
	return out
}

// Highs returns the high column.
func (h PriceHistory) Highs() []float64 {
	out := make([]float64, len(h))
	for i, b := range h {
		out[i] = b.High
	}
	return out
}

// Lows returns the low column.
func (h PriceHistory) Lows() []float64 {
	out := make([]float64, len(h))
	for i, b := range h {
		out[i] = b.Low
	}
	return out
}

// Volumes returns the volume column.
func (h PriceHistory) Volumes() []float64 {
	out := make([]float64, len(h))
	for i, b := range h {
		out[i] = b.Volume
	}
	return out
}

// Last returns the most recent bar and false when the history is empty.
func (h PriceHistory) Last() (PriceBar, bool) {
	if len(h) == 0 {
		return PriceBar{}, false
	}
	return h[len(h)-1], true
}

// Tail returns at most the last n bars.
func (h PriceHistory) Tail(n int) PriceHistory {
	if n <= 0 || len(h) <= n {
		return h
	}
	return h[len(h)-n:]
}

// Market tags the exchange group a symbol belongs to.
type Market string

const (
	MarketAShare Market = "A_SHARE"
	MarketUS     Market = "US"
	MarketHK     Market = "HK"
)

// DefaultMarkets are scanned when the caller names none.
var DefaultMarkets = []Market{MarketAShare, MarketUS}

// Label returns the display name used in reports.
func (m Market) Label() string {
	switch m {
	case MarketAShare:
		return "A股"
	case MarketUS:
		return "美股"
	case MarketHK:
		return "港股"
	default:
		return string(m)
	}
}

// ParseMarket accepts the canonical tag, common aliases and the Chinese labels.
func ParseMarket(s string) (Market, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a_share", "a", "ashare", "cn", "a股":
		return MarketAShare, nil
	case "us", "美股":
		return MarketUS, nil
	case "hk", "港股":
		return MarketHK, nil
	}
	return "", fmt.Errorf("unknown market %q", s)
}

// ParseMarkets parses a list of market names, skipping blanks.
func ParseMarkets(names []string) ([]Market, error) {
	out := make([]Market, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		m, err := ParseMarket(n)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// SpotQuote is one row of a current-session listing.
type SpotQuote struct {
	Code      string
	Name      string
	Price     float64
	ChangePct float64
	Turnover  float64
}

// IndexQuote is the latest value of a benchmark index.
type IndexQuote struct {
	Code      string
	Name      string
	Value     float64
	ChangePct float64
}

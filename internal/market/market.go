// Package market discovers the candidate universe of each market and reads
// its session overview. Every market is a Variant registered in a Registry.
package market

import (
	"context"
	"errors"
	"math"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/mdsiyam69/Clarity/internal/fallback"
	"github.com/mdsiyam69/Clarity/internal/model"
)

var errEmptyUniverse = errors.New("empty universe")

// Static lists used when discovery fails outright.
var (
	FallbackAShare = []string{"600519", "000858", "601318", "600036", "000001", "300750"}
	FallbackHK     = []string{"00700", "09988", "03690", "01810", "02020"}
	FallbackUS     = []string{"AAPL", "MSFT", "NVDA", "GOOGL", "AMZN", "META", "TSLA"}
)

// Default discovery limits.
const (
	DefaultLimitAShare = 50
	DefaultLimitUS     = 50
	DefaultLimitHK     = 30
)

// IndexSource returns the latest value of an index.
type IndexSource interface {
	IndexQuote(ctx context.Context, code string) (model.IndexQuote, error)
}

// Feed is the listing provider behind discovery and overviews.
type Feed interface {
	IndexSource
	Spot(ctx context.Context, market model.Market) ([]model.SpotQuote, error)
	NotableActivity(ctx context.Context) ([]string, error)
}

// HistoryProvider returns daily bars and their provenance. It never fails;
// an unavailable symbol yields an empty history.
type HistoryProvider interface {
	DailyHistory(ctx context.Context, symbol string, days int) (model.PriceHistory, string)
}

// NameSink receives names that arrive with a listing.
type NameSink interface {
	Put(symbol, name string)
}

// Variant is one market's discovery and overview strategy.
type Variant interface {
	Market() model.Market
	// Discover never fails and never returns an empty list. A non-positive
	// limit selects the variant's default.
	Discover(ctx context.Context, limit int) []string
	Overview(ctx context.Context) (*model.MarketOverview, error)
}

// Deps are the collaborators shared by the variants.
type Deps struct {
	Feed    Feed
	Index   IndexSource
	History HistoryProvider
	Names   NameSink
	// HistoryDays is the window requested when ranking by recent change.
	// Matching the scan's window lets a bar cache serve the later analysis.
	HistoryDays int
	Log         zerolog.Logger
	Observer    fallback.Observer
	Now         func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) date() string { return d.now().Format("2006-01-02") }

func (d Deps) historyDays() int {
	if d.HistoryDays > 0 {
		return d.HistoryDays
	}
	return 5
}

func (d Deps) putName(code, name string) {
	if d.Names != nil {
		d.Names.Put(code, name)
	}
}

// discover wraps a primary discovery path with the static fallback list.
func (d Deps) discover(what string, primary func() ([]string, error), static []string) []string {
	return fallback.DoObserved(d.Log, d.Observer, what, func() ([]string, error) {
		out, err := primary()
		if err != nil {
			return nil, err
		}
		if len(out) == 0 {
			return nil, errEmptyUniverse
		}
		return out, nil
	}, func() []string { return slices.Clone(static) })
}

// Registry maps each market to its variant.
type Registry map[model.Market]Variant

// NewRegistry indexes variants by their market.
func NewRegistry(variants ...Variant) Registry {
	r := make(Registry, len(variants))
	for _, v := range variants {
		r[v.Market()] = v
	}
	return r
}

// DefaultRegistry builds the A-share, US and HK variants over d.
func DefaultRegistry(d Deps) Registry {
	return NewRegistry(NewAShare(d), NewUS(d), NewHK(d))
}

// Get returns the variant for m.
func (r Registry) Get(m model.Market) (Variant, bool) {
	v, ok := r[m]
	return v, ok
}

// topBy returns up to n codes ordered by key descending. Ties keep listing order.
func topBy(rows []model.SpotQuote, n int, key func(model.SpotQuote) float64) []string {
	if n <= 0 {
		return nil
	}
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b model.SpotQuote) int {
		ka, kb := key(a), key(b)
		switch {
		case ka > kb:
			return -1
		case ka < kb:
			return 1
		}
		return 0
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]string, len(sorted))
	for i, r := range sorted {
		out[i] = r.Code
	}
	return out
}

// appendUnique appends codes not already present in seen.
func appendUnique(dst []string, seen map[string]bool, codes ...string) []string {
	for _, c := range codes {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		dst = append(dst, c)
	}
	return dst
}

func truncate(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }

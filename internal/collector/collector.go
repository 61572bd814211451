package collector

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mdsiyam69/Clarity/internal/barstore"
	"github.com/mdsiyam69/Clarity/internal/model"
)

// cacheSuffix marks a provenance tag served from the bar store.
const cacheSuffix = "+cache"

// FetchObserver is told about every fetch attempt.
type FetchObserver interface {
	HistoryFetched(source string, ok bool)
}

// Collector resolves daily histories through a per-market chain of fetchers,
// the first non-empty answer winning, with a read-through bar store in front.
type Collector struct {
	chains map[model.Market][]Fetcher
	store  barstore.Store
	obs    FetchObserver
	log    zerolog.Logger
}

// NewCollector creates a Collector with empty chains and no cache.
func NewCollector(log zerolog.Logger) *Collector {
	return &Collector{
		chains: make(map[model.Market][]Fetcher),
		store:  barstore.NewNoopStore(),
		log:    log,
	}
}

// Use appends fetchers to the chain for market.
func (c *Collector) Use(market model.Market, fetchers ...Fetcher) *Collector {
	c.chains[market] = append(c.chains[market], fetchers...)
	return c
}

// WithStore sets the bar cache.
func (c *Collector) WithStore(s barstore.Store) *Collector {
	if s != nil {
		c.store = s
	}
	return c
}

// WithObserver sets the fetch observer.
func (c *Collector) WithObserver(o FetchObserver) *Collector {
	c.obs = o
	return c
}

// DailyHistory returns up to days bars for symbol and the name of the source
// that produced them. It never fails: an unknown symbol or a fully failed
// chain yields an empty history and an empty source.
func (c *Collector) DailyHistory(ctx context.Context, symbol string, days int) (model.PriceHistory, string) {
	if e, err := c.store.Get(ctx, symbol); err != nil {
		c.log.Debug().Err(err).Str("symbol", symbol).Msg("bar cache read failed")
	} else if e != nil && (e.Days >= days || len(e.Bars) >= days) {
		return e.Bars.Tail(days), e.Source + cacheSuffix
	}

	market := DetectMarket(symbol)
	for _, f := range c.chains[market] {
		bars, err := f.FetchDailyBars(ctx, symbol, days)
		ok := err == nil && len(bars) > 0
		if c.obs != nil {
			c.obs.HistoryFetched(f.Name(), ok)
		}
		if !ok {
			c.log.Debug().Err(err).Str("symbol", symbol).Str("source", f.Name()).Msg("fetch failed, trying next source")
			continue
		}
		if err := c.store.Put(ctx, symbol, f.Name(), days, bars); err != nil {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("bar cache write failed")
		}
		return bars, f.Name()
	}
	return nil, ""
}

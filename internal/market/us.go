package market

import (
	"context"
	"fmt"

	"github.com/mdsiyam69/Clarity/internal/model"
)

const (
	nasdaqComposite     = "^IXIC"
	nasdaqCompositeName = "纳斯达克综合指数"
)

// USUniverse is the fixed reference universe ranked by recent change.
var USUniverse = []string{
	// mega-cap tech
	"AAPL", "MSFT", "NVDA", "GOOGL", "GOOG", "AMZN", "META", "TSLA",
	// semiconductors
	"AVGO", "AMD", "QCOM", "INTC", "TXN", "MU", "AMAT", "LRCX",
	// software / cloud
	"CRM", "ORCL", "ADBE", "NOW", "INTU", "SNOW", "PANW", "CRWD",
	// financials
	"JPM", "V", "MA", "BAC", "WFC", "GS", "MS", "BLK",
	// consumer
	"WMT", "COST", "HD", "MCD", "NKE", "SBUX", "TGT", "LOW",
	// healthcare
	"UNH", "JNJ", "LLY", "PFE", "ABBV", "MRK", "TMO", "ABT",
	// energy
	"XOM", "CVX", "COP", "SLB", "EOG",
	// other
	"BRK-B", "PG", "KO", "PEP", "DIS", "NFLX", "PYPL",
}

// US ranks the reference universe by its latest one-session change.
type US struct {
	Deps
	Universe []string
}

func NewUS(d Deps) *US { return &US{Deps: d, Universe: USUniverse} }

func (u *US) Market() model.Market { return model.MarketUS }

func (u *US) Discover(ctx context.Context, limit int) []string {
	if limit <= 0 {
		limit = DefaultLimitUS
	}
	return u.discover("discover.us", func() ([]string, error) {
		return u.movers(ctx, limit)
	}, FallbackUS)
}

func (u *US) movers(ctx context.Context, limit int) ([]string, error) {
	if u.History == nil {
		return nil, fmt.Errorf("us: no history provider")
	}
	candidates := truncate(u.Universe, 2*limit)
	rows := make([]model.SpotQuote, 0, len(candidates))
	for _, ticker := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bars, _ := u.History.DailyHistory(ctx, ticker, u.historyDays())
		if len(bars) < 2 {
			continue
		}
		rows = append(rows, model.SpotQuote{Code: ticker, ChangePct: lastChange(bars)})
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("us: no history for %d tickers", len(candidates))
	}
	out := topBy(rows, limit, func(q model.SpotQuote) float64 { return q.ChangePct })
	u.Log.Info().Int("count", len(out)).Msg("us hot list ranked by change")
	return out, nil
}

func lastChange(bars model.PriceHistory) float64 {
	n := len(bars)
	if n < 2 || bars[n-2].Close <= 0 {
		return 0
	}
	return (bars[n-1].Close - bars[n-2].Close) / bars[n-2].Close * 100
}

// Overview reads the NASDAQ Composite.
func (u *US) Overview(ctx context.Context) (*model.MarketOverview, error) {
	return indexOverview(ctx, u.Deps, model.MarketUS, nasdaqComposite, nasdaqCompositeName)
}

func indexOverview(ctx context.Context, d Deps, m model.Market, code, name string) (*model.MarketOverview, error) {
	if d.Index == nil {
		return nil, fmt.Errorf("%s: no index source", m)
	}
	q, err := d.Index.IndexQuote(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s index %s: %w", m, code, err)
	}
	return &model.MarketOverview{
		Market:         m,
		Date:           d.date(),
		IndexName:      name,
		IndexValue:     q.Value,
		IndexChangePct: round2(q.ChangePct),
	}, nil
}

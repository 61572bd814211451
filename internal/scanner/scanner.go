// Package scanner runs discovery, history retrieval and evaluation across
// markets and ranks the qualifying candidates.
package scanner

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mdsiyam69/Clarity/internal/calculator"
	"github.com/mdsiyam69/Clarity/internal/collector"
	"github.com/mdsiyam69/Clarity/internal/fallback"
	"github.com/mdsiyam69/Clarity/internal/market"
	"github.com/mdsiyam69/Clarity/internal/metrics"
	"github.com/mdsiyam69/Clarity/internal/model"
	"github.com/mdsiyam69/Clarity/internal/names"
	"github.com/mdsiyam69/Clarity/internal/strategy"
)

// ErrInsufficientData means the symbol has fewer than model.MinHistoryBars bars.
var ErrInsufficientData = errors.New("insufficient history")

const (
	DefaultTopN        = 10
	DefaultHistoryDays = 60
	// DefaultMinScore is the pool floor: candidates below it are never ranked.
	DefaultMinScore = 50
)

// HistoryProvider returns daily bars and the name of the source that served
// them. It never fails; an unavailable symbol yields an empty history.
type HistoryProvider interface {
	DailyHistory(ctx context.Context, symbol string, days int) (model.PriceHistory, string)
}

// Scanner ranks trade candidates across markets. Candidates are analysed one
// at a time.
type Scanner struct {
	markets market.Registry
	history HistoryProvider
	names   *names.Cache
	metrics *metrics.Recorder
	log     zerolog.Logger
	now     func() time.Time

	historyDays int
	minScore    int
	limits      map[model.Market]int

	// hotLists keeps the last discovered universe per market. It is written
	// after every discovery but nothing reads it yet.
	mu       sync.Mutex
	hotLists map[model.Market][]string
}

// Option configures a Scanner.
type Option func(*Scanner)

func WithLogger(log zerolog.Logger) Option { return func(s *Scanner) { s.log = log } }

func WithMetrics(m *metrics.Recorder) Option { return func(s *Scanner) { s.metrics = m } }

func WithClock(now func() time.Time) Option { return func(s *Scanner) { s.now = now } }

// WithHistoryDays sets the window fetched per candidate.
func WithHistoryDays(days int) Option {
	return func(s *Scanner) {
		if days > 0 {
			s.historyDays = days
		}
	}
}

// WithMinScore raises the pool floor. Values below DefaultMinScore are ignored.
func WithMinScore(score int) Option {
	return func(s *Scanner) {
		if score >= DefaultMinScore {
			s.minScore = score
		}
	}
}

// WithLimits overrides the per-market discovery limits.
func WithLimits(limits map[model.Market]int) Option {
	return func(s *Scanner) {
		for m, n := range limits {
			s.limits[m] = n
		}
	}
}

// New builds a Scanner. A nil name cache makes every symbol its own name.
func New(markets market.Registry, history HistoryProvider, nameCache *names.Cache, opts ...Option) *Scanner {
	s := &Scanner{
		markets:     markets,
		history:     history,
		names:       nameCache,
		log:         zerolog.Nop(),
		now:         time.Now,
		historyDays: DefaultHistoryDays,
		minScore:    DefaultMinScore,
		limits: map[model.Market]int{
			model.MarketAShare: market.DefaultLimitAShare,
			model.MarketUS:     market.DefaultLimitUS,
			model.MarketHK:     market.DefaultLimitHK,
		},
		hotLists: make(map[model.Market][]string),
	}
	for _, o := range opts {
		o(s)
	}
	if s.names == nil {
		s.names = names.NewCache(nil)
	}
	return s
}

// Scan scans markets (DefaultMarkets when empty) and returns the topN
// qualifying candidates, best first. It never fails: unknown markets,
// unavailable data and per-symbol errors are logged and skipped.
func (s *Scanner) Scan(ctx context.Context, markets []model.Market, topN int) *model.ScanResult {
	start := s.now()
	if len(markets) == 0 {
		markets = model.DefaultMarkets
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	result := &model.ScanResult{
		Date:        start.Format("2006-01-02"),
		GeneratedAt: start,
	}
	var pool []model.StockRecommendation

	for _, m := range markets {
		v, ok := s.markets.Get(m)
		if !ok {
			s.log.Warn().Str("market", string(m)).Msg("unknown market, skipped")
			continue
		}
		log := s.log.With().Str("market", string(m)).Logger()
		log.Info().Msg("scanning market")

		ov := fallback.DoObserved(log, s.metrics, "overview", func() (*model.MarketOverview, error) {
			return v.Overview(ctx)
		}, fallback.Value[*model.MarketOverview](nil))
		if ov != nil {
			result.Overviews = append(result.Overviews, *ov)
		}

		codes := v.Discover(ctx, s.limits[m])
		s.rememberHotList(m, codes)
		log.Info().Int("candidates", len(codes)).Msg("universe discovered")

		qualified := s.scanCandidates(ctx, m, codes)
		log.Info().Int("qualified", len(qualified)).Msg("market scanned")
		pool = append(pool, qualified...)
	}

	pool = rankPool(pool, topN)
	result.Recommendations = pool
	result.Summary = Summary(result, s.now())

	s.metrics.ScanFinished(s.now().Sub(start))
	s.log.Info().Int("recommendations", len(pool)).Msg("scan finished")
	return result
}

func (s *Scanner) scanCandidates(ctx context.Context, m model.Market, codes []string) []model.StockRecommendation {
	var out []model.StockRecommendation
	for _, code := range codes {
		if ctx.Err() != nil {
			s.log.Warn().Err(ctx.Err()).Str("market", string(m)).Msg("scan interrupted")
			break
		}
		log := s.log.With().Str("symbol", code).Logger()
		rec := fallback.DoObserved(log, s.metrics, "analyze", func() (*model.StockRecommendation, error) {
			rec, err := s.Analyze(ctx, code, m)
			if errors.Is(err, ErrInsufficientData) {
				log.Debug().Err(err).Msg("skipped")
				s.metrics.SymbolSkipped(string(m), "insufficient_history")
				return nil, nil
			}
			return rec, err
		}, fallback.Value[*model.StockRecommendation](nil))
		if rec == nil {
			continue
		}

		qualified := s.qualifies(rec.Score)
		s.metrics.SymbolScored(string(m), code, string(rec.Signal), rec.Score, qualified)
		if qualified {
			out = append(out, *rec)
		}
	}
	return out
}

func (s *Scanner) qualifies(score int) bool {
	return score >= max(s.minScore, DefaultMinScore)
}

// rankPool orders candidates best first, keeping discovery order among equal
// scores, and keeps at most topN.
func rankPool(pool []model.StockRecommendation, topN int) []model.StockRecommendation {
	slices.SortStableFunc(pool, func(a, b model.StockRecommendation) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(pool) > topN {
		pool = pool[:topN]
	}
	return pool
}

// Analyze evaluates a single symbol. An empty market is inferred from the
// symbol's shape.
func (s *Scanner) Analyze(ctx context.Context, symbol string, m model.Market) (*model.StockRecommendation, error) {
	if m == "" {
		m = collector.DetectMarket(symbol)
	}
	bars, source := s.history.DailyHistory(ctx, symbol, s.historyDays)
	if len(bars) < model.MinHistoryBars {
		return nil, fmt.Errorf("%s: %d bars: %w", symbol, len(bars), ErrInsufficientData)
	}

	snap := calculator.Compute(bars)
	ev := strategy.Evaluate(snap)
	s.metrics.SymbolAnalysed(string(m))

	return &model.StockRecommendation{
		Symbol:     symbol,
		Name:       s.name(ctx, symbol, m),
		Market:     m,
		Indicators: snap,
		Checklist:  ev.Checklist,
		Breakdown:  ev.Breakdown,
		Score:      ev.Score,
		Signal:     ev.Signal,
		Reasons:    ev.Reasons,
		DataSource: source,
	}, nil
}

func (s *Scanner) name(ctx context.Context, symbol string, m model.Market) string {
	if m == model.MarketUS {
		return symbol
	}
	return s.names.Name(ctx, symbol)
}

func (s *Scanner) rememberHotList(m model.Market, codes []string) {
	s.mu.Lock()
	s.hotLists[m] = slices.Clone(codes)
	s.mu.Unlock()
}

package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdsiyam69/Clarity/internal/model"
)

type stubFeed struct {
	spot      map[model.Market][]model.SpotQuote
	spotErr   error
	index     map[string]model.IndexQuote
	indexErr  error
	notable   []string
	notableEr error
}

func (f *stubFeed) Spot(_ context.Context, m model.Market) ([]model.SpotQuote, error) {
	if f.spotErr != nil {
		return nil, f.spotErr
	}
	return f.spot[m], nil
}

func (f *stubFeed) IndexQuote(_ context.Context, code string) (model.IndexQuote, error) {
	if f.indexErr != nil {
		return model.IndexQuote{}, f.indexErr
	}
	q, ok := f.index[code]
	if !ok {
		return model.IndexQuote{}, errors.New("no such index")
	}
	return q, nil
}

func (f *stubFeed) NotableActivity(context.Context) ([]string, error) {
	return f.notable, f.notableEr
}

type stubHistory map[string]model.PriceHistory

func (h stubHistory) DailyHistory(_ context.Context, symbol string, days int) (model.PriceHistory, string) {
	bars, ok := h[symbol]
	if !ok {
		return nil, ""
	}
	return bars.Tail(days), "stub"
}

type nameMap map[string]string

func (n nameMap) Put(symbol, name string) { n[symbol] = name }

type fallbackCounter map[string]int

func (c fallbackCounter) FallbackUsed(component string) { c[component]++ }

func closes(vals ...float64) model.PriceHistory {
	h := make(model.PriceHistory, len(vals))
	for i, v := range vals {
		h[i] = model.PriceBar{Close: v}
	}
	return h
}

var fixedNow = func() time.Time { return time.Date(2025, 1, 17, 15, 0, 0, 0, time.UTC) }

func deps(feed Feed, hist HistoryProvider) Deps {
	return Deps{Feed: feed, Index: feed, History: hist, Log: zerolog.Nop(), Now: fixedNow}
}

func TestAShare_Discover(t *testing.T) {
	feed := &stubFeed{
		spot: map[model.Market][]model.SpotQuote{model.MarketAShare: {
			{Code: "600519", Name: "贵州茅台", Turnover: 9e9, ChangePct: 1.0},
			{Code: "000001", Name: "平安银行", Turnover: 8e9, ChangePct: 2.0},
			{Code: "600001", Name: "*ST海润", Turnover: 99e9, ChangePct: 5.0},
			{Code: "301999", Name: "N新股", Turnover: 50e9, ChangePct: 300},
			{Code: "000002", Name: "万科A", Turnover: 1e9, ChangePct: 9.95},
			{Code: "000003", Name: "小盘股", Turnover: 1e6, ChangePct: 8.0},
			{Code: "000004", Name: "跌股", Turnover: 2e6, ChangePct: -3.0},
		}},
		notable: []string{"000003", "002594"},
	}
	names := nameMap{}
	d := deps(feed, nil)
	d.Names = names

	got := NewAShare(d).Discover(context.Background(), 6)

	// limit/2 = 3 by turnover, limit/3 = 2 gainers in (0, 9.9), then the board.
	assert.Equal(t, []string{"600519", "000001", "000002", "000003", "002594"}, got)
	assert.Equal(t, "贵州茅台", names["600519"])
}

func TestAShare_DiscoverTruncatesToLimit(t *testing.T) {
	feed := &stubFeed{
		spot: map[model.Market][]model.SpotQuote{model.MarketAShare: {
			{Code: "600519", Name: "贵州茅台", Turnover: 9e9, ChangePct: 1.0},
			{Code: "000001", Name: "平安银行", Turnover: 8e9, ChangePct: 2.0},
		}},
		notable: []string{"000100", "000200", "000300", "000400"},
	}
	got := NewAShare(deps(feed, nil)).Discover(context.Background(), 4)
	assert.Len(t, got, 4)
	assert.Equal(t, "600519", got[0])
}

func TestAShare_NotableActivityFailureIgnored(t *testing.T) {
	feed := &stubFeed{
		spot: map[model.Market][]model.SpotQuote{model.MarketAShare: {
			{Code: "600519", Name: "贵州茅台", Turnover: 9e9, ChangePct: 1.0},
		}},
		notableEr: errors.New("board down"),
	}
	obs := fallbackCounter{}
	d := deps(feed, nil)
	d.Observer = obs
	got := NewAShare(d).Discover(context.Background(), 10)
	assert.Equal(t, []string{"600519"}, got)
	assert.Empty(t, obs)
}

func TestDiscover_FallbackListsExact(t *testing.T) {
	down := &stubFeed{spotErr: errors.New("feed down"), notableEr: errors.New("feed down")}
	obs := fallbackCounter{}
	d := deps(down, nil)
	d.Observer = obs
	ctx := context.Background()

	assert.Equal(t, []string{"600519", "000858", "601318", "600036", "000001", "300750"},
		NewAShare(d).Discover(ctx, 50))
	assert.Equal(t, 1, obs["discover.a_share"])

	// No history provider at all.
	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA", "GOOGL", "AMZN", "META", "TSLA"},
		NewUS(d).Discover(ctx, 50))
	assert.Equal(t, 1, obs["discover.us"])

	hk := NewHK(d)
	hk.Feed = nil
	got := hk.Discover(ctx, 30)
	assert.Equal(t, HKConstituents, got, "listing failure uses the index constituents")
}

func TestDiscover_FallbackIsACopy(t *testing.T) {
	d := deps(&stubFeed{spotErr: errors.New("down")}, nil)
	got := NewAShare(d).Discover(context.Background(), 50)
	got[0] = "changed"
	assert.Equal(t, "600519", FallbackAShare[0])
}

func TestUS_DiscoverRanksByChange(t *testing.T) {
	hist := stubHistory{
		"AAA": closes(100, 101), // +1%
		"BBB": closes(100, 105), // +5%
		"CCC": closes(100, 98),  // -2%
		// DDD missing, EEE has a single bar: both skipped
		"EEE": closes(50),
		"FFF": closes(10, 20),
	}
	u := NewUS(deps(nil, hist))
	u.Universe = []string{"AAA", "BBB", "CCC", "DDD", "EEE", "FFF"}

	// Only the first 2*limit tickers are considered.
	got := u.Discover(context.Background(), 2)
	assert.Equal(t, []string{"BBB", "AAA"}, got)

	got = u.Discover(context.Background(), 3)
	assert.Equal(t, []string{"FFF", "BBB", "AAA"}, got)

	// DDD and EEE never enter the list.
	got = u.Discover(context.Background(), 5)
	assert.Equal(t, []string{"FFF", "BBB", "AAA", "CCC"}, got)
}

func TestUS_EmptyHistoriesFallBack(t *testing.T) {
	obs := fallbackCounter{}
	d := deps(nil, stubHistory{})
	d.Observer = obs
	got := NewUS(d).Discover(context.Background(), 50)
	assert.Equal(t, FallbackUS, got)
	assert.Equal(t, 1, obs["discover.us"])

	single := stubHistory{"AAPL": closes(180), "MSFT": closes(400)}
	got = NewUS(deps(nil, single)).Discover(context.Background(), 50)
	assert.Equal(t, FallbackUS, got)
}

func TestUS_CancelledContextFallsBack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := NewUS(deps(nil, stubHistory{})).Discover(ctx, 5)
	assert.Equal(t, FallbackUS, got)
}

func TestHK_DiscoverByTurnover(t *testing.T) {
	feed := &stubFeed{spot: map[model.Market][]model.SpotQuote{model.MarketHK: {
		{Code: "00700", Name: "腾讯控股", Turnover: 5e9},
		{Code: "09988", Name: "阿里巴巴-W", Turnover: 7e9},
		{Code: "00005", Name: "汇丰控股", Turnover: 1e9},
	}}}
	got := NewHK(deps(feed, nil)).Discover(context.Background(), 2)
	assert.Equal(t, []string{"09988", "00700"}, got)

	empty := &stubFeed{spot: map[model.Market][]model.SpotQuote{}}
	got = NewHK(deps(empty, nil)).Discover(context.Background(), 3)
	assert.Equal(t, []string{"00700", "09988", "03690"}, got)
}

func TestAShare_Overview(t *testing.T) {
	feed := &stubFeed{
		index: map[string]model.IndexQuote{"sh000001": {Code: "sh000001", Value: 3241.82, ChangePct: -0.35}},
		spot: map[model.Market][]model.SpotQuote{model.MarketAShare: {
			{Code: "1", ChangePct: 1, Turnover: 3e8},
			{Code: "2", ChangePct: -1, Turnover: 2e8},
			{Code: "3", ChangePct: 0, Turnover: 1e8},
			{Code: "4", ChangePct: 2, Turnover: 4e8},
		}},
	}
	ov, err := NewAShare(deps(feed, nil)).Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "上证指数", ov.IndexName)
	assert.Equal(t, "2025-01-17", ov.Date)
	assert.Equal(t, 3241.82, ov.IndexValue)
	assert.Equal(t, 2, ov.UpCount)
	assert.Equal(t, 1, ov.DownCount)
	assert.InDelta(t, 10.0, ov.Turnover, 1e-9)
}

type breadthDown struct{ stubFeed }

func (b *breadthDown) Spot(context.Context, model.Market) ([]model.SpotQuote, error) {
	return nil, errors.New("listing down")
}

func TestAShare_OverviewBreadthFailureKeepsIndex(t *testing.T) {
	feed := &breadthDown{stubFeed{index: map[string]model.IndexQuote{"sh000001": {Value: 3000}}}}
	ov, err := NewAShare(deps(feed, nil)).Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3000.0, ov.IndexValue)
	assert.Zero(t, ov.UpCount)
	assert.Zero(t, ov.DownCount)
	assert.Zero(t, ov.Turnover)
}

func TestIndexOverviews(t *testing.T) {
	feed := &stubFeed{index: map[string]model.IndexQuote{
		"^IXIC": {Value: 19630.2, ChangePct: 1.23456},
		"^HSI":  {Value: 19584.06, ChangePct: -0.311},
	}}
	ctx := context.Background()

	us, err := NewUS(deps(feed, nil)).Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, "纳斯达克综合指数", us.IndexName)
	assert.Equal(t, 1.23, us.IndexChangePct)

	hk, err := NewHK(deps(feed, nil)).Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, "恒生指数", hk.IndexName)
	assert.Equal(t, -0.31, hk.IndexChangePct)

	_, err = NewAShare(deps(&stubFeed{indexErr: errors.New("down")}, nil)).Overview(ctx)
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry(deps(&stubFeed{}, stubHistory{}))
	for _, m := range []model.Market{model.MarketAShare, model.MarketUS, model.MarketHK} {
		v, ok := r.Get(m)
		require.True(t, ok, m)
		assert.Equal(t, m, v.Market())
	}
	_, ok := r.Get(model.Market("JP"))
	assert.False(t, ok)
}

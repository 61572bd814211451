package market

import (
	"context"
	"fmt"
	"regexp"

	"github.com/mdsiyam69/Clarity/internal/model"
)

const (
	shanghaiComposite     = "sh000001"
	shanghaiCompositeName = "上证指数"
	notableActivityLimit  = 20
	limitUpThreshold      = 9.9
)

// excludedName matches risk-warning (ST), new-listing (N) and
// first-days-after-listing (C) names.
var excludedName = regexp.MustCompile(`ST|N|C`)

// AShare discovers mainland names by turnover, daily gain and the
// dragon-tiger board.
type AShare struct {
	Deps
}

func NewAShare(d Deps) *AShare { return &AShare{Deps: d} }

func (a *AShare) Market() model.Market { return model.MarketAShare }

func (a *AShare) Discover(ctx context.Context, limit int) []string {
	if limit <= 0 {
		limit = DefaultLimitAShare
	}
	return a.discover("discover.a_share", func() ([]string, error) {
		return a.hot(ctx, limit)
	}, FallbackAShare)
}

func (a *AShare) hot(ctx context.Context, limit int) ([]string, error) {
	if a.Feed == nil {
		return nil, fmt.Errorf("a-share: no listing feed")
	}
	spot, err := a.Feed.Spot(ctx, model.MarketAShare)
	if err != nil {
		return nil, fmt.Errorf("a-share spot: %w", err)
	}

	eligible := make([]model.SpotQuote, 0, len(spot))
	gainers := make([]model.SpotQuote, 0, len(spot)/2)
	for _, q := range spot {
		a.putName(q.Code, q.Name)
		if excludedName.MatchString(q.Name) {
			continue
		}
		eligible = append(eligible, q)
		if q.ChangePct > 0 && q.ChangePct < limitUpThreshold {
			gainers = append(gainers, q)
		}
	}

	seen := make(map[string]bool)
	var out []string
	out = appendUnique(out, seen, topBy(eligible, limit/2, func(q model.SpotQuote) float64 { return q.Turnover })...)
	out = appendUnique(out, seen, topBy(gainers, limit/3, func(q model.SpotQuote) float64 { return q.ChangePct })...)
	a.Log.Info().Int("count", len(out)).Msg("a-share hot list from spot listing")

	notable, err := a.Feed.NotableActivity(ctx)
	if err != nil {
		a.Log.Debug().Err(err).Msg("dragon-tiger board unavailable")
	} else {
		out = appendUnique(out, seen, truncate(notable, notableActivityLimit)...)
	}

	return truncate(out, limit), nil
}

// Overview reads the Shanghai Composite and, best effort, market breadth.
func (a *AShare) Overview(ctx context.Context) (*model.MarketOverview, error) {
	if a.Feed == nil {
		return nil, fmt.Errorf("a-share: no listing feed")
	}
	idx, err := a.Feed.IndexQuote(ctx, shanghaiComposite)
	if err != nil {
		return nil, fmt.Errorf("a-share index: %w", err)
	}
	ov := &model.MarketOverview{
		Market:         model.MarketAShare,
		Date:           a.date(),
		IndexName:      shanghaiCompositeName,
		IndexValue:     idx.Value,
		IndexChangePct: idx.ChangePct,
	}

	spot, err := a.Feed.Spot(ctx, model.MarketAShare)
	if err != nil {
		a.Log.Warn().Err(err).Msg("a-share breadth unavailable")
		return ov, nil
	}
	var turnover float64
	for _, q := range spot {
		switch {
		case q.ChangePct > 0:
			ov.UpCount++
		case q.ChangePct < 0:
			ov.DownCount++
		}
		turnover += q.Turnover
	}
	ov.Turnover = turnover / 1e8
	return ov, nil
}

package market

import (
	"context"
	"slices"

	"github.com/mdsiyam69/Clarity/internal/model"
)

const (
	hangSeng     = "^HSI"
	hangSengName = "恒生指数"
)

// HKConstituents stands in for the listing feed when it is unavailable.
var HKConstituents = []string{
	"00700", "09988", "03690", "01810", "02020",
	"00941", "01398", "02318", "00939", "03988",
	"00005", "00011", "00016", "00066", "00388",
	"01299", "02269", "02382", "00868", "01024",
}

// HK discovers Hong Kong names by turnover.
type HK struct {
	Deps
}

func NewHK(d Deps) *HK { return &HK{Deps: d} }

func (h *HK) Market() model.Market { return model.MarketHK }

func (h *HK) Discover(ctx context.Context, limit int) []string {
	if limit <= 0 {
		limit = DefaultLimitHK
	}
	return h.discover("discover.hk", func() ([]string, error) {
		out := h.byTurnover(ctx, limit)
		if len(out) == 0 {
			out = slices.Clone(HKConstituents)
		}
		return truncate(out, limit), nil
	}, FallbackHK)
}

func (h *HK) byTurnover(ctx context.Context, limit int) []string {
	if h.Feed == nil {
		return nil
	}
	spot, err := h.Feed.Spot(ctx, model.MarketHK)
	if err != nil {
		h.Log.Debug().Err(err).Msg("hk listing unavailable, using index constituents")
		return nil
	}
	for _, q := range spot {
		h.putName(q.Code, q.Name)
	}
	out := topBy(spot, limit, func(q model.SpotQuote) float64 { return q.Turnover })
	h.Log.Info().Int("count", len(out)).Msg("hk hot list from spot listing")
	return out
}

// Overview reads the Hang Seng index.
func (h *HK) Overview(ctx context.Context) (*model.MarketOverview, error) {
	return indexOverview(ctx, h.Deps, model.MarketHK, hangSeng, hangSengName)
}

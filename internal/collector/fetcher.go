package collector

import (
	"context"

	"github.com/mdsiyam69/Clarity/internal/model"
)

// Fetcher retrieves daily bars from one provider.
type Fetcher interface {
	// FetchDailyBars returns at most days bars, ascending by date.
	FetchDailyBars(ctx context.Context, symbol string, days int) (model.PriceHistory, error)
	Name() string
}

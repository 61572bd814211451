package collector

import (
	"context"
	"hash/fnv"
	"math"
	"time"

	"github.com/mdsiyam69/Clarity/internal/model"
)

// MockFetcher returns deterministic synthetic bars for development and testing.
// Each symbol gets its own drift and cycle so a scan produces a spread of scores.
type MockFetcher struct {
	Price float64
	Data  map[string]model.PriceHistory
	Now   func() time.Time
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, days int) (model.PriceHistory, error) {
	if m.Data != nil {
		if bars, ok := m.Data[symbol]; ok {
			return bars.Tail(days), nil
		}
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	base := m.Price
	if base <= 0 {
		base = 100
	}
	return generateMockBars(symbol, base, days, now()), nil
}

func generateMockBars(symbol string, basePrice float64, count int, end time.Time) model.PriceHistory {
	h := fnv.New32a()
	_, _ = h.Write([]byte(symbol))
	seed := h.Sum32()
	drift := (float64(seed%21) - 8) / 10000 // -0.08% .. +0.12% per bar
	phase := float64(seed % 17)

	bars := make(model.PriceHistory, count)
	p := basePrice
	for i := 0; i < count; i++ {
		p *= 1 + drift + 0.006*math.Sin((float64(i)+phase)/4)
		bars[i] = model.PriceBar{
			Time:   end.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.012,
			Low:    p * 0.988,
			Close:  p,
			Volume: 1_000_000 * (1 + 0.3*math.Cos(float64(i)+phase)),
		}
	}
	return bars
}

package barstore

import (
	"context"

	"github.com/mdsiyam69/Clarity/internal/model"
)

// NoopStore never caches. It is used when caching is disabled or unavailable.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) Get(context.Context, string) (*Entry, error) { return nil, nil }
func (n *NoopStore) Put(context.Context, string, string, int, model.PriceHistory) error {
	return nil
}
func (n *NoopStore) Close() error { return nil }

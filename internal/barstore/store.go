// Package barstore caches daily price histories between scans.
package barstore

import (
	"context"
	"fmt"
	"time"

	"github.com/mdsiyam69/Clarity/internal/model"
)

// Entry is one cached history together with its provenance.
type Entry struct {
	Symbol    string             `json:"symbol"`
	Source    string             `json:"source"`
	FetchedAt time.Time          `json:"fetched_at"`
	// Days is the window that was requested when the bars were fetched.
	Days      int                `json:"days"`
	Bars      model.PriceHistory `json:"bars"`
}

// Store is a read-through cache for daily bars.
type Store interface {
	// Get returns the cached entry, or nil when it is missing or older than the TTL.
	Get(ctx context.Context, symbol string) (*Entry, error)
	Put(ctx context.Context, symbol, source string, days int, bars model.PriceHistory) error
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Backend    string        `yaml:"backend" default:"sqlite" validate:"oneof=sqlite redis none"`
	SQLitePath string        `yaml:"sqlite_path" default:"data/clarity.db"`
	RedisAddr  string        `yaml:"redis_addr" default:"localhost:6379"`
	RedisDB    int           `yaml:"redis_db"`
	TTL        time.Duration `yaml:"ttl" default:"6h"`
}

// Open builds the configured backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "none":
		return NewNoopStore(), nil
	case "sqlite":
		return NewSQLiteStore(cfg.SQLitePath, cfg.TTL)
	case "redis":
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.TTL)
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}

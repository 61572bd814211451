package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/mdsiyam69/Clarity/internal/barstore"
	"github.com/mdsiyam69/Clarity/internal/collector"
	"github.com/mdsiyam69/Clarity/internal/config"
	"github.com/mdsiyam69/Clarity/internal/market"
	"github.com/mdsiyam69/Clarity/internal/metrics"
	"github.com/mdsiyam69/Clarity/internal/model"
	"github.com/mdsiyam69/Clarity/internal/names"
	"github.com/mdsiyam69/Clarity/internal/scanner"
)

// app holds the wired components shared by the commands.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	scanner  *scanner.Scanner
	registry *prometheus.Registry
	store    barstore.Store
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn().Err(err).Msg("close bar store")
	}
}

func buildApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) *app {
	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)

	store, err := barstore.Open(ctx, cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Str("backend", cfg.Cache.Backend).Msg("bar cache unavailable, continuing without it")
		store = barstore.NewNoopStore()
	}

	hist := collector.NewCollector(log.With().Str("component", "collector").Logger()).
		WithStore(store).
		WithObserver(rec)

	deps := market.Deps{
		History:     hist,
		HistoryDays: cfg.Scan.HistoryDays,
		Log:         log.With().Str("component", "market").Logger(),
		Observer:    rec,
	}
	var resolver names.Resolver

	if cfg.DataSource.Mock {
		mock := &collector.MockFetcher{}
		hist.Use(model.MarketAShare, mock).Use(model.MarketUS, mock).Use(model.MarketHK, mock)
		log.Info().Msg("using synthetic market data")
	} else {
		client := collector.NewHTTPClient(collector.ClientConfig{
			Timeout:         cfg.DataSource.Timeout,
			Proxy:           cfg.DataSource.Proxy,
			RPS:             cfg.DataSource.RPS,
			Burst:           cfg.DataSource.Burst,
			BreakerFailures: cfg.DataSource.BreakerFailures,
			BreakerCooldown: cfg.DataSource.BreakerCooldown,
		})
		tencent := collector.NewTencentFetcher(client)
		yahoo := collector.NewYahooFetcher(client)
		eastmoney := collector.NewEastmoneyFeed(client)

		hist.Use(model.MarketAShare, tencent, yahoo).
			Use(model.MarketHK, tencent, yahoo).
			Use(model.MarketUS, yahoo)
		deps.Feed = eastmoney
		deps.Index = yahoo
		resolver = eastmoney
	}

	nameCache := names.NewCache(resolver,
		names.WithLogger(log),
		names.WithSkip(func(s string) bool { return collector.DetectMarket(s) == model.MarketUS }))
	deps.Names = nameCache

	sc := scanner.New(market.DefaultRegistry(deps), hist, nameCache,
		scanner.WithLogger(log.With().Str("component", "scanner").Logger()),
		scanner.WithMetrics(rec),
		scanner.WithHistoryDays(cfg.Scan.HistoryDays),
		scanner.WithMinScore(cfg.Scan.MinScore),
		scanner.WithLimits(cfg.Limits()),
	)

	return &app{cfg: cfg, log: log, scanner: sc, registry: reg, store: store}
}

func (a *app) markets(override []string) ([]model.Market, error) {
	if len(override) > 0 {
		m, err := model.ParseMarkets(override)
		if err != nil {
			return nil, fmt.Errorf("--markets: %w", err)
		}
		return m, nil
	}
	return a.cfg.Markets()
}

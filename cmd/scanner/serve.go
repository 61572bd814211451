package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/mdsiyam69/Clarity/internal/notifier"
	"github.com/mdsiyam69/Clarity/internal/scheduler"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the daily scan on a cron schedule and answer chat commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			a := buildApp(ctx, cfg, log)
			defer a.Close()

			markets, err := a.markets(nil)
			if err != nil {
				return err
			}

			var (
				tn   *notifier.TelegramNotifier
				sink scheduler.Notifier
			)
			if cfg.Telegram.Enabled {
				tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.DataSource.Proxy,
					log.With().Str("component", "telegram").Logger())
				sink = tn
			}

			sched := scheduler.NewScheduler(ctx, a.scanner, sink, markets, cfg.Scan.TopN,
				log.With().Str("component", "scheduler").Logger())
			sched.Retries = cfg.Telegram.Retries
			if err := sched.RegisterAll(cfg.Schedule.DailyCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			if tn != nil && cfg.Telegram.Polling {
				go tn.StartPolling(ctx, sched.HandleCommand)
				log.Info().Msg("telegram polling started")
			}

			if cfg.Metrics.Enabled {
				srv := metricsServer(cfg.Metrics.Addr, a.registry)
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error().Err(err).Msg("metrics server")
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
				log.Info().Str("addr", cfg.Metrics.Addr).Msg("metrics endpoint enabled")
			}

			if cfg.Schedule.RunOnStart {
				log.Info().Msg("run_on_start enabled, executing daily scan now")
				go sched.RunNow()
			}

			log.Info().Str("cron", cfg.Schedule.DailyCron).Msg("scanner is running, press Ctrl+C to stop")
			<-ctx.Done()
			log.Info().Msg("shutdown signal received, stopping")
			return nil
		},
	}
}

func metricsServer(addr string, reg *prometheus.Registry) *http.Server {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}

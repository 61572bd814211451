package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mdsiyam69/Clarity/internal/notifier"
)

func scanCmd(opts *rootOptions) *cobra.Command {
	var (
		markets []string
		topN    int
		asJSON  bool
		notify  bool
	)
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one market scan and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			a := buildApp(cmd.Context(), cfg, log)
			defer a.Close()

			ms, err := a.markets(markets)
			if err != nil {
				return err
			}
			if topN <= 0 {
				topN = cfg.Scan.TopN
			}

			res := a.scanner.Scan(cmd.Context(), ms, topN)

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return fmt.Errorf("encode result: %w", err)
				}
			} else {
				fmt.Println(res.Summary)
			}

			if notify {
				if !cfg.Telegram.Enabled {
					return fmt.Errorf("--notify requires telegram.enabled")
				}
				tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.DataSource.Proxy, log)
				if err := tn.SendWithRetry(cmd.Context(), notifier.FormatScanReport(res), cfg.Telegram.Retries); err != nil {
					return fmt.Errorf("send report: %w", err)
				}
				log.Info().Msg("report sent")
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&markets, "markets", "m", nil, "markets to scan (a, us, hk)")
	cmd.Flags().IntVarP(&topN, "top", "n", 0, "number of recommendations (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	cmd.Flags().BoolVar(&notify, "notify", false, "also send the report to Telegram")
	return cmd
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mdsiyam69/Clarity/internal/model"
)

func stockCmd(opts *rootOptions) *cobra.Command {
	var (
		marketName string
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "stock SYMBOL",
		Short: "Analyse a single symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			a := buildApp(cmd.Context(), cfg, log)
			defer a.Close()

			var m model.Market
			if marketName != "" {
				if m, err = model.ParseMarket(marketName); err != nil {
					return err
				}
			}
			rec, err := a.scanner.Analyze(cmd.Context(), args[0], m)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rec)
			}
			fmt.Printf("%s %s [%s] %.2f  评分 %d  %s\n",
				rec.Symbol, rec.Name, rec.Market.Label(), rec.Indicators.Price, rec.Score, rec.Signal.Label())
			for _, it := range rec.Checklist.Items() {
				fmt.Printf("  %s %s\n", it.Status.Mark(), it.Name)
			}
			fmt.Println(strings.Join(rec.Reasons, "\n"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&marketName, "market", "m", "", "market of the symbol (inferred when empty)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full analysis as JSON")
	return cmd
}

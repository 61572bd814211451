package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mdsiyam69/Clarity/internal/config"
	"github.com/mdsiyam69/Clarity/internal/logger"
)

type rootOptions struct {
	configPath string
	mock       bool
}

func Execute(ctx context.Context) error {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "scanner",
		Short:         "Daily A-share / US / HK market scanner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", defaultPath, "path to the YAML config")
	root.PersistentFlags().BoolVar(&opts.mock, "mock", false, "use synthetic market data")

	root.AddCommand(scanCmd(opts), stockCmd(opts), serveCmd(opts))

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

// load reads and validates the config and builds the logger.
func (o *rootOptions) load() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if o.mock {
		cfg.DataSource.Mock = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, log, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"MarketLens/internal/collector"
	"MarketLens/internal/config"
	"MarketLens/internal/logging"
	"MarketLens/internal/presenter"
	"MarketLens/internal/runner"
)

func main() {
	var cfgPath string
	cmd := &cobra.Command{
		Use:           "dividends <ticker> [months]",
		Short:         "Retrieve ETF dividend information",
		Long:          "Retrieve ETF dividend information for the last months months (default 12) and chart it.",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), config.ResolvePath(cfgPath), args)
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "path to the YAML config file")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Every path ends here with exit status 0.
	if err := cmd.ExecuteContext(ctx); err != nil && !errors.Is(err, runner.ErrNoData) {
		fmt.Printf("An error occurred: %v\n", err)
	}
}

func run(ctx context.Context, cfgPath string, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	ticker := args[0]
	months, err := parseMonths(args, cfg.Dividends.DefaultMonths)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	provider := cfg.NewProvider()
	logger.Debug("data source selected", zap.String("source", provider.Name()))

	fetcher := collector.NewDividendFetcher(provider, logger)
	show := presenter.NewBrowserPresenter(cfg.Chart.ListenAddr, !cfg.Chart.PrintURLOnly, logger)

	return runner.NewDividends(fetcher, show, os.Stdout, logger).Run(ctx, ticker, months)
}

// parseMonths reads the optional months argument.
func parseMonths(args []string, def int) (int, error) {
	if len(args) < 2 {
		return def, nil
	}
	months, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("months must be an integer, got %q", args[1])
	}
	if months < 1 {
		return 0, fmt.Errorf("months must be at least 1, got %d", months)
	}
	return months, nil
}

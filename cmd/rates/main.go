package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
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
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Every path ends here with exit status 0; failures are already logged.
	execute(ctx, newRootCmd(run), os.Stderr)
}

func newRootCmd(runFn func(ctx context.Context, cfgPath string) error) *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:           "rates",
		Short:         "Chart the KRW/USD exchange rate over the last 3 years",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFn(cmd.Context(), config.ResolvePath(cfgPath))
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "path to the YAML config file")
	return cmd
}

// execute runs cmd and reports unexpected errors to stderr. ErrNoData has
// already been logged by the pipeline and is not repeated.
func execute(ctx context.Context, cmd *cobra.Command, stderr io.Writer) {
	if err := cmd.ExecuteContext(ctx); err != nil && !errors.Is(err, runner.ErrNoData) {
		fmt.Fprintf(stderr, "rates: %v\n", err)
	}
}

func run(ctx context.Context, cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	provider := cfg.NewProvider()
	logger.Debug("data source selected", zap.String("source", provider.Name()))

	fetcher := collector.NewRateFetcher(provider, cfg.Rates.Symbol, cfg.Rates.Field,
		cfg.Rates.Attempts, cfg.Rates.Backoff, logger)
	show := presenter.NewBrowserPresenter(cfg.Chart.ListenAddr, !cfg.Chart.PrintURLOnly, logger)

	return runner.NewRates(fetcher, show, logger).Run(ctx)
}

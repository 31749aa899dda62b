package runner

import (
	"context"

	"go.uber.org/zap"

	"MarketLens/internal/calculator"
	"MarketLens/internal/presenter"
)

// Rates is the exchange-rate pipeline: fetch with retry, average, chart.
type Rates struct {
	Fetcher   RateSource
	Presenter presenter.Presenter
	Logger    *zap.Logger
}

// NewRates creates the exchange-rate pipeline.
func NewRates(f RateSource, p presenter.Presenter, logger *zap.Logger) *Rates {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rates{Fetcher: f, Presenter: p, Logger: logger}
}

// Run executes the pipeline once. It returns ErrNoData when nothing could be
// fetched or no value was numeric; the presenter is not called in that case.
func (r *Rates) Run(ctx context.Context) error {
	r.Logger.Info("starting exchange rate collection")

	raw := r.Fetcher.Fetch(ctx)
	if len(raw) == 0 {
		r.Logger.Error("could not fetch exchange rate data")
		return ErrNoData
	}

	cleaned, mean, ok := calculator.Summarize(raw)
	r.Logger.Info("filtered valid data points", zap.Int("valid", len(cleaned)), zap.Int("raw", len(raw)))
	if !ok {
		r.Logger.Warn("no valid exchange rate data")
		return ErrNoData
	}

	fields := []zap.Field{zap.String("average", presenter.FormatFixed(mean, 2)+" KRW/USD")}
	if high, low, err := calculator.Range(cleaned); err == nil {
		fields = append(fields,
			zap.String("high", presenter.FormatFixed(high, 2)),
			zap.String("low", presenter.FormatFixed(low, 2)))
	}
	r.Logger.Info("average KRW/USD exchange rate over the last 3 years", fields...)

	return r.Presenter.Present(ctx, presenter.RateChart(cleaned, mean))
}

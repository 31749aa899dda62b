package runner

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"MarketLens/internal/calculator"
	"MarketLens/internal/model"
	"MarketLens/internal/presenter"
)

// Dividends is the dividend pipeline: fetch once, filter, average, chart.
// Human-readable results go to Out.
type Dividends struct {
	Fetcher   DividendSource
	Presenter presenter.Presenter
	Out       io.Writer
	Logger    *zap.Logger
}

// NewDividends creates the dividend pipeline.
func NewDividends(f DividendSource, p presenter.Presenter, out io.Writer, logger *zap.Logger) *Dividends {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dividends{Fetcher: f, Presenter: p, Out: out, Logger: logger}
}

// Run executes the pipeline once for ticker over the last months months.
// Fetch errors are returned unchanged for the caller to report. An empty
// window is printed and reported as ErrNoData.
func (d *Dividends) Run(ctx context.Context, ticker string, months int) error {
	res, err := d.Fetcher.Fetch(ctx, ticker, months)
	if err != nil {
		return err
	}
	start, end := res.Start.Format(model.DateLayout), res.End.Format(model.DateLayout)

	cleaned, mean, ok := calculator.Summarize(res.Dividends)
	if !ok {
		fmt.Fprint(d.Out, presenter.FormatNoDividends(ticker, start, end))
		return ErrNoData
	}
	if dropped := len(res.Dividends) - len(cleaned); dropped > 0 {
		d.Logger.Warn("dropped non-numeric dividend entries", zap.Int("dropped", dropped))
	}

	fmt.Fprint(d.Out, presenter.FormatDividendReport(ticker, start, end, cleaned, mean))
	return d.Presenter.Present(ctx, presenter.DividendChart(ticker, start, end, cleaned, mean))
}

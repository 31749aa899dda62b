// Package runner wires fetchers, the aggregator and a presenter into the
// exchange-rate and dividend pipelines.
package runner

import (
	"context"
	"errors"

	"MarketLens/internal/collector"
	"MarketLens/internal/model"
)

// ErrNoData reports that a pipeline stopped before presentation because there
// was nothing valid to show. The condition has already been logged or printed.
var ErrNoData = errors.New("no valid data")

// RateSource yields an exchange-rate series; empty means no data.
type RateSource interface {
	Fetch(ctx context.Context) model.RawSeries
}

// DividendSource yields a ticker's dividends within a months-back window.
type DividendSource interface {
	Fetch(ctx context.Context, ticker string, months int) (*collector.DividendResult, error)
}

package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"MarketLens/internal/model"
)

const DefaultDividendMonths = 12

// DividendResult is a ticker's dividend history restricted to a window.
type DividendResult struct {
	Ticker    string
	Start     time.Time
	End       time.Time
	Dividends model.RawSeries
}

// DividendFetcher downloads a dividend history in a single attempt and
// filters it to the requested window. Provider errors are not retried.
type DividendFetcher struct {
	Provider Provider
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewDividendFetcher creates a DividendFetcher.
func NewDividendFetcher(p Provider, logger *zap.Logger) *DividendFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DividendFetcher{Provider: p, Logger: logger, Now: time.Now}
}

// Fetch returns the dividends of ticker paid within DividendWindow(now, months).
func (f *DividendFetcher) Fetch(ctx context.Context, ticker string, months int) (*DividendResult, error) {
	if ticker == "" {
		return nil, errors.New("ticker is required")
	}
	if months < 1 {
		return nil, fmt.Errorf("months must be at least 1, got %d", months)
	}
	start, end := DividendWindow(f.Now(), months)

	f.Logger.Debug("fetching dividends",
		zap.String("ticker", ticker),
		zap.String("source", f.Provider.Name()),
		zap.Int("months", months))

	history, err := f.Provider.Dividends(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("fetch dividends for %s: %w", ticker, err)
	}

	filtered := FilterWindow(history, start, end)
	f.Logger.Debug("dividends filtered",
		zap.Int("history", len(history)),
		zap.Int("in_window", len(filtered)))

	return &DividendResult{Ticker: ticker, Start: start, End: end, Dividends: filtered}, nil
}

// FilterWindow sorts series by date and keeps the points whose calendar date
// lies within [start, end], both bounds inclusive.
func FilterWindow(series model.RawSeries, start, end time.Time) model.RawSeries {
	sorted := make(model.RawSeries, len(series))
	copy(sorted, series)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	lo, hi := start.Format(model.DateLayout), end.Format(model.DateLayout)
	out := make(model.RawSeries, 0, len(sorted))
	for _, p := range sorted {
		d := p.Date.Format(model.DateLayout)
		if d >= lo && d <= hi {
			out = append(out, p)
		}
	}
	return out
}

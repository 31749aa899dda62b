package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"MarketLens/internal/calculator"
	"MarketLens/internal/model"
)

const (
	DefaultRateSymbol   = "KRW=X"
	DefaultRateField    = "adjclose"
	DefaultRateAttempts = 3
	DefaultRateBackoff  = 2 * time.Second
)

// RateFetcher downloads an exchange-rate series with a fixed retry budget.
// Exhausting the budget yields an empty series rather than an error.
type RateFetcher struct {
	Provider Provider
	Symbol   string
	Field    string
	Attempts int
	Backoff  time.Duration
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewRateFetcher creates a RateFetcher. Zero values fall back to the defaults.
func NewRateFetcher(p Provider, symbol, field string, attempts int, backoff time.Duration, logger *zap.Logger) *RateFetcher {
	if symbol == "" {
		symbol = DefaultRateSymbol
	}
	if field == "" {
		field = DefaultRateField
	}
	if attempts < 1 {
		attempts = DefaultRateAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateFetcher{
		Provider: p,
		Symbol:   symbol,
		Field:    field,
		Attempts: attempts,
		Backoff:  backoff,
		Logger:   logger,
		Now:      time.Now,
	}
}

// Fetch downloads the series for RateWindow(now).
func (f *RateFetcher) Fetch(ctx context.Context) model.RawSeries {
	start, end := RateWindow(f.Now())
	return f.FetchWindow(ctx, start, end)
}

// FetchWindow downloads the series for [start, end], retrying on errors and
// invalid frames. An empty series means every attempt failed.
func (f *RateFetcher) FetchWindow(ctx context.Context, start, end time.Time) model.RawSeries {
	log := f.Logger.With(zap.String("symbol", f.Symbol), zap.String("source", f.Provider.Name()))

	for attempt := 1; attempt <= f.Attempts; attempt++ {
		log.Info("fetching exchange rate data",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", f.Attempts),
			zap.String("start", start.Format(model.DateLayout)),
			zap.String("end", end.Format(model.DateLayout)))

		frame, err := f.Provider.History(ctx, f.Symbol, start, end)
		if err != nil {
			log.Error("error while fetching exchange rate data, retrying",
				zap.Int("attempt", attempt), zap.Error(err))
		} else {
			var fieldData model.RawSeries
			if frame != nil {
				fieldData = frame.Fields[f.Field]
			}
			log.Info("fetched frame",
				zap.Strings("fields", frame.FieldNames()),
				zap.String("sample", sample(fieldData, 5)))

			series, err := validateFrame(frame, f.Symbol, f.Field)
			if err == nil {
				log.Info("exchange rate data fetched", zap.Int("points", len(series)))
				return series
			}
			log.Warn("invalid data received, retrying",
				zap.Int("attempt", attempt), zap.Error(err))
		}

		if attempt == f.Attempts {
			break
		}
		if err := sleep(ctx, f.Backoff); err != nil {
			log.Warn("retry wait interrupted", zap.Error(err))
			break
		}
	}

	log.Error("failed to fetch exchange rate data on every attempt", zap.Int("attempts", f.Attempts))
	return model.RawSeries{}
}

// validateFrame checks that frame belongs to symbol, carries field, and that
// field holds at least one numeric value. Null entries are dropped; other
// non-numeric entries are left for the aggregator to discard.
func validateFrame(frame *model.Frame, symbol, field string) (model.RawSeries, error) {
	if frame == nil {
		return nil, ErrNoData
	}
	if !strings.EqualFold(frame.Symbol, symbol) {
		return nil, fmt.Errorf("%w: want %s, got %q", ErrSymbolMismatch, symbol, frame.Symbol)
	}
	raw, ok := frame.Fields[field]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	out := make(model.RawSeries, 0, len(raw))
	numeric := 0
	for _, p := range raw {
		if p.Value == nil {
			continue
		}
		if _, ok := calculator.ToFloat(p.Value); ok {
			numeric++
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("field %s: %w", field, ErrNoData)
	}
	if numeric == 0 {
		return nil, fmt.Errorf("field %s: %w", field, ErrNotNumeric)
	}
	return out, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func sample(series model.RawSeries, n int) string {
	if len(series) < n {
		n = len(series)
	}
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = fmt.Sprintf("%s=%v", series[i].Date.Format(model.DateLayout), series[i].Value)
	}
	return strings.Join(parts, " ")
}

package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"MarketLens/internal/model"
)

// scriptedProvider answers History calls from a fixed script of results.
type scriptedProvider struct {
	calls   int
	results []historyResult
}

type historyResult struct {
	frame *model.Frame
	err   error
}

func (s *scriptedProvider) Name() string { return "scripted" }

func (s *scriptedProvider) History(_ context.Context, _ string, _, _ time.Time) (*model.Frame, error) {
	i := s.calls
	s.calls++
	if i >= len(s.results) {
		return nil, errors.New("script exhausted")
	}
	return s.results[i].frame, s.results[i].err
}

func (s *scriptedProvider) Dividends(context.Context, string) (model.RawSeries, error) {
	return nil, errors.New("not scripted")
}

func rateFrame(points ...model.RawPoint) *model.Frame {
	return &model.Frame{Symbol: DefaultRateSymbol, Fields: map[string]model.RawSeries{DefaultRateField: points}}
}

func jan(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func newTestRateFetcher(p Provider, attempts int, logger *zap.Logger) *RateFetcher {
	f := NewRateFetcher(p, "", "", attempts, 0, logger)
	f.Now = func() time.Time { return jan(10) }
	return f
}

func TestRateFetcher_AlwaysFailing(t *testing.T) {
	for attempts := 1; attempts <= 5; attempts++ {
		p := &scriptedProvider{}
		got := newTestRateFetcher(p, attempts, nil).Fetch(context.Background())
		assert.Equal(t, attempts, p.calls, "budget %d", attempts)
		assert.NotNil(t, got)
		assert.Empty(t, got, "budget %d", attempts)
	}
}

func TestRateFetcher_SucceedsOnLastAttempt(t *testing.T) {
	want := model.RawSeries{{Date: jan(1), Value: 1300.5}, {Date: jan(2), Value: 1310.2}}
	for attempts := 1; attempts <= 5; attempts++ {
		results := make([]historyResult, 0, attempts+1)
		for i := 0; i < attempts-1; i++ {
			results = append(results, historyResult{err: errors.New("timeout")})
		}
		results = append(results, historyResult{frame: rateFrame(want...)})
		results = append(results, historyResult{frame: rateFrame(model.RawPoint{Date: jan(3), Value: 9.9})})

		p := &scriptedProvider{results: results}
		got := newTestRateFetcher(p, attempts, nil).Fetch(context.Background())
		assert.Equal(t, want, got, "budget %d", attempts)
		assert.Equal(t, attempts, p.calls, "no call after success, budget %d", attempts)
	}
}

func TestRateFetcher_InvalidFramesAreRetried(t *testing.T) {
	valid := rateFrame(model.RawPoint{Date: jan(2), Value: 1310.2})
	p := &scriptedProvider{results: []historyResult{
		{frame: nil},
		{frame: &model.Frame{Symbol: "EUR=X", Fields: valid.Fields}},
		{frame: &model.Frame{Symbol: DefaultRateSymbol, Fields: map[string]model.RawSeries{"close": valid.Fields[DefaultRateField]}}},
		{frame: rateFrame(model.RawPoint{Date: jan(1), Value: nil})},
		{frame: valid},
	}}
	got := newTestRateFetcher(p, 5, nil).Fetch(context.Background())
	assert.Equal(t, 5, p.calls)
	assert.Equal(t, valid.Fields[DefaultRateField], got)
}

func TestRateFetcher_LogsEveryFailedAttempt(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	p := &scriptedProvider{results: []historyResult{
		{err: errors.New("connection reset")},
		{frame: rateFrame()},
		{err: errors.New("connection reset")},
	}}
	got := newTestRateFetcher(p, 3, zap.New(core)).Fetch(context.Background())
	require.Empty(t, got)

	assert.Equal(t, 2, logs.FilterMessage("error while fetching exchange rate data, retrying").Len())
	assert.Equal(t, 1, logs.FilterMessage("invalid data received, retrying").Len())
	assert.Equal(t, 1, logs.FilterMessage("failed to fetch exchange rate data on every attempt").Len())
}

func TestRateFetcher_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &scriptedProvider{}
	f := NewRateFetcher(p, "", "", 3, time.Hour, nil)
	got := f.Fetch(ctx)
	assert.Empty(t, got)
	assert.Equal(t, 1, p.calls)
}

func TestRateFetcher_UsesRateWindow(t *testing.T) {
	var gotStart, gotEnd time.Time
	p := &windowProvider{fn: func(start, end time.Time) { gotStart, gotEnd = start, end }}
	f := newTestRateFetcher(p, 1, nil)
	f.Fetch(context.Background())
	assert.Equal(t, jan(10), gotEnd)
	assert.Equal(t, jan(10).AddDate(0, 0, -1095), gotStart)
}

type windowProvider struct {
	fn func(start, end time.Time)
}

func (w *windowProvider) Name() string { return "window" }

func (w *windowProvider) History(_ context.Context, _ string, start, end time.Time) (*model.Frame, error) {
	w.fn(start, end)
	return rateFrame(model.RawPoint{Date: jan(1), Value: 1.0}), nil
}

func (w *windowProvider) Dividends(context.Context, string) (model.RawSeries, error) {
	return nil, nil
}

func TestValidateFrame(t *testing.T) {
	_, err := validateFrame(nil, DefaultRateSymbol, DefaultRateField)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = validateFrame(&model.Frame{Symbol: "JPY=X"}, DefaultRateSymbol, DefaultRateField)
	assert.ErrorIs(t, err, ErrSymbolMismatch)

	_, err = validateFrame(&model.Frame{Symbol: "krw=x"}, DefaultRateSymbol, DefaultRateField)
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = validateFrame(rateFrame(
		model.RawPoint{Date: jan(1), Value: "n/a"},
		model.RawPoint{Date: jan(2), Value: nil},
	), DefaultRateSymbol, DefaultRateField)
	assert.ErrorIs(t, err, ErrNotNumeric)

	got, err := validateFrame(rateFrame(
		model.RawPoint{Date: jan(1), Value: nil},
		model.RawPoint{Date: jan(2), Value: 1310.2},
	), DefaultRateSymbol, DefaultRateField)
	require.NoError(t, err)
	assert.Equal(t, model.RawSeries{{Date: jan(2), Value: 1310.2}}, got)
}

func TestRateFetcher_RetriesWhenNoValueIsNumeric(t *testing.T) {
	want := model.RawSeries{{Date: jan(2), Value: 1310.2}, {Date: jan(3), Value: "bad"}}
	p := &scriptedProvider{results: []historyResult{
		{frame: rateFrame(model.RawPoint{Date: jan(1), Value: "bad"}, model.RawPoint{Date: jan(2), Value: "-"})},
		{frame: rateFrame(want...)},
	}}
	got := newTestRateFetcher(p, 3, nil).Fetch(context.Background())
	assert.Equal(t, 2, p.calls)
	assert.Equal(t, want, got, "mixed frames pass; the aggregator drops the rest")
}

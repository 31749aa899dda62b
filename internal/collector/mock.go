package collector

import (
	"context"
	"time"

	"MarketLens/internal/model"
)

// MockProvider returns controllable fixed data for development and testing.
// When Frame or DividendData is nil it generates a synthetic series.
type MockProvider struct {
	Rate         float64
	Dividend     float64
	Frame        *model.Frame
	DividendData model.RawSeries
	Err          error
	Now          func() time.Time
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) History(_ context.Context, symbol string, start, end time.Time) (*model.Frame, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Frame != nil {
		return m.Frame, nil
	}
	return &model.Frame{
		Symbol: symbol,
		Fields: map[string]model.RawSeries{
			DefaultRateField: generateMockDaily(m.Rate, start, end),
		},
	}, nil
}

func (m *MockProvider) Dividends(_ context.Context, _ string) (model.RawSeries, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DividendData != nil {
		return m.DividendData, nil
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	return generateMockQuarterly(m.Dividend, now(), 12), nil
}

func generateMockDaily(base float64, start, end time.Time) model.RawSeries {
	var series model.RawSeries
	i := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		series = append(series, model.RawPoint{
			Date:  time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
			Value: base * (1 + float64(i%40-20)*0.001),
		})
		i++
	}
	return series
}

func generateMockQuarterly(base float64, now time.Time, count int) model.RawSeries {
	series := make(model.RawSeries, count)
	first := time.Date(now.Year(), now.Month(), 15, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		series[i] = model.RawPoint{
			Date:  first.AddDate(0, -3*(count-1-i), 0),
			Value: base * (1 + float64(i%4)*0.02),
		}
	}
	return series
}

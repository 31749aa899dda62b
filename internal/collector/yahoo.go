package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"MarketLens/internal/model"
)

// DefaultYahooBaseURL is the public Yahoo Finance API host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooProvider implements Provider using the Yahoo Finance chart API.
type YahooProvider struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooProvider creates a Yahoo Finance provider with optional proxy support.
func NewYahooProvider(baseURL, userAgent, proxyURL string, timeout time.Duration) *YahooProvider {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	if userAgent == "" {
		userAgent = "Mozilla/5.0"
	}
	return &YahooProvider{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: userAgent,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		SymbolMap: map[string]string{
			"USDKRW": "KRW=X",
		},
	}
}

func (p *YahooProvider) Name() string { return "yahoo" }

func (p *YahooProvider) yahooSymbol(symbol string) string {
	if mapped, ok := p.SymbolMap[strings.ToUpper(symbol)]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				GMTOffset int64  `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp []int64 `json:"timestamp"`
			Events    struct {
				Dividends map[string]struct {
					Amount any   `json:"amount"`
					Date   int64 `json:"date"`
				} `json:"dividends"`
			} `json:"events"`
			Indicators struct {
				Quote []struct {
					Open  []any `json:"open"`
					High  []any `json:"high"`
					Low   []any `json:"low"`
					Close []any `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []any `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (p *YahooProvider) fetchChart(ctx context.Context, symbol string, query url.Values) (*yahooChart, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s",
		p.BaseURL, url.PathEscape(p.yahooSymbol(symbol)), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}

	var chart yahooChart
	decodeErr := json.Unmarshal(body, &chart)
	if decodeErr == nil && chart.Chart.Error != nil {
		return nil, &APIError{Code: chart.Chart.Error.Code, Description: chart.Chart.Error.Description}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, truncate(string(body), 200))
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("yahoo decode: %w", decodeErr)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}
	return &chart, nil
}

// History downloads daily bars for [start, end] and returns them as a frame.
func (p *YahooProvider) History(ctx context.Context, symbol string, start, end time.Time) (*model.Frame, error) {
	q := url.Values{}
	q.Set("period1", fmt.Sprint(start.Unix()))
	q.Set("period2", fmt.Sprint(end.Unix()))
	q.Set("interval", "1d")
	q.Set("includeAdjustedClose", "true")

	chart, err := p.fetchChart(ctx, symbol, q)
	if err != nil {
		return nil, err
	}
	result := chart.Chart.Result[0]
	if len(result.Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}

	frame := &model.Frame{Symbol: result.Meta.Symbol, Fields: map[string]model.RawSeries{}}
	// Report the caller's alias when Yahoo echoes the ticker it was mapped to.
	if strings.EqualFold(result.Meta.Symbol, p.yahooSymbol(symbol)) {
		frame.Symbol = symbol
	}
	dates := make([]time.Time, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		dates[i] = calendarDate(ts, result.Meta.GMTOffset)
	}
	if len(result.Indicators.Quote) > 0 {
		quote := result.Indicators.Quote[0]
		frame.Fields["open"] = zipSeries(dates, quote.Open)
		frame.Fields["high"] = zipSeries(dates, quote.High)
		frame.Fields["low"] = zipSeries(dates, quote.Low)
		frame.Fields["close"] = zipSeries(dates, quote.Close)
	}
	if len(result.Indicators.AdjClose) > 0 {
		frame.Fields["adjclose"] = zipSeries(dates, result.Indicators.AdjClose[0].AdjClose)
	}
	return frame, nil
}

// Dividends downloads the complete dividend history of ticker.
func (p *YahooProvider) Dividends(ctx context.Context, ticker string) (model.RawSeries, error) {
	q := url.Values{}
	q.Set("range", "max")
	q.Set("interval", "1d")
	q.Set("events", "div")

	chart, err := p.fetchChart(ctx, ticker, q)
	if err != nil {
		return nil, err
	}
	result := chart.Chart.Result[0]
	series := make(model.RawSeries, 0, len(result.Events.Dividends))
	for _, d := range result.Events.Dividends {
		series = append(series, model.RawPoint{
			Date:  calendarDate(d.Date, result.Meta.GMTOffset),
			Value: d.Amount,
		})
	}
	return sortUnique(series), nil
}

// calendarDate converts a unix timestamp to the exchange-local calendar day.
func calendarDate(ts, gmtOffset int64) time.Time {
	t := time.Unix(ts+gmtOffset, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func zipSeries(dates []time.Time, values []any) model.RawSeries {
	series := make(model.RawSeries, 0, len(dates))
	for i, d := range dates {
		var v any
		if i < len(values) {
			v = values[i]
		}
		series = append(series, model.RawPoint{Date: d, Value: v})
	}
	return sortUnique(series)
}

// sortUnique orders points by date and keeps the last point of each day.
func sortUnique(series model.RawSeries) model.RawSeries {
	sort.SliceStable(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	out := series[:0]
	for _, p := range series {
		if n := len(out); n > 0 && out[n-1].Date.Equal(p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

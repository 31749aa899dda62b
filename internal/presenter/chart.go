package presenter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/shopspring/decimal"

	"MarketLens/internal/calculator"
	"MarketLens/internal/model"
)

// Chart describes a line chart with a horizontal mean reference line.
type Chart struct {
	Title       string
	XLabel      string
	YLabel      string
	SeriesLabel string
	MeanLabel   string
	Series      model.Series
	Mean        float64
	Precision   int  // decimals used for the mean and point labels
	Annotate    bool // label every point with its value
}

// Presenter displays a chart and blocks until it is dismissed.
type Presenter interface {
	Present(ctx context.Context, c Chart) error
}

// FormatFixed formats v rounded half away from zero to prec decimals.
func FormatFixed(v float64, prec int) string {
	return decimal.NewFromFloat(v).StringFixed(int32(prec))
}

// Render writes c as a standalone HTML page.
func Render(c Chart, w io.Writer) error {
	if len(c.Series) == 0 {
		return fmt.Errorf("render %q: empty series", c.Title)
	}

	yAxis := opts.YAxis{Name: c.YLabel}
	if high, low, err := calculator.Range(c.Series); err == nil {
		if c.Mean > high {
			high = c.Mean
		}
		if c.Mean < low {
			low = c.Mean
		}
		lo, hi := calculator.PaddedBounds(high, low, 0.05)
		yAxis.Min = roundTo(lo, c.Precision)
		yAxis.Max = roundTo(hi, c.Precision)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: c.Title,
			Width:     "1000px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{Title: c.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true, Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: c.XLabel}),
		charts.WithYAxisOpts(yAxis),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
	)

	values := make([]opts.LineData, len(c.Series))
	means := make([]opts.LineData, len(c.Series))
	for i, p := range c.Series {
		values[i] = opts.LineData{Value: p.Value}
		means[i] = opts.LineData{Value: c.Mean}
	}

	valueOpts := []charts.SeriesOpts{
		charts.WithLineStyleOpts(opts.LineStyle{Color: "blue", Width: 1.5}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "blue"}),
	}
	if c.Annotate {
		valueOpts = append(valueOpts, charts.WithLabelOpts(opts.Label{
			Show:      true,
			Position:  "top",
			Formatter: opts.FuncOpts(pointLabelFunc(c.Series, c.Precision)),
		}))
	}

	line.SetXAxis(c.Series.Dates()).
		AddSeries(c.SeriesLabel, values, valueOpts...).
		AddSeries(c.MeanLabel, means,
			charts.WithLineStyleOpts(opts.LineStyle{Color: "red", Type: "dashed", Width: 1.5}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "red"}),
		)

	return line.Render(w)
}

// pointLabelFunc returns a JS label formatter that looks up each point's
// label, formatted with FormatFixed so points and legend round alike.
// Labels are numeric strings, so single quotes never need escaping.
func pointLabelFunc(s model.Series, prec int) string {
	labels := make([]string, len(s))
	for i, p := range s {
		labels[i] = "'" + FormatFixed(p.Value, prec) + "'"
	}
	return fmt.Sprintf("function (p) { return [%s][p.dataIndex]; }", strings.Join(labels, ","))
}

func roundTo(v float64, prec int) float64 {
	f, _ := decimal.NewFromFloat(v).Round(int32(prec)).Float64()
	return f
}

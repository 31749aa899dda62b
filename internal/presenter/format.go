package presenter

import (
	"fmt"
	"strconv"
	"strings"

	"MarketLens/internal/model"
)

// FormatDividendReport formats the dividends found for ticker in the window.
func FormatDividendReport(ticker, start, end string, dividends model.Series, mean float64) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Dividend information for %s (%s ~ %s):\n", ticker, start, end))
	b.WriteString("Date        Dividends\n")
	for _, d := range dividends {
		b.WriteString(fmt.Sprintf("%s  %s\n", d.Date.Format(model.DateLayout), strconv.FormatFloat(d.Value, 'f', -1, 64)))
	}
	b.WriteString(fmt.Sprintf("Average: %s\n", FormatFixed(mean, 3)))
	return b.String()
}

// FormatNoDividends formats the message printed when the window is empty.
func FormatNoDividends(ticker, start, end string) string {
	return fmt.Sprintf("No dividend information found for %s. (Period: %s ~ %s)\n", ticker, start, end)
}

// RateChart builds the exchange-rate chart description.
func RateChart(series model.Series, mean float64) Chart {
	return Chart{
		Title:       "KRW/USD Exchange Rate Over the Last 3 Years",
		XLabel:      "Date",
		YLabel:      "Exchange Rate (KRW/USD)",
		SeriesLabel: "KRW/USD Exchange Rate",
		MeanLabel:   fmt.Sprintf("Average Rate: %s KRW/USD", FormatFixed(mean, 2)),
		Series:      series,
		Mean:        mean,
		Precision:   2,
	}
}

// DividendChart builds the dividend chart description.
func DividendChart(ticker, start, end string, series model.Series, mean float64) Chart {
	return Chart{
		Title:       fmt.Sprintf("%s Dividends (%s ~ %s)", ticker, start, end),
		XLabel:      "Date",
		YLabel:      "Dividends",
		SeriesLabel: "Dividends",
		MeanLabel:   fmt.Sprintf("Average: %s", FormatFixed(mean, 3)),
		Series:      series,
		Mean:        mean,
		Precision:   3,
		Annotate:    true,
	}
}

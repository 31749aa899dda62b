package calculator

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"MarketLens/internal/model"
)

// Clean coerces every raw value to float64 and drops the entries that are
// missing, non-numeric or not finite. Order is preserved.
func Clean(raw model.RawSeries) model.Series {
	out := make(model.Series, 0, len(raw))
	for _, p := range raw {
		v, ok := ToFloat(p.Value)
		if !ok {
			continue
		}
		out = append(out, model.Point{Date: p.Date, Value: v})
	}
	return out
}

// ToFloat converts a provider value to a finite float64.
func ToFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Mean returns the arithmetic mean of the series values.
// ok is false when the series is empty.
func Mean(s model.Series) (mean float64, ok bool) {
	if len(s) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, p := range s {
		sum += p.Value
	}
	return sum / float64(len(s)), true
}

// Summarize cleans raw and computes the mean of what remains.
func Summarize(raw model.RawSeries) (cleaned model.Series, mean float64, ok bool) {
	cleaned = Clean(raw)
	mean, ok = Mean(cleaned)
	return cleaned, mean, ok
}

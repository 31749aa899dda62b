package calculator

import (
	"errors"
	"math"

	"MarketLens/internal/model"
)

// Range scans the series and returns its highest and lowest values.
func Range(s model.Series) (high, low float64, err error) {
	if len(s) == 0 {
		return 0, 0, errors.New("no points provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, p := range s {
		if p.Value > high {
			high = p.Value
		}
		if p.Value < low {
			low = p.Value
		}
	}
	return high, low, nil
}

// PaddedBounds widens [low, high] by frac of its span on each side so a flat
// mean line never sits on the chart border. A zero span is padded by frac of
// the magnitude instead.
func PaddedBounds(high, low, frac float64) (lo, hi float64) {
	span := high - low
	if span == 0 {
		span = math.Abs(high)
		if span == 0 {
			span = 1
		}
	}
	return low - span*frac, high + span*frac
}

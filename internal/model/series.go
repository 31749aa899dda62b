package model

import (
	"sort"
	"time"
)

// DateLayout is the calendar-date format used for window bounds and display.
const DateLayout = "2006-01-02"

// RawPoint is a single provider observation before numeric coercion.
// Value may be a number, a string, or nil.
type RawPoint struct {
	Date  time.Time
	Value any
}

// RawSeries is an ordered sequence of raw observations.
type RawSeries []RawPoint

// Point is a cleaned observation holding a finite value.
type Point struct {
	Date  time.Time
	Value float64
}

// Series is an ordered sequence of cleaned observations.
type Series []Point

// Dates returns the point dates formatted with DateLayout.
func (s Series) Dates() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Date.Format(DateLayout)
	}
	return out
}

// Values returns the point values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Frame is the provider's tabular answer to a history query: the symbol it
// reports plus one raw series per field (open, high, low, close, adjclose).
type Frame struct {
	Symbol string
	Fields map[string]RawSeries
}

// FieldNames lists the fields present in the frame, sorted.
func (f *Frame) FieldNames() []string {
	if f == nil {
		return nil
	}
	names := make([]string, 0, len(f.Fields))
	for name := range f.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

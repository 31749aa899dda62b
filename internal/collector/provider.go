package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"MarketLens/internal/model"
)

var (
	// ErrNoData is returned when a provider answers with an empty result.
	ErrNoData = errors.New("no data returned")
	// ErrSymbolMismatch is returned when a frame is for another symbol.
	ErrSymbolMismatch = errors.New("symbol mismatch")
	// ErrMissingField is returned when a frame lacks the expected field.
	ErrMissingField = errors.New("missing field")
	// ErrNotNumeric is returned when no value of the expected field is a number.
	ErrNotNumeric = errors.New("no numeric values")
)

// APIError is an error reported by the provider in its response body.
type APIError struct {
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider api error: %s: %s", e.Code, e.Description)
}

// Provider is the market-data query contract the fetchers depend on.
type Provider interface {
	// History returns a table of field values indexed by date for [start, end].
	History(ctx context.Context, symbol string, start, end time.Time) (*model.Frame, error)
	// Dividends returns the full dividend history of ticker.
	Dividends(ctx context.Context, ticker string) (model.RawSeries, error)
	Name() string
}

package collector

import (
	"errors"
	"time"

	"StockCharter/internal/model"
)

// ErrNoData signals that the upstream provider completed the request but
// returned an empty series for the range.
var ErrNoData = errors.New("provider returned no data")

// Fetcher defines the interface for fetching daily market data over a
// closed date range.
type Fetcher interface {
	FetchDailyBars(symbol string, start, end time.Time) ([]model.Bar, error)
	Name() string
}

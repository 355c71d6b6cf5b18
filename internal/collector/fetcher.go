package collector

import (
	"context"
	"errors"

	"AlphaSentinel/internal/model"
)

// ErrNoData is returned when the exchange answers with an empty candle list.
var ErrNoData = errors.New("no candles returned")

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// Ping checks that the market data source is reachable.
	Ping(ctx context.Context) error
	// FetchCandles returns up to limit bars for symbol, ordered oldest first.
	FetchCandles(ctx context.Context, symbol, timeframe string, limit int) (*model.PriceSeries, error)
	Name() string
}

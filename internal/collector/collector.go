package collector

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"AlphaSentinel/internal/calculator"
	"AlphaSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Pairs without explicit data get a generated series around Price.
type MockFetcher struct {
	Price   float64
	Data    map[string][]model.OHLCV
	Errors  map[string]error
	PingErr error

	mu    sync.Mutex
	calls []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Ping(_ context.Context) error { return m.PingErr }

func (m *MockFetcher) FetchCandles(ctx context.Context, symbol, timeframe string, limit int) (*model.PriceSeries, error) {
	m.mu.Lock()
	m.calls = append(m.calls, symbol)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	bars, ok := m.Data[symbol]
	if !ok {
		bars = generateMockBars(m.Price, limit)
	}
	if len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}
	return &model.PriceSeries{Symbol: symbol, Timeframe: timeframe, Bars: bars, FetchedAt: time.Now()}, nil
}

// Calls returns the symbols requested so far, in order.
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	if basePrice <= 0 {
		basePrice = 100
	}
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + 0.01*math.Sin(float64(i)/5))
		bars[i] = model.OHLCV{
			Time:   time.Now().Add(-time.Duration(count-i) * 15 * time.Minute),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000,
		}
	}
	return bars
}

// Collector fetches a pair's candles and computes its indicators.
type Collector struct {
	Fetcher   Fetcher
	Timeframe string
	Limit     int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, timeframe string, limit int) *Collector {
	return &Collector{Fetcher: fetcher, Timeframe: timeframe, Limit: limit}
}

// Collect fetches market data for pair and computes the indicator snapshot.
// ok is false when the exchange returned fewer bars than the minimum window.
func (c *Collector) Collect(ctx context.Context, pair string) (snap *model.IndicatorSnapshot, bars int, ok bool, err error) {
	series, err := c.Fetcher.FetchCandles(ctx, pair, c.Timeframe, c.Limit)
	if err != nil {
		return nil, 0, false, fmt.Errorf("fetch candles: %w", err)
	}
	snap, ok, err = calculator.Analyze(series)
	if err != nil {
		return nil, series.Len(), false, fmt.Errorf("analyze: %w", err)
	}
	return snap, series.Len(), ok, nil
}

package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds the candles of one pair and timeframe, oldest first.
type PriceSeries struct {
	Symbol    string
	Timeframe string
	Bars      []OHLCV
	FetchedAt time.Time
}

// Closes returns the close prices of the series in order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int { return len(s.Bars) }

package calculator

import "errors"

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateEMASeries returns the exponential moving average at every point of prices.
// The average is seeded with the first price and smoothed with alpha = 2/(period+1).
func CalculateEMASeries(prices []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(prices) == 0 {
		return nil, errors.New("no prices for EMA calculation")
	}
	alpha := 2.0 / float64(period+1)
	out := make([]float64, len(prices))
	ema := prices[0]
	out[0] = ema
	for i := 1; i < len(prices); i++ {
		// Incremental form keeps a constant series exactly constant.
		ema += alpha * (prices[i] - ema)
		out[i] = ema
	}
	return out, nil
}

// CalculateEMA returns the most recent EMA value over prices.
func CalculateEMA(prices []float64, period int) (float64, error) {
	series, err := CalculateEMASeries(prices, period)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1], nil
}

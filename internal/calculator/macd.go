package calculator

import "fmt"

// MACD periods.
const (
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9
)

// CalculateMACDDelta returns the latest MACD histogram value:
// (EMA12 - EMA26) minus the 9-period EMA of that line.
func CalculateMACDDelta(closes []float64) (float64, error) {
	fast, err := CalculateEMASeries(closes, MACDFastPeriod)
	if err != nil {
		return 0, fmt.Errorf("macd fast ema: %w", err)
	}
	slow, err := CalculateEMASeries(closes, MACDSlowPeriod)
	if err != nil {
		return 0, fmt.Errorf("macd slow ema: %w", err)
	}

	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fast[i] - slow[i]
	}
	signal, err := CalculateEMASeries(line, MACDSignalPeriod)
	if err != nil {
		return 0, fmt.Errorf("macd signal ema: %w", err)
	}
	n := len(line) - 1
	return line[n] - signal[n], nil
}

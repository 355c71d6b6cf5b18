package calculator

import (
	"errors"
	"math"
)

// NeutralRSI is returned whenever the RSI cannot be derived from the window.
const NeutralRSI = 50.0

// CalculateRSI computes the RSI from simple averages of the last `period` price changes.
// Returns 50.0 if fewer than `period` changes exist or the window contains no losses.
func CalculateRSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) < period+1 {
		return NeutralRSI, nil // default when data insufficient
	}

	var gains, losses float64
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change // make positive
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	// RS is unbounded without losses; treat it as neutral rather than 100.
	if avgLoss == 0 {
		return NeutralRSI, nil
	}
	rs := avgGain / avgLoss
	rsi := 100.0 - 100.0/(1.0+rs)
	if math.IsNaN(rsi) {
		return NeutralRSI, nil
	}
	return rsi, nil
}

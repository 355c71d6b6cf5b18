package calculator

import (
	"fmt"

	"AlphaSentinel/internal/model"
)

// Window and indicator periods used by Analyze.
const (
	MinimumWindow = 50
	RSIPeriod     = 14
	EMAFastPeriod = 20
	EMASlowPeriod = 50
)

// Analyze computes the indicator snapshot for a price series.
// ok is false when the series is shorter than MinimumWindow; that is not an error.
func Analyze(series *model.PriceSeries) (snap *model.IndicatorSnapshot, ok bool, err error) {
	if series == nil || series.Len() < MinimumWindow {
		return nil, false, nil
	}
	closes := series.Closes()

	rsi, err := CalculateRSI(closes, RSIPeriod)
	if err != nil {
		return nil, false, fmt.Errorf("rsi: %w", err)
	}
	emaFast, err := CalculateEMA(closes, EMAFastPeriod)
	if err != nil {
		return nil, false, fmt.Errorf("ema%d: %w", EMAFastPeriod, err)
	}
	emaSlow, err := CalculateEMA(closes, EMASlowPeriod)
	if err != nil {
		return nil, false, fmt.Errorf("ema%d: %w", EMASlowPeriod, err)
	}
	macd, err := CalculateMACDDelta(closes)
	if err != nil {
		return nil, false, err
	}

	return &model.IndicatorSnapshot{
		CurrentPrice: closes[len(closes)-1],
		RSI:          rsi,
		EMAFast:      emaFast,
		EMASlow:      emaSlow,
		MACDDelta:    macd,
	}, true, nil
}

package model

// IndicatorSnapshot holds the indicators computed for one analysis cycle.
type IndicatorSnapshot struct {
	CurrentPrice float64
	RSI          float64 // 14-period, 0~100
	EMAFast      float64 // 20-period
	EMASlow      float64 // 50-period
	MACDDelta    float64 // MACD line minus its 9-period signal line
}

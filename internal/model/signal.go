package model

// Direction is the side of a trade recommendation.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// MACDBias labels the sign of the MACD histogram.
type MACDBias string

const (
	MACDPositive MACDBias = "Positive"
	MACDNegative MACDBias = "Negative"
)

// BiasOf returns the bias label for a MACD delta. Zero counts as negative.
func BiasOf(macdDelta float64) MACDBias {
	if macdDelta > 0 {
		return MACDPositive
	}
	return MACDNegative
}

// Signal is a scored trade recommendation produced by the strategy engine.
type Signal struct {
	Direction  Direction
	Pair       string
	EntryPrice float64
	TakeProfit float64
	StopLoss   float64
	Confidence int // 70~95
	RSI        float64
	MACDBias   MACDBias
}

// TakeProfitPct returns the take-profit distance from entry in percent.
func (s *Signal) TakeProfitPct() float64 {
	return pctChange(s.EntryPrice, s.TakeProfit)
}

// StopLossPct returns the stop-loss distance from entry in percent.
func (s *Signal) StopLossPct() float64 {
	return pctChange(s.EntryPrice, s.StopLoss)
}

func pctChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to - from) / from * 100
}

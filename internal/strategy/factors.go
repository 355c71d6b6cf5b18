package strategy

import (
	"math"

	"AlphaSentinel/internal/model"
)

// Thresholds of the momentum rules.
const (
	OversoldRSI   = 35.0
	OverboughtRSI = 65.0

	BaseConfidence  = 60.0
	TrendBonus      = 10.0
	MaxConfidence   = 95.0
	ConfidenceFloor = 70.0
)

// Exit levels relative to the entry price.
const (
	LongTakeProfit  = 1.025
	LongStopLoss    = 0.985
	ShortTakeProfit = 0.975
	ShortStopLoss   = 1.015
)

// candidate is a direction that passed its entry rule, before the confidence floor.
type candidate struct {
	direction  model.Direction
	confidence float64
	takeProfit float64
	stopLoss   float64
}

// longCandidate: oversold RSI, price above EMA20, MACD histogram positive.
// Price above EMA50 adds the trend bonus.
func longCandidate(s *model.IndicatorSnapshot) (candidate, bool) {
	if !(s.RSI < OversoldRSI && s.CurrentPrice > s.EMAFast && s.MACDDelta > 0) {
		return candidate{}, false
	}
	conf := BaseConfidence + (OversoldRSI - s.RSI)
	if s.CurrentPrice > s.EMASlow {
		conf += TrendBonus
	}
	return candidate{
		direction:  model.DirectionLong,
		confidence: math.Min(MaxConfidence, conf),
		takeProfit: s.CurrentPrice * LongTakeProfit,
		stopLoss:   s.CurrentPrice * LongStopLoss,
	}, true
}

// shortCandidate: overbought RSI, price below EMA20, MACD histogram negative.
// Price below EMA50 adds the trend bonus.
func shortCandidate(s *model.IndicatorSnapshot) (candidate, bool) {
	if !(s.RSI > OverboughtRSI && s.CurrentPrice < s.EMAFast && s.MACDDelta < 0) {
		return candidate{}, false
	}
	conf := BaseConfidence + (s.RSI - OverboughtRSI)
	if s.CurrentPrice < s.EMASlow {
		conf += TrendBonus
	}
	return candidate{
		direction:  model.DirectionShort,
		confidence: math.Min(MaxConfidence, conf),
		takeProfit: s.CurrentPrice * ShortTakeProfit,
		stopLoss:   s.CurrentPrice * ShortStopLoss,
	}, true
}

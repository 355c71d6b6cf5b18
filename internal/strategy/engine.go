package strategy

import (
	"math"

	"AlphaSentinel/internal/model"
)

// Evaluate maps an indicator snapshot to at most one signal for the pair.
// It returns false when no rule matches or the confidence is below ConfidenceFloor.
func Evaluate(pair string, snap *model.IndicatorSnapshot) (*model.Signal, bool) {
	if snap == nil || !finite(snap) {
		return nil, false
	}

	c, ok := longCandidate(snap)
	if !ok {
		c, ok = shortCandidate(snap)
	}
	if !ok || c.confidence < ConfidenceFloor {
		return nil, false
	}

	return &model.Signal{
		Direction:  c.direction,
		Pair:       pair,
		EntryPrice: snap.CurrentPrice,
		TakeProfit: c.takeProfit,
		StopLoss:   c.stopLoss,
		Confidence: int(c.confidence),
		RSI:        snap.RSI,
		MACDBias:   model.BiasOf(snap.MACDDelta),
	}, true
}

func finite(s *model.IndicatorSnapshot) bool {
	for _, v := range []float64{s.CurrentPrice, s.RSI, s.EMAFast, s.EMASlow, s.MACDDelta} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

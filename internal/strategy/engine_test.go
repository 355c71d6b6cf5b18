package strategy

import (
	"math"
	"reflect"
	"testing"

	"AlphaSentinel/internal/model"
)

func TestEvaluate_LongWithTrendBonus(t *testing.T) {
	snap := &model.IndicatorSnapshot{
		CurrentPrice: 100,
		RSI:          25,
		EMAFast:      98,
		EMASlow:      95,
		MACDDelta:    0.5,
	}
	sig, ok := Evaluate("BTC/USDT", snap)
	if !ok {
		t.Fatal("expected a LONG signal")
	}
	if sig.Direction != model.DirectionLong {
		t.Errorf("expected LONG, got %s", sig.Direction)
	}
	if sig.Confidence != 80 {
		t.Errorf("expected confidence 80, got %d", sig.Confidence)
	}
	if sig.TakeProfit != 100*LongTakeProfit || sig.StopLoss != 100*LongStopLoss {
		t.Errorf("unexpected exits tp=%v sl=%v", sig.TakeProfit, sig.StopLoss)
	}
	if sig.Pair != "BTC/USDT" || sig.EntryPrice != 100 || sig.RSI != 25 {
		t.Errorf("unexpected echo fields: %+v", sig)
	}
	if sig.MACDBias != model.MACDPositive {
		t.Errorf("expected Positive bias, got %s", sig.MACDBias)
	}
}

func TestEvaluate_ShortWithTrendBonus(t *testing.T) {
	snap := &model.IndicatorSnapshot{
		CurrentPrice: 100,
		RSI:          75,
		EMAFast:      102,
		EMASlow:      105,
		MACDDelta:    -0.3,
	}
	sig, ok := Evaluate("ETH/USDT", snap)
	if !ok {
		t.Fatal("expected a SHORT signal")
	}
	if sig.Direction != model.DirectionShort {
		t.Errorf("expected SHORT, got %s", sig.Direction)
	}
	if sig.Confidence != 80 {
		t.Errorf("expected confidence 80, got %d", sig.Confidence)
	}
	if sig.TakeProfit != 100*ShortTakeProfit || sig.StopLoss != 100*ShortStopLoss {
		t.Errorf("unexpected exits tp=%v sl=%v", sig.TakeProfit, sig.StopLoss)
	}
	if sig.MACDBias != model.MACDNegative {
		t.Errorf("expected Negative bias, got %s", sig.MACDBias)
	}
}

func TestEvaluate_ConfidenceBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		snap     model.IndicatorSnapshot
		wantOK   bool
		wantConf int
	}{
		{"long at floor", model.IndicatorSnapshot{CurrentPrice: 100, RSI: 25, EMAFast: 99, EMASlow: 110, MACDDelta: 1}, true, 70},
		{"long below floor", model.IndicatorSnapshot{CurrentPrice: 100, RSI: 30, EMAFast: 99, EMASlow: 110, MACDDelta: 1}, false, 0},
		{"long rescued by bonus", model.IndicatorSnapshot{CurrentPrice: 100, RSI: 30, EMAFast: 99, EMASlow: 90, MACDDelta: 1}, true, 75},
		{"long clamped", model.IndicatorSnapshot{CurrentPrice: 100, RSI: 5, EMAFast: 99, EMASlow: 90, MACDDelta: 1}, true, 95},
		{"long fractional truncated", model.IndicatorSnapshot{CurrentPrice: 100, RSI: 24.4, EMAFast: 99, EMASlow: 110, MACDDelta: 1}, true, 70},
		{"short at floor", model.IndicatorSnapshot{CurrentPrice: 100, RSI: 75, EMAFast: 101, EMASlow: 90, MACDDelta: -1}, true, 70},
		{"short below floor", model.IndicatorSnapshot{CurrentPrice: 100, RSI: 70, EMAFast: 101, EMASlow: 90, MACDDelta: -1}, false, 0},
		{"short clamped", model.IndicatorSnapshot{CurrentPrice: 100, RSI: 99, EMAFast: 101, EMASlow: 110, MACDDelta: -1}, true, 95},
	}
	for _, tt := range tests {
		sig, ok := Evaluate("BNB/USDT", &tt.snap)
		if ok != tt.wantOK {
			t.Errorf("%s: expected ok=%v, got %v", tt.name, tt.wantOK, ok)
			continue
		}
		if ok && sig.Confidence != tt.wantConf {
			t.Errorf("%s: expected confidence %d, got %d", tt.name, tt.wantConf, sig.Confidence)
		}
	}
}

func TestEvaluate_RulesRequireAllConditions(t *testing.T) {
	tests := []struct {
		name string
		snap model.IndicatorSnapshot
	}{
		{"neutral rsi", model.IndicatorSnapshot{CurrentPrice: 100, RSI: 50, EMAFast: 99, EMASlow: 90, MACDDelta: 1}},
		{"long price below ema20", model.IndicatorSnapshot{CurrentPrice: 100, RSI: 20, EMAFast: 101, EMASlow: 90, MACDDelta: 1}},
		{"long macd negative", model.IndicatorSnapshot{CurrentPrice: 100, RSI: 20, EMAFast: 99, EMASlow: 90, MACDDelta: -1}},
		{"long macd zero", model.IndicatorSnapshot{CurrentPrice: 100, RSI: 20, EMAFast: 99, EMASlow: 90, MACDDelta: 0}},
		{"rsi exactly 35", model.IndicatorSnapshot{CurrentPrice: 100, RSI: 35, EMAFast: 99, EMASlow: 90, MACDDelta: 1}},
		{"short price above ema20", model.IndicatorSnapshot{CurrentPrice: 100, RSI: 80, EMAFast: 99, EMASlow: 110, MACDDelta: -1}},
		{"short macd positive", model.IndicatorSnapshot{CurrentPrice: 100, RSI: 80, EMAFast: 101, EMASlow: 110, MACDDelta: 1}},
		{"rsi exactly 65", model.IndicatorSnapshot{CurrentPrice: 100, RSI: 65, EMAFast: 101, EMASlow: 110, MACDDelta: -1}},
		{"nan rsi", model.IndicatorSnapshot{CurrentPrice: 100, RSI: math.NaN(), EMAFast: 99, EMASlow: 90, MACDDelta: 1}},
	}
	for _, tt := range tests {
		if sig, ok := Evaluate("SOL/USDT", &tt.snap); ok {
			t.Errorf("%s: expected no signal, got %+v", tt.name, sig)
		}
	}
	if _, ok := Evaluate("SOL/USDT", nil); ok {
		t.Error("nil snapshot should yield no signal")
	}
}

func TestEvaluate_FloorClampAndExclusivity(t *testing.T) {
	for rsi := 0.0; rsi <= 100; rsi += 0.25 {
		for _, fast := range []float64{95, 105} {
			for _, slow := range []float64{90, 110} {
				for _, macd := range []float64{-2, 0, 2} {
					snap := &model.IndicatorSnapshot{CurrentPrice: 100, RSI: rsi, EMAFast: fast, EMASlow: slow, MACDDelta: macd}
					sig, ok := Evaluate("XRP/USDT", snap)
					if !ok {
						continue
					}
					if sig.Confidence < 70 || sig.Confidence > 95 {
						t.Fatalf("confidence %d out of range for %+v", sig.Confidence, snap)
					}
					if sig.Direction == model.DirectionLong && rsi >= OversoldRSI {
						t.Fatalf("LONG with rsi %.2f", rsi)
					}
					if sig.Direction == model.DirectionShort && rsi <= OverboughtRSI {
						t.Fatalf("SHORT with rsi %.2f", rsi)
					}
				}
			}
		}
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	snap := &model.IndicatorSnapshot{CurrentPrice: 27123.45, RSI: 22.7, EMAFast: 27000, EMASlow: 26500, MACDDelta: 3.2}
	a, okA := Evaluate("BTC/USDT", snap)
	b, okB := Evaluate("BTC/USDT", snap)
	if okA != okB || !reflect.DeepEqual(a, b) {
		t.Errorf("expected identical results, got %+v and %+v", a, b)
	}
}

func TestSignalPercentages(t *testing.T) {
	sig, ok := Evaluate("BTC/USDT", &model.IndicatorSnapshot{CurrentPrice: 200, RSI: 20, EMAFast: 190, EMASlow: 180, MACDDelta: 1})
	if !ok {
		t.Fatal("expected signal")
	}
	if math.Abs(sig.TakeProfitPct()-2.5) > 1e-9 {
		t.Errorf("expected +2.5%%, got %.6f", sig.TakeProfitPct())
	}
	if math.Abs(sig.StopLossPct()+1.5) > 1e-9 {
		t.Errorf("expected -1.5%%, got %.6f", sig.StopLossPct())
	}
}

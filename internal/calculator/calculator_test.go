package calculator

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"AlphaSentinel/internal/model"
)

func seriesOf(closes []float64) *model.PriceSeries {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{Time: start.Add(time.Duration(i) * 15 * time.Minute), Open: c, High: c, Low: c, Close: c}
	}
	return &model.PriceSeries{Symbol: "BTC/USDT", Timeframe: "15m", Bars: bars}
}

func TestCalculateRSI_KnownValue(t *testing.T) {
	rsi, err := CalculateRSI([]float64{10, 11, 10.5}, 2)
	if err != nil {
		t.Fatal(err)
	}
	// avgGain 0.5, avgLoss 0.25 -> RS 2
	if math.Abs(rsi-200.0/3.0) > 1e-9 {
		t.Errorf("expected RSI 66.67, got %.4f", rsi)
	}
}

func TestCalculateRSI_UsesLastWindowOnly(t *testing.T) {
	// Early losses fall outside the 3-change window.
	rsi, err := CalculateRSI([]float64{20, 10, 11, 12, 11}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(rsi-200.0/3.0) > 1e-9 {
		t.Errorf("expected RSI 66.67, got %.4f", rsi)
	}
}

func TestCalculateRSI_NeutralFallbacks(t *testing.T) {
	rising := make([]float64, 30)
	for i := range rising {
		rising[i] = 100 + float64(i)
	}
	tests := []struct {
		name   string
		closes []float64
	}{
		{"monotonic rise", rising},
		{"flat", []float64{5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5}},
		{"too short", []float64{1, 2, 3}},
		{"empty", nil},
	}
	for _, tt := range tests {
		rsi, err := CalculateRSI(tt.closes, 14)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if rsi != 50 {
			t.Errorf("%s: expected neutral RSI 50, got %.4f", tt.name, rsi)
		}
	}
}

func TestCalculateRSI_PureDecline(t *testing.T) {
	falling := make([]float64, 20)
	for i := range falling {
		falling[i] = 200 - float64(i)
	}
	rsi, err := CalculateRSI(falling, 14)
	if err != nil {
		t.Fatal(err)
	}
	if rsi != 0 {
		t.Errorf("expected RSI 0 without gains, got %.4f", rsi)
	}
}

func TestCalculateRSI_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for n := 0; n < 500; n++ {
		closes := make([]float64, 80)
		closes[0] = 100
		for i := 1; i < len(closes); i++ {
			closes[i] = math.Max(1, closes[i-1]+rng.NormFloat64()*2)
		}
		rsi, err := CalculateRSI(closes, 14)
		if err != nil {
			t.Fatal(err)
		}
		if rsi < 0 || rsi > 100 || math.IsNaN(rsi) {
			t.Fatalf("RSI out of bounds: %.4f", rsi)
		}
	}
}

func TestCalculateRSI_InvalidPeriod(t *testing.T) {
	if _, err := CalculateRSI([]float64{1, 2, 3}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestCalculateEMA_ConstantSeries(t *testing.T) {
	for _, p := range []float64{100, 0.1, 43210.57, 1e-8} {
		prices := make([]float64, 60)
		for i := range prices {
			prices[i] = p
		}
		for _, period := range []int{9, 12, 20, 26, 50} {
			ema, err := CalculateEMA(prices, period)
			if err != nil {
				t.Fatal(err)
			}
			if ema != p {
				t.Errorf("EMA(%d) of constant %v: got %v", period, p, ema)
			}
		}
	}
}

func TestCalculateEMA_SeededWithFirstValue(t *testing.T) {
	series, err := CalculateEMASeries([]float64{10, 20, 20}, 3)
	if err != nil {
		t.Fatal(err)
	}
	// alpha = 0.5
	want := []float64{10, 15, 17.5}
	for i := range want {
		if series[i] != want[i] {
			t.Errorf("ema[%d]: expected %v, got %v", i, want[i], series[i])
		}
	}
}

func TestCalculateEMA_Errors(t *testing.T) {
	if _, err := CalculateEMA(nil, 20); err == nil {
		t.Error("expected error for empty prices")
	}
	if _, err := CalculateEMA([]float64{1}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestCalculateSMA(t *testing.T) {
	sma, err := CalculateSMA([]float64{1, 2, 3, 4}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if sma != 3.5 {
		t.Errorf("expected 3.5, got %v", sma)
	}
	if _, err := CalculateSMA([]float64{1}, 2); err == nil {
		t.Error("expected error for short input")
	}
}

func TestCalculateMACDDelta_TrendSign(t *testing.T) {
	up := make([]float64, 60)
	down := make([]float64, 60)
	for i := range up {
		x := float64(i)
		up[i] = 100 + 0.05*x*x
		down[i] = 300 - 0.05*x*x
	}
	d, err := CalculateMACDDelta(up)
	if err != nil {
		t.Fatal(err)
	}
	if d <= 0 {
		t.Errorf("expected positive MACD delta in uptrend, got %v", d)
	}
	d, err = CalculateMACDDelta(down)
	if err != nil {
		t.Fatal(err)
	}
	if d >= 0 {
		t.Errorf("expected negative MACD delta in downtrend, got %v", d)
	}
}

func TestCalculateMACDDelta_Flat(t *testing.T) {
	flat := make([]float64, 60)
	for i := range flat {
		flat[i] = 42
	}
	d, err := CalculateMACDDelta(flat)
	if err != nil {
		t.Fatal(err)
	}
	if d != 0 {
		t.Errorf("expected zero MACD delta for flat series, got %v", d)
	}
}

func TestAnalyze_InsufficientData(t *testing.T) {
	for _, n := range []int{0, 1, 14, 49} {
		closes := make([]float64, n)
		for i := range closes {
			closes[i] = 100 + float64(i)
		}
		snap, ok, err := Analyze(seriesOf(closes))
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if ok || snap != nil {
			t.Errorf("n=%d: expected no analysis", n)
		}
	}
	if _, ok, err := Analyze(nil); ok || err != nil {
		t.Error("nil series should yield no analysis without error")
	}
}

func TestAnalyze_Snapshot(t *testing.T) {
	closes := make([]float64, 100)
	for i := range closes {
		closes[i] = 100 + float64(i%2)
	}
	snap, ok, err := Analyze(seriesOf(closes))
	if err != nil || !ok {
		t.Fatalf("expected analysis, ok=%v err=%v", ok, err)
	}
	if snap.CurrentPrice != closes[99] {
		t.Errorf("expected current price %v, got %v", closes[99], snap.CurrentPrice)
	}
	if snap.RSI != 50 {
		t.Errorf("expected RSI 50 for alternating series, got %v", snap.RSI)
	}
	wantFast, _ := CalculateEMA(closes, 20)
	wantSlow, _ := CalculateEMA(closes, 50)
	if snap.EMAFast != wantFast || snap.EMASlow != wantSlow {
		t.Errorf("ema mismatch: fast %v/%v slow %v/%v", snap.EMAFast, wantFast, snap.EMASlow, wantSlow)
	}
}

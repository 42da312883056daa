package ratios

import (
	"errors"
	"math"
	"testing"

	"fundamentals-analyzer/internal/types"
)

func TestCAGR(t *testing.T) {
	got, err := CAGR(100, 200, 5)
	if err != nil {
		t.Fatalf("CAGR returned error: %v", err)
	}
	if math.Abs(got-0.1487) > 0.0001 {
		t.Errorf("CAGR(100, 200, 5) = %f, want ~0.1487", got)
	}

	if got, _ := CAGR(100, 100, 3); got != 0 {
		t.Errorf("flat CAGR = %f, want 0", got)
	}

	invalid := []struct {
		name                  string
		initial, final, years float64
	}{
		{"zero initial", 0, 100, 5},
		{"negative initial", -10, 100, 5},
		{"zero years", 100, 200, 0},
		{"negative final", 100, -50, 5},
		{"nan final", 100, math.NaN(), 5},
	}
	for _, tc := range invalid {
		if _, err := CAGR(tc.initial, tc.final, tc.years); !errors.Is(err, types.ErrValidation) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestBetaMatchesManualComputation(t *testing.T) {
	asset := []float64{0.10, 0.20, 0.15}
	market := []float64{0.08, 0.18, 0.12}

	// means: asset 0.15, market 0.126666...
	ma := (0.10 + 0.20 + 0.15) / 3
	mm := (0.08 + 0.18 + 0.12) / 3
	cov := ((0.10-ma)*(0.08-mm) + (0.20-ma)*(0.18-mm) + (0.15-ma)*(0.12-mm)) / 2
	variance := ((0.08-mm)*(0.08-mm) + (0.18-mm)*(0.18-mm) + (0.12-mm)*(0.12-mm)) / 2
	want := cov / variance

	got, err := Beta(asset, market)
	if err != nil {
		t.Fatalf("Beta returned error: %v", err)
	}
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("Beta = %.8f, want %.8f", got, want)
	}
	if math.Abs(got-0.986842) > 1e-6 {
		t.Errorf("Beta = %.8f, want ~0.986842", got)
	}
}

func TestBetaPreconditions(t *testing.T) {
	cases := []struct {
		name          string
		asset, market []float64
	}{
		{"zero variance", []float64{0.1, 0.2, 0.3}, []float64{0.05, 0.05, 0.05}},
		{"near-zero variance", []float64{0.1, 0.2, 0.3}, []float64{0.05, 0.05 + 1e-15, 0.05}},
		{"constant large market", []float64{1, 2, 3, 4}, []float64{1234.56, 1234.56, 1234.56, 1234.56}},
		{"length mismatch", []float64{0.1, 0.2}, []float64{0.1, 0.2, 0.3}},
		{"too short", []float64{0.1}, []float64{0.2}},
		{"non-finite", []float64{0.1, math.Inf(1)}, []float64{0.2, 0.3}},
	}
	for _, tc := range cases {
		_, err := Beta(tc.asset, tc.market)
		var ve *types.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: expected *types.ValidationError, got %v", tc.name, err)
			continue
		}
		if ve.Calculator != NameBeta {
			t.Errorf("%s: calculator = %q, want %q", tc.name, ve.Calculator, NameBeta)
		}
	}
}

func TestFreeFloat(t *testing.T) {
	got, err := FreeFloat(1000, 250, 1000)
	if err != nil {
		t.Fatalf("FreeFloat returned error: %v", err)
	}
	if got != 75 {
		t.Errorf("FreeFloat = %f, want 75", got)
	}

	if _, err := FreeFloat(1000, 100, 0); !errors.Is(err, types.ErrValidation) {
		t.Errorf("expected validation error for zero total shares, got %v", err)
	}
	if _, err := FreeFloat(100, 200, 1000); !errors.Is(err, types.ErrValidation) {
		t.Errorf("expected validation error for restricted > outstanding, got %v", err)
	}
}

func TestWACC(t *testing.T) {
	// 60/40 split, Ke 12%, Kd 8%, tax 34%
	got, err := WACC(600, 400, 0.12, 0.08, 0.34)
	if err != nil {
		t.Fatalf("WACC returned error: %v", err)
	}
	want := 0.6*0.12 + 0.4*0.08*(1-0.34)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("WACC = %f, want %f", got, want)
	}

	if _, err := WACC(100, -100, 0.1, 0.05, 0.3); !errors.Is(err, types.ErrValidation) {
		t.Errorf("expected validation error for zero capital, got %v", err)
	}
}

func TestFCFF(t *testing.T) {
	got, err := FCFF(1000, 0.3, 200, 50, 300)
	if err != nil {
		t.Fatalf("FCFF returned error: %v", err)
	}
	if math.Abs(got-550) > 1e-9 {
		t.Errorf("FCFF = %f, want 550", got)
	}
}

func TestRatioAndUpside(t *testing.T) {
	if got, err := Ratio(50, 200); err != nil || got != 0.25 {
		t.Errorf("Ratio(50, 200) = %v, %v", got, err)
	}
	if _, err := Ratio(1, 0); !errors.Is(err, types.ErrValidation) {
		t.Errorf("expected validation error for zero denominator, got %v", err)
	}
	if got, err := RatioPct(50, 200); err != nil || got != 25 {
		t.Errorf("RatioPct(50, 200) = %v, %v", got, err)
	}

	got, err := Upside(120, 100)
	if err != nil || math.Abs(got-20) > 1e-9 {
		t.Errorf("Upside(120, 100) = %v, %v", got, err)
	}
	if _, err := Upside(0, 100); !errors.Is(err, types.ErrValidation) {
		t.Errorf("expected validation error for zero intrinsic price, got %v", err)
	}
}

func TestStats(t *testing.T) {
	if !math.IsNaN(Mean(nil)) {
		t.Error("Mean(nil) should be NaN")
	}
	if !math.IsNaN(SampleVariance([]float64{1})) {
		t.Error("SampleVariance of one observation should be NaN")
	}
	if got := SampleVariance([]float64{2, 4, 4, 4, 5, 5, 7, 9}); math.Abs(got-32.0/7.0) > 1e-12 {
		t.Errorf("SampleVariance = %f, want %f", got, 32.0/7.0)
	}
}

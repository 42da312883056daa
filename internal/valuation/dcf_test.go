package valuation

import (
	"errors"
	"math"
	"testing"

	"fundamentals-analyzer/internal/types"
)

func referenceInput() DCFInput {
	return DCFInput{
		CurrentFCF:         96_180_000_000,
		GrowthRate:         0.05,
		Years:              5,
		DiscountRate:       0.09,
		TerminalGrowthRate: 0.03,
		SharesOutstanding:  14_857_000_000,
		NetDebt:            46_330_000_000,
	}
}

func TestCalculateDCFReference(t *testing.T) {
	res, err := CalculateDCF(referenceInput())
	if err != nil {
		t.Fatalf("CalculateDCF returned error: %v", err)
	}

	if math.Abs(res.PresentValue-1.80e12)/1.80e12 > 0.001 {
		t.Errorf("PresentValue = %.0f, want ~1.80 trillion", res.PresentValue)
	}
	if math.Abs(res.EquityValue-1.754e12)/1.754e12 > 0.001 {
		t.Errorf("EquityValue = %.0f, want ~1.754 trillion", res.EquityValue)
	}
	if math.Abs(res.IntrinsicPrice-118.0) > 0.1 {
		t.Errorf("IntrinsicPrice = %.4f, want ~118.0", res.IntrinsicPrice)
	}

	if len(res.ProjectedFCF) != 5 || len(res.CashFlows) != 5 {
		t.Fatalf("expected 5 projected years, got %d / %d", len(res.ProjectedFCF), len(res.CashFlows))
	}
	// year 1 = 96.18bn * 1.05
	if math.Abs(res.ProjectedFCF[0]-100_989_000_000) > 1 {
		t.Errorf("ProjectedFCF[0] = %.0f, want 100989000000", res.ProjectedFCF[0])
	}
	for i := 0; i < 4; i++ {
		if res.CashFlows[i] != res.ProjectedFCF[i] {
			t.Errorf("CashFlows[%d] = %f, want projected %f", i, res.CashFlows[i], res.ProjectedFCF[i])
		}
	}
	if math.Abs(res.CashFlows[4]-(res.ProjectedFCF[4]+res.TerminalValue)) > 1e-3 {
		t.Errorf("last cash flow should include the terminal value")
	}

	wantTerminal := res.ProjectedFCF[4] * 1.03 / (0.09 - 0.03)
	if math.Abs(res.TerminalValue-wantTerminal) > 1 {
		t.Errorf("TerminalValue = %.0f, want %.0f", res.TerminalValue, wantTerminal)
	}
}

func TestCalculateDCFNetCash(t *testing.T) {
	in := referenceInput()
	in.NetDebt = -10_000_000_000

	res, err := CalculateDCF(in)
	if err != nil {
		t.Fatalf("CalculateDCF returned error: %v", err)
	}
	if res.EquityValue <= res.PresentValue {
		t.Errorf("net cash should raise equity value above present value")
	}
}

func TestCalculateDCFPreconditions(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*DCFInput)
	}{
		{"zero fcf", func(in *DCFInput) { in.CurrentFCF = 0 }},
		{"negative fcf", func(in *DCFInput) { in.CurrentFCF = -1 }},
		{"negative growth", func(in *DCFInput) { in.GrowthRate = -0.01 }},
		{"growth above cap", func(in *DCFInput) { in.GrowthRate = 0.51 }},
		{"zero years", func(in *DCFInput) { in.Years = 0 }},
		{"discount equals terminal", func(in *DCFInput) { in.DiscountRate = 0.03 }},
		{"discount below terminal", func(in *DCFInput) { in.DiscountRate = 0.02 }},
		{"terminal above cap", func(in *DCFInput) { in.TerminalGrowthRate = 0.06 }},
		{"negative terminal", func(in *DCFInput) { in.TerminalGrowthRate = -0.01 }},
		{"zero shares", func(in *DCFInput) { in.SharesOutstanding = 0 }},
		{"nan net debt", func(in *DCFInput) { in.NetDebt = math.NaN() }},
		{"infinite fcf", func(in *DCFInput) { in.CurrentFCF = math.Inf(1) }},
		{"infinite discount", func(in *DCFInput) { in.DiscountRate = math.Inf(1) }},
		{"infinite shares", func(in *DCFInput) { in.SharesOutstanding = math.Inf(1) }},
		{"nan discount", func(in *DCFInput) { in.DiscountRate = math.NaN() }},
	}

	for _, tc := range cases {
		in := referenceInput()
		tc.mutate(&in)
		res, err := CalculateDCF(in)
		if res != nil {
			t.Errorf("%s: expected no result", tc.name)
		}
		if !errors.Is(err, types.ErrValidation) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestSensitivity(t *testing.T) {
	grid := Sensitivity(referenceInput(), []float64{0.08, 0.09, 0.03}, []float64{0.02, 0.03})

	if len(grid.Cells) != 3 || len(grid.Cells[0]) != 2 {
		t.Fatalf("unexpected grid shape %dx%d", len(grid.Cells), len(grid.Cells[0]))
	}
	center := grid.Cells[1][1]
	if center.Err != nil || math.Abs(center.IntrinsicPrice-118.04) > 0.1 {
		t.Errorf("center cell = %+v, want ~118.04", center)
	}
	// lower discount rate -> higher value
	if grid.Cells[0][1].IntrinsicPrice <= center.IntrinsicPrice {
		t.Errorf("lower discount rate should raise intrinsic price")
	}
	// discount rate 3% with terminal 3% is invalid, 3% with 2% is valid
	if grid.Cells[2][1].Err == nil {
		t.Errorf("expected error for discount == terminal growth")
	}
	if grid.Cells[2][0].Err != nil {
		t.Errorf("unexpected error in valid cell: %v", grid.Cells[2][0].Err)
	}
}

func TestAround(t *testing.T) {
	got := Around(0.09, 0.01, 2)
	if len(got) != 5 {
		t.Fatalf("Around returned %d values, want 5", len(got))
	}
	if math.Abs(got[0]-0.07) > 1e-12 || math.Abs(got[4]-0.11) > 1e-12 {
		t.Errorf("Around = %v", got)
	}
}

func TestValuatorUsesCompanyFields(t *testing.T) {
	company := &types.CompanyData{
		Symbol: "TEST3",
		Fields: map[string]any{
			types.FieldFCF:          "96.180.000.000",
			types.FieldShares:       "14.857.000.000",
			types.FieldNetDebt:      "46.330.000.000",
			types.FieldMarketCap:    "600",
			types.FieldGrossDebt:    "400",
			types.FieldCostOfEquity: "12%",
			types.FieldTaxRate:      "-",
		},
	}

	v := NewValuator(types.ValuationConfig{
		GrowthRate:         0.05,
		Years:              5,
		TerminalGrowthRate: 0.03,
		CostOfDebt:         0.08,
		TaxRate:            0.34,
	})

	rate, err := v.DiscountRate(company)
	if err != nil {
		t.Fatalf("DiscountRate returned error: %v", err)
	}
	want := 0.6*0.12 + 0.4*0.08*(1-0.34)
	if math.Abs(rate-want) > 1e-12 {
		t.Errorf("DiscountRate = %f, want %f", rate, want)
	}

	fixed := NewValuator(types.ValuationConfig{
		GrowthRate: 0.05, Years: 5, TerminalGrowthRate: 0.03, DiscountRate: 0.09,
	})
	res, _, err := fixed.Value(company)
	if err != nil {
		t.Fatalf("Value returned error: %v", err)
	}
	if math.Abs(res.IntrinsicPrice-118.04) > 0.1 {
		t.Errorf("IntrinsicPrice = %f, want ~118.04", res.IntrinsicPrice)
	}

	broken := company.WithField(types.FieldFCF, "n/d")
	if _, _, err := fixed.Value(broken); !errors.Is(err, types.ErrNormalization) {
		t.Errorf("expected normalization error, got %v", err)
	}
}

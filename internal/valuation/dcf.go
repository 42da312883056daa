// Package valuation implements the discounted-cash-flow engine.
package valuation

import (
	"math"

	"fundamentals-analyzer/internal/ratios"
	"fundamentals-analyzer/internal/types"
)

const calculatorName = "dcf"

// DCFInput holds the assumptions of a single DCF computation
type DCFInput struct {
	CurrentFCF         float64 `json:"current_fcf"`
	GrowthRate         float64 `json:"growth_rate"`
	Years              int     `json:"years"`
	DiscountRate       float64 `json:"discount_rate"` // WACC
	TerminalGrowthRate float64 `json:"terminal_growth_rate"`
	SharesOutstanding  float64 `json:"shares_outstanding"`
	NetDebt            float64 `json:"net_debt"` // negative = net cash
}

// DCFResult holds the intermediate series and the final per-share value
type DCFResult struct {
	ProjectedFCF   []float64 `json:"projected_fcf"`
	CashFlows      []float64 `json:"cash_flows"`
	TerminalValue  float64   `json:"terminal_value"`
	PresentValue   float64   `json:"present_value"`
	EquityValue    float64   `json:"equity_value"`
	IntrinsicPrice float64   `json:"intrinsic_price"`
}

// Validate checks every precondition before anything is computed
func (in DCFInput) Validate() error {
	switch {
	case !finite(in.CurrentFCF) || in.CurrentFCF <= 0:
		return types.NewValidationError(calculatorName, "current FCF must be positive, got %g", in.CurrentFCF)
	case math.IsNaN(in.GrowthRate) || in.GrowthRate < 0 || in.GrowthRate > 0.5:
		return types.NewValidationError(calculatorName, "growth rate must be within [0, 0.5], got %g", in.GrowthRate)
	case in.Years <= 0:
		return types.NewValidationError(calculatorName, "years must be positive, got %d", in.Years)
	case math.IsNaN(in.TerminalGrowthRate) || in.TerminalGrowthRate < 0 || in.TerminalGrowthRate > 0.05:
		return types.NewValidationError(calculatorName,
			"terminal growth rate must be within [0, 0.05], got %g", in.TerminalGrowthRate)
	case !finite(in.DiscountRate) || in.DiscountRate <= in.TerminalGrowthRate:
		return types.NewValidationError(calculatorName,
			"discount rate %g must exceed terminal growth rate %g", in.DiscountRate, in.TerminalGrowthRate)
	case !finite(in.SharesOutstanding) || in.SharesOutstanding <= 0:
		return types.NewValidationError(calculatorName,
			"shares outstanding must be positive, got %g", in.SharesOutstanding)
	case !finite(in.NetDebt):
		return types.NewValidationError(calculatorName, "net debt must be a finite number")
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CalculateDCF projects FCF for the explicit period, adds a Gordon terminal
// value to the final year's cash flow and discounts everything at the
// discount rate.
func CalculateDCF(in DCFInput) (*DCFResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	projected := make([]float64, in.Years)
	for t := 1; t <= in.Years; t++ {
		projected[t-1] = in.CurrentFCF * math.Pow(1+in.GrowthRate, float64(t))
	}

	last := projected[in.Years-1]
	terminal := last * (1 + in.TerminalGrowthRate) / (in.DiscountRate - in.TerminalGrowthRate)

	// terminal value arrives together with the last explicit cash flow
	cashFlows := make([]float64, in.Years)
	copy(cashFlows, projected)
	cashFlows[in.Years-1] = last + terminal

	pv := PresentValueOfCashFlows(cashFlows, in.DiscountRate)
	equity := pv - in.NetDebt

	return &DCFResult{
		ProjectedFCF:   projected,
		CashFlows:      cashFlows,
		TerminalValue:  terminal,
		PresentValue:   pv,
		EquityValue:    equity,
		IntrinsicPrice: equity / in.SharesOutstanding,
	}, nil
}

// PresentValueOfCashFlows discounts end-of-period cash flows: sum CF_t / (1+r)^t
func PresentValueOfCashFlows(cashFlows []float64, discountRate float64) float64 {
	var pv float64
	for t, cf := range cashFlows {
		pv += cf / math.Pow(1+discountRate, float64(t+1))
	}
	return pv
}

// MarginOfSafety is the intrinsic price's upside over the market price, in percent
func MarginOfSafety(intrinsicPrice, marketPrice float64) (float64, error) {
	return ratios.Upside(intrinsicPrice, marketPrice)
}

package valuation

import (
	"fmt"
	"strings"

	"fundamentals-analyzer/internal/normalize"
	"fundamentals-analyzer/internal/ratios"
	"fundamentals-analyzer/internal/types"
)

// Valuator builds DCF inputs from a company's raw fields and the configured
// growth assumptions
type Valuator struct {
	cfg types.ValuationConfig
}

// NewValuator creates a valuator for the given assumptions
func NewValuator(cfg types.ValuationConfig) *Valuator {
	return &Valuator{cfg: cfg}
}

// Input assembles the DCFInput for a company. The discount rate is the
// configured one when set, otherwise WACC over market cap and gross debt.
func (v *Valuator) Input(company *types.CompanyData) (DCFInput, error) {
	fcf, err := field(company, types.FieldFCF)
	if err != nil {
		return DCFInput{}, err
	}
	shares, err := field(company, types.FieldShares)
	if err != nil {
		return DCFInput{}, err
	}
	netDebt, err := field(company, types.FieldNetDebt)
	if err != nil {
		return DCFInput{}, err
	}
	discount, err := v.DiscountRate(company)
	if err != nil {
		return DCFInput{}, err
	}

	return DCFInput{
		CurrentFCF:         fcf,
		GrowthRate:         v.cfg.GrowthRate,
		Years:              v.cfg.Years,
		DiscountRate:       discount,
		TerminalGrowthRate: v.cfg.TerminalGrowthRate,
		SharesOutstanding:  shares,
		NetDebt:            netDebt,
	}, nil
}

// DiscountRate returns the configured rate or the company's WACC. Company
// fields for cost of equity, cost of debt and tax rate override the
// configured defaults when present.
func (v *Valuator) DiscountRate(company *types.CompanyData) (float64, error) {
	if v.cfg.DiscountRate > 0 {
		return v.cfg.DiscountRate, nil
	}

	equity, err := field(company, types.FieldMarketCap)
	if err != nil {
		return 0, err
	}
	debt, err := field(company, types.FieldGrossDebt)
	if err != nil {
		return 0, err
	}
	ke, err := rateOr(company, types.FieldCostOfEquity, v.cfg.CostOfEquity)
	if err != nil {
		return 0, err
	}
	kd, err := rateOr(company, types.FieldCostOfDebt, v.cfg.CostOfDebt)
	if err != nil {
		return 0, err
	}
	tax, err := rateOr(company, types.FieldTaxRate, v.cfg.TaxRate)
	if err != nil {
		return 0, err
	}

	return ratios.WACC(equity, debt, ke, kd, tax)
}

// Value runs the DCF for a company
func (v *Valuator) Value(company *types.CompanyData) (*DCFResult, DCFInput, error) {
	in, err := v.Input(company)
	if err != nil {
		return nil, in, fmt.Errorf("building DCF input for %s: %w", company.Symbol, err)
	}
	res, err := CalculateDCF(in)
	if err != nil {
		return nil, in, fmt.Errorf("DCF for %s: %w", company.Symbol, err)
	}
	return res, in, nil
}

func field(company *types.CompanyData, label string) (float64, error) {
	f, err := normalize.Value(company.Raw(label))
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", label, err)
	}
	return f, nil
}

// rateOr reads a rate field as a fraction. Unlike the classification path,
// a percent-suffixed rate ("12,5%") is divided by 100 here because the DCF
// works on fractions.
func rateOr(company *types.CompanyData, label string, fallback float64) (float64, error) {
	raw := company.Raw(label)
	if raw == nil {
		return fallback, nil
	}
	s, isString := raw.(string)
	if isString && normalize.IsPlaceholder(s) {
		return fallback, nil
	}
	f, err := field(company, label)
	if err != nil {
		return 0, err
	}
	if isString && strings.HasSuffix(strings.TrimSpace(s), "%") {
		f /= 100
	}
	return f, nil
}

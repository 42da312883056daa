// Package ratios holds the pure calculators that derive a classifiable value
// from several raw inputs. Every precondition violation is reported as a
// *types.ValidationError; nothing falls back to a default.
package ratios

import (
	"math"

	"fundamentals-analyzer/internal/types"
)

// Calculator names, as referenced by the indicator rule tables
const (
	NameFreeFloat = "free_float"
	NameCAGR      = "cagr"
	NameBeta      = "beta"
	NameWACC      = "wacc"
	NameFCFF      = "fcff"
	NameRatio     = "ratio"
	NameRatioPct  = "ratio_pct"
	NameUpside    = "upside"
)

// FreeFloat = (sharesOutstanding - restrictedShares) / totalShares * 100
func FreeFloat(sharesOutstanding, restrictedShares, totalShares float64) (float64, error) {
	if !finite(sharesOutstanding, restrictedShares, totalShares) {
		return 0, types.NewValidationError(NameFreeFloat, "inputs must be finite numbers")
	}
	if totalShares <= 0 {
		return 0, types.NewValidationError(NameFreeFloat, "total shares must be positive, got %g", totalShares)
	}
	if restrictedShares > sharesOutstanding {
		return 0, types.NewValidationError(NameFreeFloat,
			"restricted shares %g exceed shares outstanding %g", restrictedShares, sharesOutstanding)
	}
	return (sharesOutstanding - restrictedShares) / totalShares * 100, nil
}

// CAGR = (finalValue / initialValue)^(1/years) - 1, as a fraction
func CAGR(initialValue, finalValue, years float64) (float64, error) {
	if !finite(initialValue, finalValue, years) {
		return 0, types.NewValidationError(NameCAGR, "inputs must be finite numbers")
	}
	if initialValue <= 0 {
		return 0, types.NewValidationError(NameCAGR, "initial value must be positive, got %g", initialValue)
	}
	if years <= 0 {
		return 0, types.NewValidationError(NameCAGR, "years must be positive, got %g", years)
	}
	if finalValue < 0 {
		return 0, types.NewValidationError(NameCAGR, "final value must not be negative, got %g", finalValue)
	}
	return math.Pow(finalValue/initialValue, 1/years) - 1, nil
}

// Beta = sampleCovariance(asset, market) / sampleVariance(market)
func Beta(assetReturns, marketReturns []float64) (float64, error) {
	if len(assetReturns) != len(marketReturns) {
		return 0, types.NewValidationError(NameBeta,
			"return series differ in length: %d asset vs %d market", len(assetReturns), len(marketReturns))
	}
	if len(marketReturns) < 2 {
		return 0, types.NewValidationError(NameBeta, "need at least 2 observations, got %d", len(marketReturns))
	}
	if !finite(assetReturns...) || !finite(marketReturns...) {
		return 0, types.NewValidationError(NameBeta, "return series must be finite numbers")
	}

	if flat(marketReturns) {
		return 0, types.NewValidationError(NameBeta, "market returns have zero variance")
	}
	return SampleCovariance(assetReturns, marketReturns) / SampleVariance(marketReturns), nil
}

// WACC = E/(E+D) * costOfEquity + D/(E+D) * costOfDebt * (1 - taxRate)
func WACC(equity, debt, costOfEquity, costOfDebt, taxRate float64) (float64, error) {
	if !finite(equity, debt, costOfEquity, costOfDebt, taxRate) {
		return 0, types.NewValidationError(NameWACC, "inputs must be finite numbers")
	}
	capital := equity + debt
	if capital == 0 {
		return 0, types.NewValidationError(NameWACC, "equity + debt must not be zero")
	}
	equityWeight := equity / capital
	debtWeight := debt / capital
	return equityWeight*costOfEquity + debtWeight*costOfDebt*(1-taxRate), nil
}

// FCFF = EBIT * (1 - taxRate) + D&A - change in working capital - capex
func FCFF(ebit, taxRate, depreciationAndAmortization, workingCapitalChange, capex float64) (float64, error) {
	if !finite(ebit, taxRate, depreciationAndAmortization, workingCapitalChange, capex) {
		return 0, types.NewValidationError(NameFCFF, "inputs must be finite numbers")
	}
	return ebit*(1-taxRate) + depreciationAndAmortization - workingCapitalChange - capex, nil
}

// Ratio = numerator / denominator
func Ratio(numerator, denominator float64) (float64, error) {
	if !finite(numerator, denominator) {
		return 0, types.NewValidationError(NameRatio, "inputs must be finite numbers")
	}
	if denominator == 0 {
		return 0, types.NewValidationError(NameRatio, "denominator must not be zero")
	}
	return numerator / denominator, nil
}

// RatioPct is Ratio expressed in percent units
func RatioPct(numerator, denominator float64) (float64, error) {
	if !finite(numerator, denominator) {
		return 0, types.NewValidationError(NameRatioPct, "inputs must be finite numbers")
	}
	if denominator == 0 {
		return 0, types.NewValidationError(NameRatioPct, "denominator must not be zero")
	}
	return numerator / denominator * 100, nil
}

// Upside = (intrinsic - price) / price * 100
func Upside(intrinsicPrice, marketPrice float64) (float64, error) {
	if !finite(intrinsicPrice, marketPrice) {
		return 0, types.NewValidationError(NameUpside, "inputs must be finite numbers")
	}
	if intrinsicPrice <= 0 {
		return 0, types.NewValidationError(NameUpside, "intrinsic price must be positive, got %g", intrinsicPrice)
	}
	if marketPrice <= 0 {
		return 0, types.NewValidationError(NameUpside, "market price must be positive, got %g", marketPrice)
	}
	return (intrinsicPrice - marketPrice) / marketPrice * 100, nil
}

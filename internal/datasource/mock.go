package datasource

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"fundamentals-analyzer/internal/interfaces"
	"fundamentals-analyzer/internal/types"
)

// ErrUnknownSymbol is returned by the mock source for tickers it has no data for
var ErrUnknownSymbol = errors.New("unknown symbol")

// MockSource serves canned fundamentals in the same regional format as the
// live page, for tests and dry runs.
type MockSource struct {
	companies map[string]*types.CompanyData
}

var _ interfaces.FundamentalsSource = (*MockSource)(nil)

func NewMockSource() *MockSource {
	return &MockSource{companies: mockCompanies()}
}

// NewMockSourceWith serves the given companies instead of the built-in set
func NewMockSourceWith(companies ...*types.CompanyData) *MockSource {
	m := &MockSource{companies: make(map[string]*types.CompanyData, len(companies))}
	for _, c := range companies {
		m.companies[strings.ToUpper(c.Symbol)] = c
	}
	return m
}

func (m *MockSource) Name() string { return "MOCK" }

// Symbols lists the tickers the source can serve
func (m *MockSource) Symbols() []string {
	return slices.Sorted(maps.Keys(m.companies))
}

// FetchCompany returns a copy so callers can never alter the canned data
func (m *MockSource) FetchCompany(ctx context.Context, symbol string) (*types.CompanyData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, ok := m.companies[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return nil, fmt.Errorf("no mock data for %s: %w", symbol, ErrUnknownSymbol)
	}

	cp := *c
	cp.Fields = maps.Clone(c.Fields)
	cp.Series = make(map[string][]string, len(c.Series))
	for k, v := range c.Series {
		cp.Series[k] = slices.Clone(v)
	}
	cp.Source = m.Name()
	cp.FetchedAt = time.Now()
	return &cp, nil
}

func mockCompanies() map[string]*types.CompanyData {
	petr := &types.CompanyData{
		Symbol: "PETR4",
		Name:   "Petroleo Brasileiro S.A.",
		Fields: map[string]any{
			types.FieldPrice:             "38,50",
			types.FieldShares:            "13.044.496.930",
			types.FieldMarketCap:         "502.213.131.805",
			types.FieldGrossDebt:         "312.000.000.000",
			types.FieldNetDebt:           "245.000.000.000",
			types.FieldFCF:               "95.400.000.000",
			types.FieldCostOfEquity:      "13,5%",
			types.FieldCostOfDebt:        "9,8%",
			types.FieldTaxRate:           "34%",
			types.FieldEBIT:              "160.300.000.000",
			types.FieldDA:                "62.100.000.000",
			types.FieldWorkingCapitalVar: "4.800.000.000",
			types.FieldCapex:             "61.900.000.000",
			types.FieldRevenue:           "490.800.000.000",
			types.FieldRevenue5y:         "302.200.000.000",
			types.FieldNetIncome:         "108.900.000.000",
			types.FieldNetIncome5y:       "40.100.000.000",
			types.FieldSharesOutstanding: "13.044.496.930",
			types.FieldRestrictedShares:  "4.900.000.000",
			types.FieldEquity:            "381.600.000.000",
			types.FieldAssets:            "1.029.000.000.000",
			types.FieldFinancialExpenses: "21.700.000.000",

			"P/L":                 "4,61",
			"P/VP":                "1,32",
			"PSR":                 "1,02",
			"P/Ativos":            "0,49",
			"P/Cap. Giro":         "19,87",
			"P/EBIT":              "3,13",
			"P/Ativ Circ. Liq":    "-0,88",
			"EV/EBITDA":           "3,30",
			"EV/EBIT":             "4,66",
			"Div. Yield":          "14,2%",
			"LPA":                 "8,35",
			"VPA":                 "29,25",
			"ROE":                 "28,5%",
			"ROA":                 "10,6%",
			"ROIC":                "17,9%",
			"Giro Ativos":         "0,48",
			"Marg. Bruta":         "52,1%",
			"Marg. EBITDA":        "45,3%",
			"Marg. EBIT":          "32,7%",
			"Marg. Liquida":       "22,2%",
			"Div. liquida/EBITDA": "1,10",
			"Div. liquida/EBIT":   "1,53",
			"Div. liquida/PL":     "0,64",
			"Div. Bruta/PL":       "0,82",
			"Passivos/Ativos":     "0,63",
			"Liquidez Corrente":   "0,96",
			"Liquidez Seca":       "0,74",
			"Liquidez Imediata":   "0,35",
			"Liq. Media Diaria":   "1.450.000.000",
			"Cresc. Rec. 5a":      "10,2%",
			"Cresc. Lucro 5a":     "22,1%",
			"Payout":              "65,4%",
			"Tag Along":           "100%",
		},
		Series: map[string][]string{
			types.SeriesAssetReturns:  {"0,021", "-0,034", "0,045", "0,012", "-0,008", "0,031", "0,017", "-0,022"},
			types.SeriesMarketReturns: {"0,015", "-0,021", "0,028", "0,009", "-0,004", "0,019", "0,011", "-0,013"},
		},
	}

	wege := &types.CompanyData{
		Symbol: "WEGE3",
		Name:   "WEG S.A.",
		Fields: map[string]any{
			types.FieldPrice:             "52,10",
			types.FieldShares:            "4.197.317.998",
			types.FieldMarketCap:         "218.680.267.695",
			types.FieldGrossDebt:         "3.900.000.000",
			types.FieldNetDebt:           "-5.600.000.000",
			types.FieldFCF:               "5.300.000.000",
			types.FieldCostOfEquity:      "11%",
			types.FieldCostOfDebt:        "8,5%",
			types.FieldTaxRate:           "-",
			types.FieldEBIT:              "7.800.000.000",
			types.FieldDA:                "720.000.000",
			types.FieldWorkingCapitalVar: "1.100.000.000",
			types.FieldCapex:             "1.950.000.000",
			types.FieldRevenue:           "37.300.000.000",
			types.FieldRevenue5y:         "13.350.000.000",
			types.FieldNetIncome:         "5.900.000.000",
			types.FieldNetIncome5y:       "1.690.000.000",
			types.FieldSharesOutstanding: "4.197.317.998",
			types.FieldRestrictedShares:  "2.720.000.000",
			types.FieldEquity:            "18.900.000.000",
			types.FieldAssets:            "35.700.000.000",
			types.FieldFinancialExpenses: "610.000.000",

			"P/L":                 "37,06",
			"P/VP":                "11,57",
			"PSR":                 "5,86",
			"P/Ativos":            "6,13",
			"P/Cap. Giro":         "16,40",
			"P/EBIT":              "28,04",
			"P/Ativ Circ. Liq":    "45,12",
			"EV/EBITDA":           "25,08",
			"EV/EBIT":             "27,32",
			"Div. Yield":          "1,6%",
			"LPA":                 "1,41",
			"VPA":                 "4,50",
			"ROE":                 "31,2%",
			"ROA":                 "16,5%",
			"ROIC":                "27,4%",
			"Giro Ativos":         "1,04",
			"Marg. Bruta":         "33,0%",
			"Marg. EBITDA":        "22,8%",
			"Marg. EBIT":          "20,9%",
			"Marg. Liquida":       "15,8%",
			"Div. liquida/EBITDA": "-0,66",
			"Div. liquida/EBIT":   "-0,72",
			"Div. liquida/PL":     "-0,30",
			"Div. Bruta/PL":       "0,21",
			"Passivos/Ativos":     "0,47",
			"Liquidez Corrente":   "2,05",
			"Liquidez Seca":       "1,45",
			"Liquidez Imediata":   "0,62",
			"Liq. Media Diaria":   "310.000.000",
			"Cresc. Rec. 5a":      "22,9%",
			"Cresc. Lucro 5a":     "28,6%",
			"Payout":              "52,3%",
			"Tag Along":           "100%",
		},
		Series: map[string][]string{
			types.SeriesAssetReturns:  {"0,012", "0,008", "-0,015", "0,022", "0,004", "-0,006", "0,013", "0,009"},
			types.SeriesMarketReturns: {"0,015", "-0,021", "0,028", "0,009", "-0,004", "0,019", "0,011", "-0,013"},
		},
	}

	// OIBR3 carries unparseable and missing values, so every run exercises
	// the error-row path.
	oibr := &types.CompanyData{
		Symbol: "OIBR3",
		Name:   "Oi S.A.",
		Fields: map[string]any{
			types.FieldPrice:     "0,42",
			types.FieldShares:    "6.598.000.000",
			types.FieldMarketCap: "2.771.160.000",
			types.FieldNetDebt:   "21.300.000.000",
			types.FieldFCF:       "-1.200.000.000",
			types.FieldEquity:    "-8.400.000.000",
			types.FieldAssets:    "30.500.000.000",

			"P/L":               "-0,17",
			"P/VP":              "-0,33",
			"ROE":               "n/d",
			"Marg. Liquida":     "-",
			"Div. Yield":        "0,0%",
			"Liquidez Corrente": "0,58",
			"Liq. Media Diaria": "18.300.000",
			"Tag Along":         "80%",
		},
	}

	return map[string]*types.CompanyData{
		petr.Symbol: petr,
		wege.Symbol: wege,
		oibr.Symbol: oibr,
	}
}

package types

import (
	"fmt"
	"time"
)

// Status distinguishes a classified Result from a failed one
type Status string

const (
	StatusOK    Status = "OK"
	StatusError Status = "ERROR"
)

// Placeholders used by error Results
const (
	ErrorClassification = "Error"
	NotAvailable        = "N/A"
)

// CompanyData is the raw per-company payload supplied by a data source.
// Field values keep their regional formatting ("1.234,56", "15,5%", "-").
type CompanyData struct {
	Symbol    string              `json:"symbol" yaml:"symbol"`
	Name      string              `json:"name,omitempty" yaml:"name"`
	Source    string              `json:"source" yaml:"source"`
	Fields    map[string]any      `json:"fields" yaml:"fields"`
	Series    map[string][]string `json:"series,omitempty" yaml:"series"`
	FetchedAt time.Time           `json:"fetched_at" yaml:"-"`
}

// Raw returns the raw value for a field label. Series take precedence so
// that list-valued inputs (return histories) reach the calculators intact.
func (c *CompanyData) Raw(label string) any {
	if c == nil {
		return nil
	}
	if s, ok := c.Series[label]; ok {
		return s
	}
	return c.Fields[label]
}

// WithField returns a shallow copy carrying an extra field. The receiver is
// left untouched.
func (c *CompanyData) WithField(label string, value any) *CompanyData {
	cp := *c
	cp.Fields = make(map[string]any, len(c.Fields)+1)
	for k, v := range c.Fields {
		cp.Fields[k] = v
	}
	cp.Fields[label] = value
	return &cp
}

// Result is the outcome of evaluating one (company, indicator) pair
type Result struct {
	Company        string  `json:"company"`
	Indicator      string  `json:"indicator"`
	Value          float64 `json:"value"`
	Status         Status  `json:"status"`
	Classification string  `json:"classification"`
	Range          string  `json:"range"`
	Description    string  `json:"description"`
	Definition     string  `json:"definition"`
	Category       string  `json:"category"`
	Formula        string  `json:"formula"`
	Risks          string  `json:"risks"`
	CrossReference string  `json:"cross_reference"`
	Recommendation string  `json:"recommendation"`
	Err            error   `json:"-"`
}

// OK reports whether the pair was classified
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// ErrorResult is the sentinel Result for a pair whose evaluation failed
func ErrorResult(company, indicator string, err error) Result {
	return Result{
		Company:        company,
		Indicator:      indicator,
		Status:         StatusError,
		Classification: ErrorClassification,
		Range:          NotAvailable,
		Description:    fmt.Sprintf("Error evaluating %s for %s: %v", indicator, company, err),
		Definition:     NotAvailable,
		Category:       NotAvailable,
		Formula:        NotAvailable,
		Risks:          NotAvailable,
		CrossReference: NotAvailable,
		Recommendation: NotAvailable,
		Err:            err,
	}
}

// CompanyReport holds every Result produced for a single company
type CompanyReport struct {
	Symbol     string         `json:"symbol"`
	Name       string         `json:"name,omitempty"`
	Source     string         `json:"source"`
	Results    []Result       `json:"results"`
	ErrorCount int            `json:"error_count"`
	Labels     map[string]int `json:"labels"`
	Valuation  *ValuationInfo `json:"valuation,omitempty"`
}

// Tally recomputes ErrorCount and the per-label counts
func (cr *CompanyReport) Tally() {
	cr.ErrorCount = 0
	cr.Labels = make(map[string]int)
	for _, r := range cr.Results {
		if !r.OK() {
			cr.ErrorCount++
		}
		cr.Labels[r.Classification]++
	}
}

// ValuationInfo summarizes the DCF computed for a company during a run
type ValuationInfo struct {
	IntrinsicPrice float64 `json:"intrinsic_price"`
	EquityValue    float64 `json:"equity_value"`
	PresentValue   float64 `json:"present_value"`
	DiscountRate   float64 `json:"discount_rate"`
	Error          string  `json:"error,omitempty"`
}

// AnalysisRun is the per-run accumulator returned by the dispatcher
type AnalysisRun struct {
	ID          string          `json:"id"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt time.Time       `json:"completed_at"`
	Companies   []CompanyReport `json:"companies"`
	TotalPairs  int             `json:"total_pairs"`
	ErrorPairs  int             `json:"error_pairs"`
}

// AnalysisConfig controls a dispatcher run
type AnalysisConfig struct {
	Workers    int      `yaml:"workers"`
	Indicators []string `yaml:"indicators"` // empty = every registered indicator
	Valuation  ValuationConfig
}

// ValuationConfig holds the DCF assumptions applied to every company
type ValuationConfig struct {
	Enabled            bool    `yaml:"enabled"`
	GrowthRate         float64 `yaml:"growth_rate"`
	Years              int     `yaml:"years"`
	TerminalGrowthRate float64 `yaml:"terminal_growth_rate"`
	DiscountRate       float64 `yaml:"discount_rate"` // 0 = derive WACC from company fields
	CostOfEquity       float64 `yaml:"cost_of_equity"`
	CostOfDebt         float64 `yaml:"cost_of_debt"`
	TaxRate            float64 `yaml:"tax_rate"`
}

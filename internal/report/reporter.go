// Package report renders analysis runs as JSON, text or CSV.
//
// Values are presented per indicator format. The report also carries the
// "reported value", which is the classified value divided by the indicator's
// report divisor (ROE 18.4 is reported as 0.184). Classification never sees
// the divisor.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"fundamentals-analyzer/internal/indicators"
	"fundamentals-analyzer/internal/types"
)

// ReportFormat specifies the output format
type ReportFormat string

const (
	FormatJSON ReportFormat = "json"
	FormatText ReportFormat = "text"
	FormatCSV  ReportFormat = "csv"
)

// ParseFormat validates a format name from config or flags
func ParseFormat(s string) (ReportFormat, error) {
	switch f := ReportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatText, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Row is one rendered (company, indicator) pair
type Row struct {
	Category       string  `json:"category"`
	Source         string  `json:"source"`
	Company        string  `json:"company"`
	Indicator      string  `json:"indicator"`
	Formula        string  `json:"formula"`
	Definition     string  `json:"definition"`
	Value          string  `json:"value"`
	ReportedValue  float64 `json:"reported_value"`
	Classification string  `json:"classification"`
	Color          string  `json:"color"`
	Range          string  `json:"range"`
	Description    string  `json:"description"`
	Risks          string  `json:"risks"`
	CrossReference string  `json:"cross_reference"`
	Recommendation string  `json:"recommendation"`
}

// Reporter handles generation and storage of run reports
type Reporter struct {
	outputDir string
	registry  *indicators.Registry
	printer   *message.Printer
}

func NewReporter(outputDir string, registry *indicators.Registry) *Reporter {
	return &Reporter{
		outputDir: outputDir,
		registry:  registry,
		printer:   message.NewPrinter(language.BrazilianPortuguese),
	}
}

// GenerateReport renders a run in the specified format
func (r *Reporter) GenerateReport(run *types.AnalysisRun, format ReportFormat) (string, error) {
	switch format {
	case FormatJSON:
		return r.generateJSONReport(run)
	case FormatText:
		return r.generateTextReport(run), nil
	case FormatCSV:
		return r.generateCSVReport(run)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// SaveReport writes the rendered run under the output directory and
// returns the file path
func (r *Reporter) SaveReport(run *types.AnalysisRun, format ReportFormat) (string, error) {
	content, err := r.GenerateReport(run, format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", err
	}

	ts := run.StartedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	id := run.ID
	if len(id) > 8 {
		id = id[:8]
	}
	filename := fmt.Sprintf("fundamentals_%s_%s.%s", ts.Format("2006-01-02_15-04-05"), id, format)
	path := filepath.Join(r.outputDir, filename)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Rows flattens a run into report rows, companies in run order and
// indicators in evaluation order
func (r *Reporter) Rows(run *types.AnalysisRun) []Row {
	var rows []Row
	for _, company := range run.Companies {
		for _, res := range company.Results {
			rows = append(rows, r.row(company, res))
		}
	}
	return rows
}

func (r *Reporter) row(company types.CompanyReport, res types.Result) Row {
	return Row{
		Category:       res.Category,
		Source:         company.Source,
		Company:        res.Company,
		Indicator:      res.Indicator,
		Formula:        res.Formula,
		Definition:     res.Definition,
		Value:          r.PresentValue(res),
		ReportedValue:  r.ReportedValue(res),
		Classification: res.Classification,
		Color:          ColorFor(res.Classification),
		Range:          res.Range,
		Description:    res.Description,
		Risks:          res.Risks,
		CrossReference: res.CrossReference,
		Recommendation: res.Recommendation,
	}
}

// ReportedValue divides the classified value by the indicator's report
// divisor. Error rows report 0.
func (r *Reporter) ReportedValue(res types.Result) float64 {
	if !res.OK() {
		return 0
	}
	def, ok := r.registry.Lookup(res.Indicator)
	if !ok || def.ReportDivisor == 0 {
		return res.Value
	}
	return res.Value / def.ReportDivisor
}

// PresentValue formats a value for humans in pt-BR conventions:
// "1.234,56" for ratios, "18,40%" for percentages, "R$ 1.234,56" for
// currency. Percent values are already in percent units.
func (r *Reporter) PresentValue(res types.Result) string {
	if !res.OK() {
		return types.NotAvailable
	}
	format := indicators.FormatRatio
	if def, ok := r.registry.Lookup(res.Indicator); ok {
		format = def.Format
	}

	switch format {
	case indicators.FormatPercent:
		return r.printer.Sprintf("%.2f%%", res.Value)
	case indicators.FormatCurrency:
		return r.printer.Sprintf("R$ %.2f", res.Value)
	default:
		return r.printer.Sprintf("%.2f", res.Value)
	}
}

type jsonCompany struct {
	Symbol     string               `json:"symbol"`
	Name       string               `json:"name,omitempty"`
	Source     string               `json:"source"`
	ErrorCount int                  `json:"error_count"`
	Labels     map[string]int       `json:"labels"`
	Valuation  *types.ValuationInfo `json:"valuation,omitempty"`
	Rows       []Row                `json:"rows"`
}

type jsonReport struct {
	RunID       string        `json:"run_id"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
	TotalPairs  int           `json:"total_pairs"`
	ErrorPairs  int           `json:"error_pairs"`
	Companies   []jsonCompany `json:"companies"`
}

func (r *Reporter) generateJSONReport(run *types.AnalysisRun) (string, error) {
	out := jsonReport{
		RunID:       run.ID,
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
		TotalPairs:  run.TotalPairs,
		ErrorPairs:  run.ErrorPairs,
		Companies:   make([]jsonCompany, 0, len(run.Companies)),
	}
	for _, company := range run.Companies {
		jc := jsonCompany{
			Symbol:     company.Symbol,
			Name:       company.Name,
			Source:     company.Source,
			ErrorCount: company.ErrorCount,
			Labels:     company.Labels,
			Valuation:  company.Valuation,
			Rows:       make([]Row, 0, len(company.Results)),
		}
		for _, res := range company.Results {
			jc.Rows = append(jc.Rows, r.row(company, res))
		}
		out.Companies = append(out.Companies, jc)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (r *Reporter) generateTextReport(run *types.AnalysisRun) string {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString("FUNDAMENTALS ANALYSIS REPORT\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Run: %s\n", run.ID))
	sb.WriteString(fmt.Sprintf("Generated: %s\n", run.StartedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Companies: %d  Pairs: %d  Errors: %d\n", len(run.Companies), run.TotalPairs, run.ErrorPairs))

	for _, company := range run.Companies {
		sb.WriteString("\n" + strings.Repeat("-", 80) + "\n")
		title := company.Symbol
		if company.Name != "" {
			title = fmt.Sprintf("%s - %s", company.Symbol, company.Name)
		}
		sb.WriteString(fmt.Sprintf("%s [%s]\n", title, company.Source))
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		if v := company.Valuation; v != nil {
			if v.Error != "" {
				sb.WriteString(fmt.Sprintf("DCF: failed (%s)\n", v.Error))
			} else {
				sb.WriteString(r.printer.Sprintf("DCF: intrinsic price R$ %.2f at %.2f%% discount rate\n",
					v.IntrinsicPrice, v.DiscountRate*100))
			}
		}

		category := ""
		for _, res := range company.Results {
			if res.OK() && res.Category != category {
				category = res.Category
				sb.WriteString(fmt.Sprintf("\n  %s\n", strings.ToUpper(category)))
			}
			sb.WriteString(fmt.Sprintf("  %-22s %18s  %-14s %s\n",
				res.Indicator, r.PresentValue(res), res.Classification, res.Range))
			if !res.OK() {
				sb.WriteString(fmt.Sprintf("  %22s %s\n", "", res.Description))
			}
		}

		sb.WriteString("\n  Summary: " + formatLabels(company.Labels) + "\n")
	}

	sb.WriteString("\n" + strings.Repeat("=", 80) + "\n")
	sb.WriteString("END OF REPORT\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	return sb.String()
}

var csvHeader = []string{
	"category", "source", "company", "indicator", "formula", "definition",
	"value", "reported_value", "classification", "color", "range", "description",
}

func (r *Reporter) generateCSVReport(run *types.AnalysisRun) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, row := range r.Rows(run) {
		record := []string{
			row.Category,
			row.Source,
			row.Company,
			row.Indicator,
			row.Formula,
			row.Definition,
			row.Value,
			fmt.Sprintf("%g", row.ReportedValue),
			row.Classification,
			row.Color,
			row.Range,
			row.Description,
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// formatLabels renders label counts by descending count, then by name
func formatLabels(labels map[string]int) string {
	if len(labels) == 0 {
		return "no results"
	}
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if labels[names[i]] != labels[names[j]] {
			return labels[names[i]] > labels[names[j]]
		}
		return names[i] < names[j]
	})

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, labels[name])
	}
	return strings.Join(parts, ", ")
}

// Package analysis dispatches the indicator engine over companies. It owns
// the per-run accumulator and turns data-source failures into error Results.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"fundamentals-analyzer/internal/indicators"
	"fundamentals-analyzer/internal/interfaces"
	"fundamentals-analyzer/internal/logger"
	"fundamentals-analyzer/internal/types"
	"fundamentals-analyzer/internal/valuation"
)

const defaultWorkers = 4

// ErrNoCompanyData is reported when a source returns neither data nor an error
var ErrNoCompanyData = errors.New("data source returned no company data")

// Analyzer implements interfaces.Analyzer
type Analyzer struct {
	cfg        *types.AnalysisConfig
	dataSource interfaces.FundamentalsSource
	engine     *indicators.Engine
	valuator   *valuation.Valuator
	indicators []string
}

var _ interfaces.Analyzer = (*Analyzer)(nil)

// NewAnalyzer creates an analyzer. An indicator subset naming an unknown
// identifier is rejected here, before any evaluation starts.
func NewAnalyzer(cfg *types.AnalysisConfig, dataSource interfaces.FundamentalsSource, engine *indicators.Engine) (*Analyzer, error) {
	if cfg == nil {
		cfg = &types.AnalysisConfig{}
	}

	ids := engine.Registry().IDs()
	if len(cfg.Indicators) > 0 {
		for _, id := range cfg.Indicators {
			if _, ok := engine.Registry().Lookup(id); !ok {
				return nil, &types.ContractViolationError{Indicator: id, Reason: "configured indicator is not in the vocabulary"}
			}
		}
		ids = append([]string(nil), cfg.Indicators...)
	}

	a := &Analyzer{
		cfg:        cfg,
		dataSource: dataSource,
		engine:     engine,
		indicators: ids,
	}
	if cfg.Valuation.Enabled {
		a.valuator = valuation.NewValuator(cfg.Valuation)
	}
	return a, nil
}

// Indicators lists the identifiers evaluated for each company
func (a *Analyzer) Indicators() []string {
	return append([]string(nil), a.indicators...)
}

// Run fans out across companies. Each worker fills only its own slot; slots
// are merged after every worker has finished. A failing company never
// cancels the others; only a contract violation aborts the run.
func (a *Analyzer) Run(ctx context.Context, symbols []string) (*types.AnalysisRun, error) {
	run := &types.AnalysisRun{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
	logger.Info(ctx, "Starting fundamentals analysis",
		"run_id", run.ID,
		"companies", len(symbols),
		"indicators", len(a.indicators),
		"source", a.dataSource.Name())

	workers := a.cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	slots := make([]*types.CompanyReport, len(symbols))
	var g errgroup.Group
	g.SetLimit(workers)

	for i, symbol := range symbols {
		g.Go(func() error {
			report, err := a.AnalyzeCompany(ctx, symbol)
			if err != nil {
				return fmt.Errorf("analyzing %s: %w", symbol, err)
			}
			slots[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	run.Companies = make([]types.CompanyReport, 0, len(slots))
	for _, report := range slots {
		run.Companies = append(run.Companies, *report)
		run.TotalPairs += len(report.Results)
		run.ErrorPairs += report.ErrorCount
	}
	run.CompletedAt = time.Now()

	logger.Info(ctx, "Fundamentals analysis complete",
		"run_id", run.ID,
		"companies", len(run.Companies),
		"pairs", run.TotalPairs,
		"error_pairs", run.ErrorPairs,
		"duration_ms", run.CompletedAt.Sub(run.StartedAt).Milliseconds())

	return run, nil
}

// AnalyzeCompany yields exactly one Result per configured indicator. A fetch
// failure becomes an error Result for every indicator of the company.
func (a *Analyzer) AnalyzeCompany(ctx context.Context, symbol string) (*types.CompanyReport, error) {
	report := &types.CompanyReport{
		Symbol:  symbol,
		Source:  a.dataSource.Name(),
		Results: make([]types.Result, 0, len(a.indicators)),
	}

	data, err := a.dataSource.FetchCompany(ctx, symbol)
	if err == nil && data == nil {
		err = ErrNoCompanyData
	}
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch company data", err, "symbol", symbol)
		fetchErr := fmt.Errorf("fetching data: %w", err)
		for _, id := range a.indicators {
			report.Results = append(report.Results, types.ErrorResult(symbol, id, fetchErr))
		}
		report.Tally()
		return report, nil
	}
	report.Name = data.Name
	if data.Source != "" {
		report.Source = data.Source
	}

	if a.valuator != nil {
		data, report.Valuation = a.value(ctx, data)
	}

	for _, id := range a.indicators {
		res, err := a.engine.Evaluate(data, id)
		if err != nil {
			return nil, err
		}
		if res.OK() {
			logger.Classification(ctx, symbol, id, res.Classification, res.Value)
		} else {
			logger.EvaluationFailure(ctx, symbol, id, res.Err)
		}
		report.Results = append(report.Results, res)
	}

	report.Tally()
	return report, nil
}

// value runs the DCF and exposes its intrinsic price as a company field. A
// failed DCF leaves the field absent, so the indicators that depend on it
// report their own error Result.
func (a *Analyzer) value(ctx context.Context, data *types.CompanyData) (*types.CompanyData, *types.ValuationInfo) {
	res, in, err := a.valuator.Value(data)
	if err != nil {
		logger.Warn(ctx, "DCF valuation failed", "symbol", data.Symbol, "error", err)
		return data, &types.ValuationInfo{DiscountRate: in.DiscountRate, Error: err.Error()}
	}

	logger.Valuation(ctx, data.Symbol, res.IntrinsicPrice, in.DiscountRate)
	info := &types.ValuationInfo{
		IntrinsicPrice: res.IntrinsicPrice,
		EquityValue:    res.EquityValue,
		PresentValue:   res.PresentValue,
		DiscountRate:   in.DiscountRate,
	}
	return data.WithField(types.FieldIntrinsicPrice, res.IntrinsicPrice), info
}

package analysisobs

import (
	"context"
	"time"

	"fundamentals-analyzer/internal/interfaces"
	"fundamentals-analyzer/internal/logger"
	"fundamentals-analyzer/internal/trace"
	"fundamentals-analyzer/internal/types"
)

// observableAnalyzer wraps an Analyzer with logging and tracing
type observableAnalyzer struct {
	inner interfaces.Analyzer
}

var _ interfaces.Analyzer = (*observableAnalyzer)(nil)

// Wrap wraps an Analyzer with observability middleware
func Wrap(analyzer interfaces.Analyzer) interfaces.Analyzer {
	return &observableAnalyzer{inner: analyzer}
}

func (o *observableAnalyzer) Run(ctx context.Context, symbols []string) (*types.AnalysisRun, error) {
	ctx, span := trace.StartSpan(ctx, "analysis.Run")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Analysis run requested", "symbol_count", len(symbols))
	start := time.Now()

	run, err := o.inner.Run(ctx, symbols)
	duration := time.Since(start)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Analysis run aborted", err,
			"symbol_count", len(symbols),
			"duration_ms", duration.Milliseconds())
		return nil, err
	}

	errorRate := 0.0
	if run.TotalPairs > 0 {
		errorRate = float64(run.ErrorPairs) / float64(run.TotalPairs) * 100
	}
	logger.InfoSkip(ctx, 1, "Analysis run finished",
		"run_id", run.ID,
		"total_pairs", run.TotalPairs,
		"error_pairs", run.ErrorPairs,
		"error_rate", errorRate,
		"duration_ms", duration.Milliseconds())

	return run, nil
}

func (o *observableAnalyzer) AnalyzeCompany(ctx context.Context, symbol string) (*types.CompanyReport, error) {
	ctx, span := trace.StartSpan(ctx, "analysis.AnalyzeCompany")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Analyzing company", "symbol", symbol)
	start := time.Now()

	report, err := o.inner.AnalyzeCompany(ctx, symbol)
	duration := time.Since(start)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Company analysis failed", err,
			"symbol", symbol,
			"duration_ms", duration.Milliseconds())
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Company analysis completed",
		"symbol", symbol,
		"results", len(report.Results),
		"errors", report.ErrorCount,
		"duration_ms", duration.Milliseconds())

	return report, nil
}

package interfaces

import (
	"context"

	"fundamentals-analyzer/internal/types"
)

// FundamentalsSource supplies the raw per-company field map
type FundamentalsSource interface {
	// Name identifies the source in reports ("MOCK", "FILE", "LIVE")
	Name() string

	// FetchCompany retrieves the raw fields of one company. Values keep their
	// regional formatting; normalization happens in the engine.
	FetchCompany(ctx context.Context, symbol string) (*types.CompanyData, error)
}

// Analyzer runs the company x indicator evaluation
type Analyzer interface {
	// Run evaluates every configured indicator for every symbol
	Run(ctx context.Context, symbols []string) (*types.AnalysisRun, error)

	// AnalyzeCompany evaluates every configured indicator for one symbol
	AnalyzeCompany(ctx context.Context, symbol string) (*types.CompanyReport, error)
}

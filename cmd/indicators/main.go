package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"fundamentals-analyzer/internal/analysis"
	"fundamentals-analyzer/internal/analysis/analysisobs"
	"fundamentals-analyzer/internal/datasource"
	"fundamentals-analyzer/internal/indicators"
	"fundamentals-analyzer/internal/logger"
	"fundamentals-analyzer/internal/report"
	"fundamentals-analyzer/internal/store"
	"fundamentals-analyzer/internal/types"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to config file")
	symbols := flag.String("symbols", "", "comma-separated tickers (overrides config companies)")
	only := flag.String("indicators", "", "comma-separated indicator subset (overrides config)")
	format := flag.String("format", "", "output format: text, json, or csv (overrides config)")
	outputFile := flag.String("output", "", "save report to this file instead of the output dir")
	list := flag.Bool("list", false, "list the indicator vocabulary and exit")
	flag.Parse()

	_ = godotenv.Load()

	if *list {
		for _, id := range indicators.Vocabulary {
			fmt.Println(id)
		}
		return 0
	}

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return 1
	}
	if *symbols != "" {
		cfg.Companies = splitList(*symbols)
	}
	if *only != "" {
		cfg.Indicators = splitList(*only)
	}
	if *format != "" {
		cfg.Report.Format = *format
	}
	reportFormat, err := report.ParseFormat(cfg.Report.Format)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	if err := logger.Init(); err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		return 1
	}
	ctx := context.Background()
	defer logger.Shutdown(ctx)

	registry, err := indicators.Default()
	if err != nil {
		logger.ErrorWithErr(ctx, "Indicator rule tables are invalid", err)
		fmt.Printf("Error loading indicator rules: %v\n", err)
		return 1
	}

	dataSource, err := datasource.CreateDataSource(cfg)
	if err != nil {
		fmt.Printf("Error creating data source: %v\n", err)
		return 1
	}
	if live, ok := dataSource.(*datasource.LiveSource); ok {
		if n, err := live.Cache().CleanupExpired(); err == nil && n > 0 {
			logger.Info(ctx, "Removed expired cache entries", "count", n)
		}
	}

	analyzer, err := analysis.NewAnalyzer(cfg.AnalysisConfig(), dataSource, indicators.NewEngine(registry))
	if err != nil {
		fmt.Printf("Error configuring analysis: %v\n", err)
		return 1
	}

	fmt.Printf("Analyzing %d companies x %d indicators (%s source)\n",
		len(cfg.Companies), len(analyzer.Indicators()), dataSource.Name())
	fmt.Println(strings.Repeat("-", 80))

	result, err := analysisobs.Wrap(analyzer).Run(ctx, cfg.Companies)
	if err != nil {
		if errors.Is(err, types.ErrContractViolation) {
			fmt.Printf("Indicator contract violation: %v\n", err)
		} else {
			fmt.Printf("Error running analysis: %v\n", err)
		}
		return 1
	}

	reporter := report.NewReporter(cfg.Report.OutputDir, registry)
	content, err := reporter.GenerateReport(result, reportFormat)
	if err != nil {
		fmt.Printf("Error generating report: %v\n", err)
		return 1
	}
	fmt.Println(content)

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(content), 0644); err != nil {
			fmt.Printf("Error saving report to file: %v\n", err)
			return 1
		}
		fmt.Printf("\nReport saved to: %s\n", *outputFile)
	} else {
		path, err := reporter.SaveReport(result, reportFormat)
		if err != nil {
			fmt.Printf("Warning: Could not auto-save report: %v\n", err)
		} else {
			fmt.Printf("\nReport auto-saved to: %s\n", path)
		}
	}

	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("Run %s: %d pairs, %d errors\n", result.ID, result.TotalPairs, result.ErrorPairs)
	return 0
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

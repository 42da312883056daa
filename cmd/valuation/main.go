package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"fundamentals-analyzer/internal/datasource"
	"fundamentals-analyzer/internal/logger"
	"fundamentals-analyzer/internal/normalize"
	"fundamentals-analyzer/internal/store"
	"fundamentals-analyzer/internal/types"
	"fundamentals-analyzer/internal/valuation"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to config file")
	symbol := flag.String("symbol", "", "ticker to value (required)")
	growth := flag.Float64("growth", -1, "FCF growth rate as a fraction (overrides config)")
	discount := flag.Float64("discount", -1, "discount rate as a fraction (overrides config; 0 derives WACC)")
	step := flag.Float64("step", 0.01, "sensitivity grid step")
	flag.Parse()

	if *symbol == "" {
		fmt.Println("Error: -symbol is required")
		flag.Usage()
		return 1
	}

	_ = godotenv.Load()

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return 1
	}
	vcfg := cfg.Valuation
	if *growth >= 0 {
		vcfg.GrowthRate = *growth
	}
	if *discount >= 0 {
		vcfg.DiscountRate = *discount
	}

	if err := logger.Init(); err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		return 1
	}
	ctx := context.Background()
	defer logger.Shutdown(ctx)

	dataSource, err := datasource.CreateDataSource(cfg)
	if err != nil {
		fmt.Printf("Error creating data source: %v\n", err)
		return 1
	}
	data, err := dataSource.FetchCompany(ctx, *symbol)
	if err != nil {
		fmt.Printf("Error fetching %s: %v\n", *symbol, err)
		return 1
	}

	valuator := valuation.NewValuator(vcfg)
	res, in, err := valuator.Value(data)
	if err != nil {
		fmt.Printf("Valuation failed: %v\n", err)
		return 1
	}
	logger.Valuation(ctx, data.Symbol, res.IntrinsicPrice, in.DiscountRate)

	fmt.Printf("DCF VALUATION - %s\n", data.Symbol)
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Current FCF:          %.0f\n", in.CurrentFCF)
	fmt.Printf("Growth rate:          %.2f%% for %d years\n", in.GrowthRate*100, in.Years)
	fmt.Printf("Discount rate:        %.2f%%\n", in.DiscountRate*100)
	fmt.Printf("Terminal growth:      %.2f%%\n", in.TerminalGrowthRate*100)
	fmt.Printf("Net debt:             %.0f\n", in.NetDebt)
	fmt.Printf("Shares outstanding:   %.0f\n", in.SharesOutstanding)
	fmt.Println(strings.Repeat("-", 80))
	for i, fcf := range res.ProjectedFCF {
		fmt.Printf("Year %d FCF:           %.0f\n", i+1, fcf)
	}
	fmt.Printf("Terminal value:       %.0f\n", res.TerminalValue)
	fmt.Printf("Present value:        %.0f\n", res.PresentValue)
	fmt.Printf("Equity value:         %.0f\n", res.EquityValue)
	fmt.Printf("Intrinsic price:      %.2f\n", res.IntrinsicPrice)

	if price, err := normalize.Value(data.Raw(types.FieldPrice)); err == nil && price > 0 {
		if mos, err := valuation.MarginOfSafety(res.IntrinsicPrice, price); err == nil {
			fmt.Printf("Market price:         %.2f (margin of safety %.2f%%)\n", price, mos)
		}
	}

	grid := valuation.Sensitivity(in,
		valuation.Around(in.DiscountRate, *step, 2),
		valuation.Around(in.TerminalGrowthRate, *step/2, 2))

	fmt.Println()
	fmt.Println("SENSITIVITY (rows: discount rate, columns: terminal growth)")
	fmt.Printf("%10s", "")
	for _, g := range grid.TerminalGrowthRates {
		fmt.Printf("%10.2f%%", g*100)
	}
	fmt.Println()
	for i, r := range grid.DiscountRates {
		fmt.Printf("%9.2f%%", r*100)
		for _, cell := range grid.Cells[i] {
			if cell.Err != nil {
				fmt.Printf("%11s", "n/a")
			} else {
				fmt.Printf("%11.2f", cell.IntrinsicPrice)
			}
		}
		fmt.Println()
	}
	return 0
}

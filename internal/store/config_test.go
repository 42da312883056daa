package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("companies: [PETR4, VALE3]\n"))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	if cfg.DataSource != "MOCK" {
		t.Errorf("Expected default data_source MOCK, got %s", cfg.DataSource)
	}
	if cfg.Workers != 4 {
		t.Errorf("Expected 4 workers, got %d", cfg.Workers)
	}
	if cfg.Live.URLTemplate != DefaultURLTemplate {
		t.Errorf("Expected default URL template, got %s", cfg.Live.URLTemplate)
	}
	if cfg.Report.Format != "text" || cfg.Report.OutputDir != DefaultOutputDir {
		t.Errorf("Unexpected report defaults: %+v", cfg.Report)
	}
	if cfg.Valuation.Years != 5 {
		t.Errorf("Expected 5 valuation years, got %d", cfg.Valuation.Years)
	}
}

func TestParseConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"no companies", "data_source: MOCK\n", "companies"},
		{"bad source", "data_source: FTP\ncompanies: [A]\n", "data_source"},
		{"file without dir", "data_source: FILE\ncompanies: [A]\n", "fixtures_dir"},
		{"bad format", "companies: [A]\nreport:\n  format: xlsx\n", "report.format"},
		{"negative workers", "companies: [A]\nworkers: -1\n", "workers"},
		{"tax as percent", "companies: [A]\nvaluation:\n  enabled: true\n  tax_rate: 34\n", "tax_rate"},
	}

	for _, tc := range cases {
		_, err := ParseConfig([]byte(tc.yaml))
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error %q does not mention %s", tc.name, err, tc.want)
		}
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
data_source: FILE
fixtures_dir: testdata
companies: [PETR4]
indicators: [ROE, P/L]
workers: 2
valuation:
  enabled: true
  growth_rate: 0.05
  terminal_growth_rate: 0.03
  discount_rate: 0.09
report:
  format: csv
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	ac := cfg.AnalysisConfig()
	if ac.Workers != 2 || len(ac.Indicators) != 2 || ac.Indicators[1] != "P/L" {
		t.Errorf("Unexpected analysis config %+v", ac)
	}
	if !ac.Valuation.Enabled || ac.Valuation.DiscountRate != 0.09 {
		t.Errorf("Valuation settings not carried over: %+v", ac.Valuation)
	}
}

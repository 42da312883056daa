package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"fundamentals-analyzer/internal/types"
)

const (
	DefaultURLTemplate = "https://www.fundamentus.com.br/detalhes.php?papel={symbol}"
	DefaultCacheDir    = "cache/fundamentals"
	DefaultOutputDir   = "reports"
)

type Config struct {
	DataSource  string   `yaml:"data_source"`
	Companies   []string `yaml:"companies"`
	Indicators  []string `yaml:"indicators"`
	Workers     int      `yaml:"workers"`
	FixturesDir string   `yaml:"fixtures_dir"`
	Live        struct {
		URLTemplate       string  `yaml:"url_template"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
		TimeoutSeconds    int     `yaml:"timeout_seconds"`
		UserAgent         string  `yaml:"user_agent"`
		CacheDir          string  `yaml:"cache_dir"`
		CacheTTLHours     int     `yaml:"cache_ttl_hours"`
	} `yaml:"live"`
	Valuation types.ValuationConfig `yaml:"valuation"`
	Report    struct {
		Format    string `yaml:"format"`
		OutputDir string `yaml:"output_dir"`
	} `yaml:"report"`
}

func (c *Config) Validate() error {
	switch c.DataSource {
	case "MOCK", "LIVE":
	case "FILE":
		if c.FixturesDir == "" {
			return errors.New("fixtures_dir is required when data_source is 'FILE'")
		}
	default:
		return fmt.Errorf("invalid data_source '%s': must be 'MOCK', 'FILE' or 'LIVE'", c.DataSource)
	}
	if len(c.Companies) == 0 {
		return errors.New("companies cannot be empty")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Live.RequestsPerSecond <= 0 {
		return fmt.Errorf("live.requests_per_second must be positive, got %.2f", c.Live.RequestsPerSecond)
	}
	if f := c.Report.Format; f != "json" && f != "text" && f != "csv" {
		return fmt.Errorf("report.format must be 'json', 'text' or 'csv', got '%s'", f)
	}
	if c.Valuation.Enabled {
		v := c.Valuation
		if v.Years <= 0 {
			return fmt.Errorf("valuation.years must be positive, got %d", v.Years)
		}
		if v.DiscountRate < 0 || v.CostOfEquity < 0 || v.CostOfDebt < 0 {
			return errors.New("valuation rates must not be negative")
		}
		if v.TaxRate < 0 || v.TaxRate >= 1 {
			return fmt.Errorf("valuation.tax_rate must be a fraction in [0, 1), got %.2f", v.TaxRate)
		}
	}
	return nil
}

// AnalysisConfig extracts the dispatcher settings
func (c *Config) AnalysisConfig() *types.AnalysisConfig {
	return &types.AnalysisConfig{
		Workers:    c.Workers,
		Indicators: append([]string(nil), c.Indicators...),
		Valuation:  c.Valuation,
	}
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(b)
}

// ParseConfig decodes YAML, applies defaults and validates
func ParseConfig(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.DataSource == "" {
		c.DataSource = "MOCK"
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
	if c.Live.URLTemplate == "" {
		c.Live.URLTemplate = DefaultURLTemplate
	}
	if c.Live.RequestsPerSecond == 0 {
		c.Live.RequestsPerSecond = 0.5
	}
	if c.Live.Burst == 0 {
		c.Live.Burst = 1
	}
	if c.Live.TimeoutSeconds == 0 {
		c.Live.TimeoutSeconds = 30
	}
	if c.Live.CacheDir == "" {
		c.Live.CacheDir = DefaultCacheDir
	}
	if c.Live.CacheTTLHours == 0 {
		c.Live.CacheTTLHours = 24
	}
	if c.Report.Format == "" {
		c.Report.Format = "text"
	}
	if c.Report.OutputDir == "" {
		c.Report.OutputDir = DefaultOutputDir
	}
	if c.Valuation.Years == 0 {
		c.Valuation.Years = 5
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

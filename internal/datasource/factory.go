package datasource

import (
	"fmt"
	"time"

	"fundamentals-analyzer/internal/interfaces"
	"fundamentals-analyzer/internal/store"
)

// CreateDataSource creates the data source named by the configuration
func CreateDataSource(cfg *store.Config) (interfaces.FundamentalsSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil configuration")
	}

	switch cfg.DataSource {
	case "", "MOCK":
		return NewMockSource(), nil

	case "FILE":
		if cfg.FixturesDir == "" {
			return nil, fmt.Errorf("fixtures_dir is required for the FILE data source")
		}
		return NewFileSource(cfg.FixturesDir), nil

	case "LIVE":
		live := cfg.Live
		return NewLiveSource(LiveSourceConfig{
			URLTemplate:       live.URLTemplate,
			RequestsPerSecond: live.RequestsPerSecond,
			Burst:             live.Burst,
			Timeout:           time.Duration(live.TimeoutSeconds) * time.Second,
			UserAgent:         live.UserAgent,
			CacheDir:          live.CacheDir,
			CacheTTL:          time.Duration(live.CacheTTLHours) * time.Hour,
		})

	default:
		return nil, fmt.Errorf("unknown data source type: %s (valid options: MOCK, FILE, LIVE)", cfg.DataSource)
	}
}

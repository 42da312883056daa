package datasource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"fundamentals-analyzer/internal/interfaces"
	"fundamentals-analyzer/internal/types"
)

// FileSource reads one YAML fixture per company from a directory
// (<dir>/<SYMBOL>.yaml). Useful for reproducible runs and offline analysis.
type FileSource struct {
	dir string
}

var _ interfaces.FundamentalsSource = (*FileSource)(nil)

func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

func (f *FileSource) Name() string { return "FILE" }

func (f *FileSource) FetchCompany(ctx context.Context, symbol string) (*types.CompanyData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" || strings.ContainsAny(symbol, `/\`) || strings.Contains(symbol, "..") {
		return nil, fmt.Errorf("invalid symbol %q", symbol)
	}

	path := filepath.Join(f.dir, symbol+".yaml")
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture %s: %w", path, err)
	}

	var data types.CompanyData
	if err := yaml.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("decoding fixture %s: %w", path, err)
	}
	if data.Symbol == "" {
		data.Symbol = symbol
	}
	if data.Fields == nil {
		data.Fields = make(map[string]any)
	}
	data.Source = f.Name()
	data.FetchedAt = time.Now()
	return &data, nil
}

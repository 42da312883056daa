package datasource

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"

	"fundamentals-analyzer/internal/interfaces"
	"fundamentals-analyzer/internal/logger"
	"fundamentals-analyzer/internal/types"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// LiveSourceConfig configures the scraping source
type LiveSourceConfig struct {
	URLTemplate       string // "{symbol}" is replaced by the ticker
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	UserAgent         string
	CacheDir          string
	CacheTTL          time.Duration
}

// LiveSource scrapes the fundamentals page of each company. Requests are
// throttled by a token bucket shared across workers and pages are cached on
// disk.
type LiveSource struct {
	cfg     LiveSourceConfig
	limiter *rate.Limiter
	cache   *Cache
}

var _ interfaces.FundamentalsSource = (*LiveSource)(nil)

func NewLiveSource(cfg LiveSourceConfig) (*LiveSource, error) {
	if cfg.URLTemplate == "" || !strings.Contains(cfg.URLTemplate, "{symbol}") {
		return nil, fmt.Errorf("url template must contain {symbol}, got %q", cfg.URLTemplate)
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 0.5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}

	cache, err := NewCache(cfg.CacheDir, cfg.CacheTTL)
	if err != nil {
		return nil, err
	}
	return &LiveSource{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		cache:   cache,
	}, nil
}

func (s *LiveSource) Name() string { return "LIVE" }

// Cache exposes the page cache for maintenance (expiry sweeps)
func (s *LiveSource) Cache() *Cache { return s.cache }

func (s *LiveSource) FetchCompany(ctx context.Context, symbol string) (*types.CompanyData, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol")
	}

	page, hit, err := s.cache.GetOrFetch(MakeKey("page", symbol), func() ([]byte, error) {
		return s.fetchPage(ctx, symbol)
	})
	if err != nil && page == nil {
		return nil, err
	}
	if err != nil {
		logger.Warn(ctx, "Failed to cache fundamentals page", "symbol", symbol, "error", err)
	}
	logger.Debug(ctx, "Fundamentals page loaded", "symbol", symbol, "cache_hit", hit, "bytes", len(page))

	data, err := ParseFundamentalsHTML(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parsing page of %s: %w", symbol, err)
	}
	data.Symbol = symbol
	data.Source = s.Name()
	data.FetchedAt = time.Now()
	return data, nil
}

func (s *LiveSource) fetchPage(ctx context.Context, symbol string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	c := colly.NewCollector(
		colly.MaxDepth(1),
		colly.Async(false),
		colly.DetectCharset(),
	)
	c.SetRequestTimeout(s.cfg.Timeout)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		r.Headers.Set("User-Agent", s.cfg.UserAgent)
	})

	var body []byte
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	var fetchErr error
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("status %d: %w", r.StatusCode, err)
		logger.ErrorWithErr(ctx, "Scraping error", err, "symbol", symbol, "url", r.Request.URL.String())
	})

	pageURL := strings.ReplaceAll(s.cfg.URLTemplate, "{symbol}", url.QueryEscape(symbol))
	if err := c.Visit(pageURL); err != nil {
		if fetchErr != nil {
			return nil, fmt.Errorf("failed to visit %s: %w", pageURL, fetchErr)
		}
		return nil, fmt.Errorf("failed to visit %s: %w", pageURL, err)
	}
	c.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("empty response from %s", pageURL)
	}
	return body, nil
}

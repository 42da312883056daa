package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"fundamentals-analyzer/internal/indicators"
	"fundamentals-analyzer/internal/store"
	"fundamentals-analyzer/internal/types"
)

func TestCanonicalLabel(t *testing.T) {
	cases := map[string]string{
		"Patrim. Líq":      "Patrim. Liq",
		"?Cotação":         "Cotacao",
		"  Nro.  Ações ":   "Nro. Acoes",
		"Valor de mercado": "Valor de Mercado",
		"EV / EBITDA":      "EV/EBITDA",
		"Marg. Líquida":    "Marg. Liquida",
		"Vol $ méd (2m)":   "Liq. Media Diaria",
		"Receita Líquida":  "Receita Liquida 12m",
	}
	for in, want := range cases {
		if got := CanonicalLabel(in); got != want {
			t.Errorf("CanonicalLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseFundamentalsHTML(t *testing.T) {
	f, err := os.Open("testdata/detalhes_petr4.html")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	data, err := ParseFundamentalsHTML(f)
	if err != nil {
		t.Fatalf("ParseFundamentalsHTML: %v", err)
	}

	if data.Name != "PETROBRAS PN" {
		t.Errorf("Expected company name from Empresa row, got %q", data.Name)
	}

	want := map[string]string{
		types.FieldPrice:     "38,50",
		types.FieldMarketCap: "502.213.131.805",
		types.FieldShares:    "13.044.496.930",
		types.FieldEquity:    "381.600.000.000",
		types.FieldNetDebt:   "245.000.000.000",
		types.FieldGrossDebt: "312.000.000.000",
		"P/L":                "4,61",
		"EV/EBITDA":          "3,30",
		"Marg. Liquida":      "22,2%",
		"Liquidez Corrente":  "0,96",
		"Cresc. Rec. 5a":     "10,2%",
		// The 12-month block precedes the quarterly one.
		types.FieldRevenue: "490.800.000.000",
		types.FieldEBIT:    "160.300.000.000",
	}
	for label, value := range want {
		if got := data.Fields[label]; got != value {
			t.Errorf("Field %q = %v, want %q", label, got, value)
		}
	}
	if _, ok := data.Fields["Ultimos 12 meses"]; ok {
		t.Error("Section headers without a data cell must be skipped")
	}
}

func TestParseFundamentalsHTMLWithoutTable(t *testing.T) {
	_, err := ParseFundamentalsHTML(strings.NewReader("<html><body><p>Nenhum papel encontrado</p></body></html>"))
	if err == nil {
		t.Fatal("Expected error for a page without the indicator table")
	}
}

func TestCacheRoundTripAndExpiry(t *testing.T) {
	cache, err := NewCache(t.TempDir(), 50*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}

	key := MakeKey("page", "PETR4")
	if key != "page:PETR4" {
		t.Errorf("MakeKey = %q", key)
	}
	if _, ok := cache.Get(key); ok {
		t.Fatal("Expected miss on empty cache")
	}
	if err := cache.Set(key, []byte("payload")); err != nil {
		t.Fatal(err)
	}
	if got, ok := cache.Get(key); !ok || string(got) != "payload" {
		t.Fatalf("Get = %q, %v", got, ok)
	}

	calls := 0
	_, hit, err := cache.GetOrFetch(key, func() ([]byte, error) {
		calls++
		return []byte("fresh"), nil
	})
	if err != nil || !hit || calls != 0 {
		t.Errorf("Expected cache hit without fetch, hit=%v calls=%d err=%v", hit, calls, err)
	}

	time.Sleep(80 * time.Millisecond)
	if _, ok := cache.Get(key); ok {
		t.Error("Expected expired entry to miss")
	}

	cache.Set(MakeKey("page", "VALE3"), []byte("x"))
	time.Sleep(80 * time.Millisecond)
	removed, err := cache.CleanupExpired()
	if err != nil || removed != 1 {
		t.Errorf("CleanupExpired removed %d, err %v", removed, err)
	}

	if err := cache.Delete(MakeKey("page", "missing")); err != nil {
		t.Errorf("Deleting a missing entry should not fail: %v", err)
	}
}

func TestLiveSourceFetchesOnceThenCaches(t *testing.T) {
	page, err := os.ReadFile("testdata/detalhes_petr4.html")
	if err != nil {
		t.Fatal(err)
	}

	var hits atomic.Int32
	var gotAgent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		gotAgent.Store(r.Header.Get("User-Agent"))
		if r.URL.Query().Get("papel") != "PETR4" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	}))
	defer srv.Close()

	src, err := NewLiveSource(LiveSourceConfig{
		URLTemplate:       srv.URL + "/detalhes.php?papel={symbol}",
		RequestsPerSecond: 100,
		Burst:             10,
		Timeout:           5 * time.Second,
		UserAgent:         "fundamentals-test",
		CacheDir:          t.TempDir(),
		CacheTTL:          time.Hour,
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		data, err := src.FetchCompany(ctx, "petr4")
		if err != nil {
			t.Fatalf("FetchCompany #%d: %v", i+1, err)
		}
		if data.Symbol != "PETR4" || data.Source != "LIVE" {
			t.Errorf("Unexpected identity %s/%s", data.Symbol, data.Source)
		}
		if data.Fields["P/L"] != "4,61" {
			t.Errorf("P/L = %v", data.Fields["P/L"])
		}
	}

	if n := hits.Load(); n != 1 {
		t.Errorf("Expected one request thanks to the cache, got %d", n)
	}
	if ua, _ := gotAgent.Load().(string); ua != "fundamentals-test" {
		t.Errorf("User-Agent = %q", ua)
	}

	if _, err := src.FetchCompany(ctx, "XXXX3"); err == nil {
		t.Error("Expected error for a 404 page")
	}
}

func TestNewLiveSourceRequiresPlaceholder(t *testing.T) {
	_, err := NewLiveSource(LiveSourceConfig{URLTemplate: "https://example.com/page", CacheDir: t.TempDir()})
	if err == nil {
		t.Fatal("Expected error for a template without {symbol}")
	}
}

func TestFileSource(t *testing.T) {
	src := NewFileSource("testdata")

	data, err := src.FetchCompany(context.Background(), "petr4")
	if err != nil {
		t.Fatalf("FetchCompany: %v", err)
	}
	if data.Source != "FILE" || data.Name != "Petroleo Brasileiro S.A." {
		t.Errorf("Unexpected identity %+v", data)
	}
	if data.Fields["ROE"] != "28,5%" {
		t.Errorf("ROE = %v", data.Fields["ROE"])
	}
	if len(data.Series[types.SeriesAssetReturns]) != 3 {
		t.Errorf("Expected 3 asset returns, got %v", data.Series[types.SeriesAssetReturns])
	}

	if _, err := src.FetchCompany(context.Background(), "../PETR4"); err == nil {
		t.Error("Expected path traversal to be rejected")
	}
	if _, err := src.FetchCompany(context.Background(), "VALE3"); err == nil {
		t.Error("Expected error for a missing fixture")
	}
}

func TestMockSource(t *testing.T) {
	src := NewMockSource()

	if got := src.Symbols(); len(got) != 3 || got[0] != "OIBR3" {
		t.Errorf("Symbols = %v", got)
	}

	data, err := src.FetchCompany(context.Background(), "PETR4")
	if err != nil {
		t.Fatal(err)
	}
	data.Fields["P/L"] = "tampered"
	again, _ := src.FetchCompany(context.Background(), "PETR4")
	if again.Fields["P/L"] != "4,61" {
		t.Error("Mutating a fetched company must not alter the canned data")
	}

	_, err = src.FetchCompany(context.Background(), "NOPE3")
	if !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("Expected ErrUnknownSymbol, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.FetchCompany(ctx, "PETR4"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

// The healthy mock companies carry every input the rule tables bind, so
// they classify end to end without error rows (bar the DCF-derived field).
func TestMockCompaniesCoverEveryIndicator(t *testing.T) {
	engine := indicators.NewEngine(indicators.MustDefault())
	src := NewMockSource()

	for _, symbol := range []string{"PETR4", "WEGE3"} {
		data, _ := src.FetchCompany(context.Background(), symbol)
		for _, id := range engine.Registry().IDs() {
			if id == "Margem de Seguranca" {
				continue
			}
			res, err := engine.Evaluate(data, id)
			if err != nil {
				t.Fatalf("%s/%s: %v", symbol, id, err)
			}
			if !res.OK() {
				t.Errorf("%s/%s: unexpected error row: %v", symbol, id, res.Err)
			}
		}
	}
}

func TestCreateDataSource(t *testing.T) {
	cfg := &store.Config{DataSource: "MOCK"}
	src, err := CreateDataSource(cfg)
	if err != nil || src.Name() != "MOCK" {
		t.Errorf("MOCK: %v, %v", src, err)
	}

	cfg = &store.Config{DataSource: "FILE", FixturesDir: "testdata"}
	if src, err = CreateDataSource(cfg); err != nil || src.Name() != "FILE" {
		t.Errorf("FILE: %v, %v", src, err)
	}

	cfg = &store.Config{DataSource: "LIVE"}
	cfg.Live.URLTemplate = store.DefaultURLTemplate
	cfg.Live.RequestsPerSecond = 1
	cfg.Live.CacheDir = t.TempDir()
	if src, err = CreateDataSource(cfg); err != nil || src.Name() != "LIVE" {
		t.Errorf("LIVE: %v, %v", src, err)
	}

	if _, err := CreateDataSource(&store.Config{DataSource: "FTP"}); err == nil {
		t.Error("Expected error for unknown source")
	}
}

package caselookup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/caselookup/internal/domain"
)

func newTestClient(t *testing.T, api *fakeAPI, opts ...Option) *Client {
	t.Helper()
	c, err := New(context.Background(), append([]Option{WithBaseURL(api.srv.URL)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNew_NoBaseURL(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no base URL provided")
	}
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New(context.Background(), WithBaseURL("ftp://example.org"))
	if err == nil {
		t.Fatal("expected error for non-http base URL")
	}
}

func TestNew_MissingLocalCasesFile(t *testing.T) {
	_, err := New(context.Background(),
		WithBaseURL("http://localhost"),
		WithLocalCases(filepath.Join(t.TempDir(), "missing.yaml"), ""),
	)
	if err == nil {
		t.Fatal("expected error for missing local cases file")
	}
}

func TestNew_UnknownCacheDriver(t *testing.T) {
	cfg := &clientConfig{cacheDriver: "memcached", cacheAddrs: []string{"localhost:1234"}}
	if _, err := createStore(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unknown cache driver")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}
	for _, o := range []Option{
		WithBaseURL("http://a"),
		WithSummaryBaseURL("http://b"),
		WithTimeout(5 * time.Second),
		WithRetries(2),
		WithLocalCases("cases.yaml", "mine-"),
		WithPageSize(25),
		WithDefaultTopic("land"),
		WithDebounce(time.Second),
		WithLocalOnEveryPage(),
		WithRedisCache("localhost:6379", "pw", time.Hour),
		WithLogger(zap.NewNop()),
	} {
		o.apply(cfg)
	}

	if cfg.baseURL != "http://a" || cfg.summaryBaseURL != "http://b" {
		t.Errorf("urls = %q, %q", cfg.baseURL, cfg.summaryBaseURL)
	}
	if cfg.timeout != 5*time.Second || cfg.maxRetries != 2 {
		t.Errorf("timeout/retries = %v/%d", cfg.timeout, cfg.maxRetries)
	}
	if cfg.localCasesPath != "cases.yaml" || cfg.localIDPrefix != "mine-" {
		t.Errorf("local = %q/%q", cfg.localCasesPath, cfg.localIDPrefix)
	}
	if cfg.pageSize != 25 || cfg.defaultTopic != "land" || cfg.debounce != time.Second || !cfg.everyPage {
		t.Errorf("search options not applied: %+v", cfg)
	}
	if cfg.cacheDriver != "redis" || cfg.cacheAddrs[0] != "localhost:6379" || cfg.cacheTTL != time.Hour {
		t.Errorf("cache options not applied: %+v", cfg)
	}
	if cfg.logger == nil {
		t.Error("logger not applied")
	}
}

func TestSearch_Online(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(t, api)

	p, err := c.Search(context.Background(), Filters{Scope: ScopeOnline, Term: "negligence"}, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if p.TotalResults != 11 || p.TotalPages != 2 || p.Page != 1 || p.PageSize != 10 {
		t.Errorf("page = %+v", p)
	}
	if !p.CanNext || p.CanPrev {
		t.Errorf("nav = prev %v next %v", p.CanPrev, p.CanNext)
	}
	if len(p.Cases) != 1 || p.Cases[0].ID != "k1" {
		t.Errorf("cases = %+v", p.Cases)
	}
}

func TestSearch_BothMergesLocalCases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.yaml")
	data := "cases:\n  - id: \"1\"\n    title: \"Negligence Reference\"\n    relevance: 0.95\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	api := newFakeAPI(t)
	c := newTestClient(t, api, WithLocalCases(path, ""))

	p, err := c.Search(context.Background(), Filters{Scope: ScopeBoth, Term: "negligence"}, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if p.TotalResults != 12 {
		t.Errorf("TotalResults = %d, want 12", p.TotalResults)
	}
	if len(p.Cases) != 2 || p.Cases[0].ID != "local-1" {
		t.Errorf("local match must rank first: %+v", p.Cases)
	}
}

func TestSearch_UpstreamFailureDegrades(t *testing.T) {
	api := newFakeAPI(t)
	api.failAll = true
	c := newTestClient(t, api)

	p, err := c.Search(context.Background(), Filters{Scope: ScopeOnline, Term: "x"}, 1)
	if err != nil {
		t.Fatalf("upstream failure must not surface: %v", err)
	}
	if p.TotalResults != 0 || len(p.Cases) != 0 {
		t.Errorf("expected empty page, got %+v", p)
	}
}

func TestSearch_InvalidPage(t *testing.T) {
	c := newTestClient(t, newFakeAPI(t))

	_, err := c.Search(context.Background(), Filters{Scope: ScopeOnline}, 0)
	if !errors.Is(err, ErrInvalidPage) {
		t.Fatalf("expected ErrInvalidPage, got %v", err)
	}
}

func TestDetail(t *testing.T) {
	c := newTestClient(t, newFakeAPI(t))

	rec, err := c.Detail(context.Background(), "k1")
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if rec.Title != "Otieno v Kenya Power" || rec.Citation != "[2021] eKLR" {
		t.Errorf("record = %+v", rec)
	}
}

func TestDetail_NotFound(t *testing.T) {
	c := newTestClient(t, newFakeAPI(t))

	_, err := c.Detail(context.Background(), "missing")
	if !errors.Is(err, ErrCaseNotFound) {
		t.Fatalf("expected ErrCaseNotFound, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(t, api)

	if got := c.Summary(context.Background(), "k1"); got != "Negligence claim dismissed." {
		t.Errorf("Summary = %q", got)
	}
	if got := c.Summary(context.Background(), "other"); got != "Summary not available." {
		t.Errorf("missing summary = %q, want placeholder", got)
	}
}

func TestHealth(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(t, api)

	h := c.Health(context.Background())
	if h.Status != "ok" || h.Checks["upstream"] != "ok" {
		t.Errorf("health = %+v", h)
	}

	api.srv.Close()
	h = c.Health(context.Background())
	if h.Status != "error" || h.Checks["upstream"] != "error" {
		t.Errorf("health after shutdown = %+v", h)
	}
}

func TestSession_StartRunsInitialQuery(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(t, api)

	s := c.NewSession()
	defer s.Close()
	done := make(chan Snapshot, 8)
	s.Subscribe(func(snap Snapshot) {
		if !snap.Loading {
			done <- snap
		}
	})
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case snap := <-done:
		if snap.Result.TotalResults != 11 {
			t.Errorf("TotalResults = %d, want 11", snap.Result.TotalResults)
		}
		if snap.Page != 1 {
			t.Errorf("Page = %d, want 1", snap.Page)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("initial query did not complete")
	}
	if api.searches.Load() != 1 {
		t.Errorf("searches = %d, want 1", api.searches.Load())
	}
}

func TestObserver_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newTestClient(t, newFakeAPI(t), WithPrometheus(reg))

	_, _ = c.Search(context.Background(), Filters{Scope: ScopeOnline}, 1)
	_, _ = c.Detail(context.Background(), "missing")

	ops := c.obs.metrics.operations
	if got := testutil.ToFloat64(ops.WithLabelValues("search", "ok")); got != 1 {
		t.Errorf("search ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(ops.WithLabelValues("detail", "error")); got != 1 {
		t.Errorf("detail error = %v, want 1", got)
	}
}

func TestObserver_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.metrics.operations != second.metrics.operations {
		t.Error("expected the registered counter to be reused")
	}
}

func TestObserver_NilSafe(t *testing.T) {
	var o *observer
	o.observe("search", time.Now(), errors.New("x"))
}

func TestClient_WrapsUseCaseErrors(t *testing.T) {
	c := &Client{
		searchSvc: &mockSearch{err: domain.ErrInvalidFilter},
		detailSvc: &mockDetail{err: domain.ErrCaseNotFound},
	}

	if _, err := c.Search(context.Background(), Filters{}, 1); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("Search err = %v", err)
	}
	if _, err := c.Detail(context.Background(), "x"); !errors.Is(err, ErrCaseNotFound) {
		t.Errorf("Detail err = %v", err)
	}
}

package caselookup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/caselookup/internal/db"
	dbRedis "github.com/kailas-cloud/caselookup/internal/db/redis"
	"github.com/kailas-cloud/caselookup/internal/domain/caserecord"
	"github.com/kailas-cloud/caselookup/internal/domain/search/filter"
	"github.com/kailas-cloud/caselookup/internal/domain/search/page"
	"github.com/kailas-cloud/caselookup/internal/metrics"
	"github.com/kailas-cloud/caselookup/internal/repository/doccache"
	"github.com/kailas-cloud/caselookup/internal/repository/localcases"
	"github.com/kailas-cloud/caselookup/internal/transport/kenyalaw"
	detailuc "github.com/kailas-cloud/caselookup/internal/usecase/detail"
	healthuc "github.com/kailas-cloud/caselookup/internal/usecase/health"
	localuc "github.com/kailas-cloud/caselookup/internal/usecase/local"
	"github.com/kailas-cloud/caselookup/internal/usecase/merge"
	"github.com/kailas-cloud/caselookup/internal/usecase/normalize"
	"github.com/kailas-cloud/caselookup/internal/usecase/remote"
	searchuc "github.com/kailas-cloud/caselookup/internal/usecase/search"
	"github.com/kailas-cloud/caselookup/internal/usecase/session"
	summaryuc "github.com/kailas-cloud/caselookup/internal/usecase/summary"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultLocalIDPrefix    = "local-"
	defaultTopic            = "constitutional rights"
)

// Internal interfaces swapped out in tests.
type searchUseCase interface {
	Run(ctx context.Context, f filter.Filters, pageNum int) (searchuc.Response, error)
	PageSize() int
}

type detailUseCase interface {
	Load(ctx context.Context, id string) (caserecord.CaseRecord, error)
}

type summaryUseCase interface {
	Get(ctx context.Context, id string) string
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the caselookup SDK entry point. Safe for concurrent use.
type Client struct {
	store      db.Store
	searchSvc  searchUseCase
	detailSvc  detailUseCase
	summarySvc summaryUseCase
	healthSvc  healthUseCase
	registry   filter.Registry
	logger     *zap.Logger
	obs        *observer
}

// New creates a Client. When a cache is configured the provided context
// bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		localIDPrefix: defaultLocalIDPrefix,
		defaultTopic:  defaultTopic,
		pageSize:      page.DefaultSize,
		debounce:      filter.DefaultDebounce,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.baseURL == "" {
		return nil, errors.New("caselookup: base URL required (use WithBaseURL)")
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	api, err := kenyalaw.New(kenyalaw.Config{
		BaseURL:        cfg.baseURL,
		SummaryBaseURL: cfg.summaryBaseURL,
		Timeout:        cfg.timeout,
		MaxRetries:     cfg.maxRetries,
		HTTPClient:     cfg.httpClient,
		Logger:         cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("caselookup: %w", err)
	}

	norm := normalize.New()
	var local *localuc.Searcher
	if cfg.localCasesPath != "" {
		prefix := cfg.localIDPrefix
		if prefix == "" {
			prefix = defaultLocalIDPrefix
		}
		cases, err := localcases.Load(cfg.localCasesPath, prefix, norm)
		if err != nil {
			return nil, fmt.Errorf("caselookup: %w", err)
		}
		local = localuc.New(cases, prefix)
	}

	var store db.Store
	var upstream upstreamAPI = api
	if cfg.cacheDriver != "" {
		store, err = createStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		upstream = doccache.New(api, store, cfg.cacheTTL, metrics.CacheTotal, cfg.logger)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}

	c := wireClient(cfg, api, upstream, local, norm, store)
	c.obs = obs
	return c, nil
}

// upstreamAPI is the case-law API, optionally behind the response cache.
type upstreamAPI interface {
	remote.Backend
	detailuc.Fetcher
	summaryuc.Provider
}

func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.cacheDriver {
	case "valkey", "redis":
	default:
		return nil, fmt.Errorf("caselookup: unknown cache driver %q", cfg.cacheDriver)
	}
	s, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.cacheAddrs,
		Password: cfg.cachePassword,
	})
	if err != nil {
		return nil, fmt.Errorf("caselookup: create %s store: %w", cfg.cacheDriver, err)
	}
	if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		s.Close()
		return nil, fmt.Errorf("caselookup: cache not ready: %w", err)
	}
	return s, nil
}

func wireClient(
	cfg *clientConfig,
	api *kenyalaw.Client,
	upstream upstreamAPI,
	local *localuc.Searcher,
	norm *normalize.Normalizer,
	store db.Store,
) *Client {
	adapter := remote.New(upstream, norm, cfg.logger).
		WithDefaultTopic(cfg.defaultTopic).
		WithPageSize(cfg.pageSize)

	policy := merge.FirstPage
	if cfg.everyPage {
		policy = merge.EveryPage
	}

	// A nil *Searcher must not reach the interface-typed parameters.
	var searchLocal searchuc.LocalSearcher
	var detailLocal detailuc.LocalStore
	if local != nil {
		searchLocal = local
		detailLocal = local
	}

	searchSvc := searchuc.New(searchLocal, adapter).WithPolicy(policy)
	detailSvc := detailuc.New(detailLocal, upstream, norm, cfg.logger)
	summarySvc := summaryuc.New(upstream, "kenyalaw", cfg.logger)

	var cachePinger healthuc.Pinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(api, cachePinger, nil)

	return &Client{
		store:      store,
		searchSvc:  searchSvc,
		detailSvc:  detailSvc,
		summarySvc: summarySvc,
		healthSvc:  healthSvc,
		registry:   filter.DefaultRegistry(cfg.debounce),
		logger:     cfg.logger,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// NewSession opens an interactive search session. Call Start to issue the
// initial query and Close when the dialog goes away.
func (c *Client) NewSession() *Session {
	return session.New(c.searchSvc).
		WithRegistry(c.registry).
		WithLogger(c.logger)
}

// Search runs one committed query for a 1-based page. Upstream failures
// degrade to an empty page rather than an error.
func (c *Client) Search(ctx context.Context, f Filters, pageNum int) (_ Page, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	resp, err := c.searchSvc.Run(ctx, f, pageNum)
	if err != nil {
		return Page{}, fmt.Errorf("search: %w", err)
	}
	return Page{
		Cases:        resp.Cases,
		TotalResults: resp.TotalResults,
		TotalPages:   resp.Nav.TotalPages,
		Page:         resp.Nav.Page,
		PageSize:     resp.PageSize,
		CanPrev:      resp.Nav.CanPrev,
		CanNext:      resp.Nav.CanNext,
	}, nil
}

// Detail loads the full record of a case. ErrCaseNotFound is returned when
// neither source yields a usable document.
func (c *Client) Detail(ctx context.Context, id string) (_ Case, err error) {
	start := time.Now()
	defer func() { c.obs.observe("detail", start, err) }()

	rec, err := c.detailSvc.Load(ctx, id)
	if err != nil {
		return Case{}, fmt.Errorf("detail %s: %w", id, err)
	}
	return rec, nil
}

// Summary returns the case summary, or a placeholder when none is available.
func (c *Client) Summary(ctx context.Context, id string) string {
	start := time.Now()
	defer c.obs.observe("summary", start, nil)
	return c.summarySvc.Get(ctx, id)
}

// Health checks upstream reachability and the cache, when configured.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

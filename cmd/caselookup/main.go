package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/caselookup/internal/config"
	"github.com/kailas-cloud/caselookup/internal/db"
	dbRedis "github.com/kailas-cloud/caselookup/internal/db/redis"
	logpkg "github.com/kailas-cloud/caselookup/internal/logger"
	"github.com/kailas-cloud/caselookup/internal/metrics"
	"github.com/kailas-cloud/caselookup/internal/repository/doccache"
	"github.com/kailas-cloud/caselookup/internal/repository/localcases"
	chiTransport "github.com/kailas-cloud/caselookup/internal/transport/chi"
	"github.com/kailas-cloud/caselookup/internal/transport/kenyalaw"
	openaiSum "github.com/kailas-cloud/caselookup/internal/transport/openai"
	detailuc "github.com/kailas-cloud/caselookup/internal/usecase/detail"
	healthuc "github.com/kailas-cloud/caselookup/internal/usecase/health"
	localuc "github.com/kailas-cloud/caselookup/internal/usecase/local"
	"github.com/kailas-cloud/caselookup/internal/usecase/merge"
	"github.com/kailas-cloud/caselookup/internal/usecase/normalize"
	"github.com/kailas-cloud/caselookup/internal/usecase/remote"
	searchuc "github.com/kailas-cloud/caselookup/internal/usecase/search"
	summaryuc "github.com/kailas-cloud/caselookup/internal/usecase/summary"
	"github.com/kailas-cloud/caselookup/internal/version"
)

// upstreamAPI is the case-law API surface, optionally behind the response cache.
type upstreamAPI interface {
	remote.Backend
	detailuc.Fetcher
	summaryuc.Provider
}

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting caselookup API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("summary_provider", cfg.Summary.Provider),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterUpstreamMetrics()
	metrics.RegisterSearchMetrics()

	api, err := kenyalaw.New(kenyalaw.Config{
		BaseURL:        cfg.Upstream.BaseURL,
		SummaryBaseURL: cfg.Upstream.SummaryBaseURL,
		Timeout:        cfg.Upstream.Timeout(),
		RateLimit:      cfg.Upstream.RateLimitRPS,
		RateBurst:      cfg.Upstream.RateBurst,
		MaxRetries:     cfg.Upstream.MaxRetries,
		Logger:         logger,
	})
	if err != nil {
		logger.Fatal("Failed to create upstream client", zap.Error(err))
	}

	ctx := context.Background()
	store := openCache(ctx, cfg.Cache, logger)
	if store != nil {
		defer store.Close()
	}

	var upstream upstreamAPI = api
	if store != nil {
		upstream = doccache.New(api, store, cfg.Search.CacheTTL(), metrics.CacheTotal, logger)
	}

	norm := normalize.New()

	// Local collection is optional; a nil *Searcher must not reach the interfaces.
	var (
		searchLocal searchuc.LocalSearcher
		detailLocal detailuc.LocalStore
	)
	if cfg.Local.CasesFile != "" {
		cases, err := localcases.Load(cfg.Local.CasesFile, cfg.Local.IDPrefix, norm)
		if err != nil {
			logger.Fatal("Failed to load local cases", zap.Error(err))
		}
		local := localuc.New(cases, cfg.Local.IDPrefix)
		searchLocal, detailLocal = local, local
		logger.Info("Loaded local cases", zap.Int("count", local.Len()))
	}

	useCache := cfg.Search.UseCache == nil || *cfg.Search.UseCache
	adapter := remote.New(upstream, norm, logger).
		WithDefaultTopic(cfg.Search.DefaultTopic).
		WithPageSize(cfg.Search.PageSize).
		WithCacheHints(useCache, cfg.Search.CacheMaxAgeHours)

	policy, err := merge.ParsePolicy(cfg.Search.BothPagination)
	if err != nil {
		logger.Fatal("Invalid both-scope pagination policy", zap.Error(err))
	}
	searchSvc := searchuc.New(searchLocal, adapter).WithPolicy(policy)
	detailSvc := detailuc.New(detailLocal, upstream, norm, logger)

	summarySvc, summaryHealth := buildSummary(cfg, upstream, detailLocal, norm, logger)

	var cachePinger healthuc.Pinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(api, cachePinger, summaryHealth)

	server := chiTransport.NewServer(searchSvc, detailSvc, summarySvc, healthSvc, logger)
	handler := chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openCache connects the upstream response cache. Returns nil when disabled.
func openCache(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) db.Store {
	if !cfg.Enabled {
		return nil
	}
	// Redis and Valkey speak the same protocol; one rueidis store serves both.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.String("driver", cfg.Driver), zap.Error(err))
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Cache not ready", zap.Error(err))
	}
	logger.Info("Connected to cache", zap.String("driver", cfg.Driver), zap.Strings("addrs", cfg.Addrs))
	return store
}

// buildSummary picks the summary provider. The openai provider reads case text
// through its own detail loader so it never evicts the one serving /cases/{id}.
func buildSummary(
	cfg config.Config,
	upstream upstreamAPI,
	local detailuc.LocalStore,
	norm *normalize.Normalizer,
	logger *zap.Logger,
) (*summaryuc.Service, healthuc.SummaryChecker) {
	var (
		provider summaryuc.Provider = upstream
		checker  healthuc.SummaryChecker
	)
	if cfg.Summary.Provider == "openai" {
		source := detailuc.New(local, upstream, norm, logger)
		sum := openaiSum.NewSummarizer(&openaiSum.Config{
			APIKey:    cfg.Summary.OpenAI.APIKey,
			BaseURL:   cfg.Summary.OpenAI.BaseURL,
			Model:     cfg.Summary.OpenAI.Model,
			MaxInput:  cfg.Summary.OpenAI.MaxInput,
			MaxTokens: cfg.Summary.OpenAI.MaxTokens,
			Logger:    logger,
		}, source)
		provider, checker = sum, sum
	}
	svc := summaryuc.New(provider, cfg.Summary.Provider, logger).
		WithPlaceholder(cfg.Summary.Placeholder).
		WithMemo(cfg.Summary.MemoSize, cfg.Summary.MemoTTL())
	return svc, checker
}

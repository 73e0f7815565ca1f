package doccache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/caselookup/internal/db"
	"github.com/kailas-cloud/caselookup/internal/domain/search/query"
)

const keyPrefix = "caselookup:doc_cache:"

// Cache kinds, used in keys and as the "kind" metrics label.
const (
	kindSearch   = "search"
	kindDocument = "document"
	kindHTML     = "html"
	kindSummary  = "summary"
)

// store is the consumer interface for the document cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Upstream is the case-law API surface being cached.
type Upstream interface {
	Search(ctx context.Context, q query.Query) ([]byte, error)
	Document(ctx context.Context, id string) ([]byte, error)
	DocumentHTML(ctx context.Context, id string) ([]byte, error)
	Summary(ctx context.Context, id string) (string, error)
}

// CachedClient caches successful upstream responses in a key-value store.
// Cache failures are logged and never fail a request.
type CachedClient struct {
	inner      Upstream
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with labels "kind" and "result" ("hit"/"miss"), passed explicitly.
func New(
	inner Upstream,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedClient {
	if ttl <= 0 {
		ttl = time.Duration(query.DefaultCacheMaxAgeHours) * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedClient{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Search honors the query's cache hints: use_cache=false bypasses the cache,
// cache_max_age_hours bounds the entry lifetime.
func (c *CachedClient) Search(ctx context.Context, q query.Query) ([]byte, error) {
	if !q.UseCache {
		body, err := c.inner.Search(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
		return body, nil
	}
	ttl := c.ttl
	if q.CacheMaxAgeHours > 0 {
		ttl = time.Duration(q.CacheMaxAgeHours) * time.Hour
	}
	return c.cached(ctx, kindSearch, keyPrefix+kindSearch+":"+q.CacheKey(), ttl, func() ([]byte, error) {
		return c.inner.Search(ctx, q)
	})
}

// Document returns a cached metadata document or fetches it.
func (c *CachedClient) Document(ctx context.Context, id string) ([]byte, error) {
	return c.cached(ctx, kindDocument, c.idKey(kindDocument, id), c.ttl, func() ([]byte, error) {
		return c.inner.Document(ctx, id)
	})
}

// DocumentHTML returns a cached full-content document or fetches it.
func (c *CachedClient) DocumentHTML(ctx context.Context, id string) ([]byte, error) {
	return c.cached(ctx, kindHTML, c.idKey(kindHTML, id), c.ttl, func() ([]byte, error) {
		return c.inner.DocumentHTML(ctx, id)
	})
}

// Summary returns a cached summary or fetches it.
func (c *CachedClient) Summary(ctx context.Context, id string) (string, error) {
	data, err := c.cached(ctx, kindSummary, c.idKey(kindSummary, id), c.ttl, func() ([]byte, error) {
		text, err := c.inner.Summary(ctx, id)
		if err != nil {
			return nil, err
		}
		return []byte(text), nil
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *CachedClient) cached(
	ctx context.Context, kind, key string, ttl time.Duration, fetch func() ([]byte, error),
) ([]byte, error) {
	if data, ok := c.getFromCache(ctx, key); ok {
		c.incCache(kind, "hit")
		return data, nil
	}
	c.incCache(kind, "miss")

	data, err := fetch()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	c.putToCache(ctx, key, data, ttl)
	return data, nil
}

func (c *CachedClient) incCache(kind, result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(kind, result).Inc()
	}
}

func (c *CachedClient) idKey(kind, id string) string {
	h := sha256.Sum256([]byte(id))
	return keyPrefix + kind + ":" + hex.EncodeToString(h[:])
}

func (c *CachedClient) getFromCache(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached document", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}
	return data, true
}

func (c *CachedClient) putToCache(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if len(data) == 0 {
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, ttl); err != nil {
		c.logger.Warn("Failed to cache document", zap.String("key", key), zap.Error(err))
	}
}

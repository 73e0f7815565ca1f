package caselookup

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	baseURL        string
	summaryBaseURL string
	httpClient     *http.Client
	timeout        time.Duration
	maxRetries     int

	localCasesPath string
	localIDPrefix  string

	pageSize     int
	defaultTopic string
	debounce     time.Duration
	everyPage    bool

	cacheDriver   string // "valkey" or "redis"
	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithBaseURL sets the case-law API base URL. Required.
func WithBaseURL(u string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = u
	})
}

// WithSummaryBaseURL points summary requests at a separate host.
// Defaults to the base URL.
func WithSummaryBaseURL(u string) Option {
	return optionFunc(func(c *clientConfig) {
		c.summaryBaseURL = u
	})
}

// WithHTTPClient replaces the HTTP client used for upstream requests.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithTimeout bounds each upstream request. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithRetries retries 429 and 5xx upstream responses up to n times.
// Default: 0.
func WithRetries(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxRetries = n
	})
}

// WithLocalCases loads the local case collection from a YAML file.
// Ids in the file are prefixed with idPrefix ("local-" when empty).
func WithLocalCases(path, idPrefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.localCasesPath = path
		c.localIDPrefix = idPrefix
	})
}

// WithPageSize sets the rows per page. Default: 10.
func WithPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageSize = n
	})
}

// WithDefaultTopic sets the remote query used when the search term is empty.
func WithDefaultTopic(topic string) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultTopic = topic
	})
}

// WithDebounce sets the quiet period before a session commits a term edit.
// Default: 500ms.
func WithDebounce(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.debounce = d
	})
}

// WithLocalOnEveryPage merges local matches into every page of a
// both-scope search instead of the first page only.
func WithLocalOnEveryPage() Option {
	return optionFunc(func(c *clientConfig) {
		c.everyPage = true
	})
}

// WithValkeyCache caches upstream responses in a Valkey instance for ttl.
func WithValkeyCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "valkey"
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithRedisCache caches upstream responses in a Redis instance for ttl.
func WithRedisCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "redis"
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

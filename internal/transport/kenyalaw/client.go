// Package kenyalaw is the HTTP client of the case-law search API.
package kenyalaw

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/caselookup/internal/domain"
	"github.com/kailas-cloud/caselookup/internal/domain/search/query"
	"github.com/kailas-cloud/caselookup/internal/metrics"
	"github.com/kailas-cloud/caselookup/internal/version"
)

// Endpoint names, used as metrics labels.
const (
	EndpointSearch       = "search"
	EndpointDocument     = "document"
	EndpointDocumentHTML = "document_html"
	EndpointSummary      = "summary"
)

const (
	defaultTimeout       = 30 * time.Second
	defaultRetryInterval = 200 * time.Millisecond
	maxBodyBytes         = 32 << 20
)

// Config holds the client settings.
type Config struct {
	BaseURL        string
	SummaryBaseURL string // defaults to BaseURL
	Timeout        time.Duration
	// RateLimit is requests per second; zero disables limiting.
	RateLimit     float64
	RateBurst     int
	MaxRetries    int
	RetryInterval time.Duration
	HTTPClient    *http.Client
	Logger        *zap.Logger
}

// Client talks to the case-law API. Safe for concurrent use.
type Client struct {
	http          *http.Client
	base          string
	summaryBase   string
	limiter       *rate.Limiter
	maxRetries    int
	retryInterval time.Duration
	logger        *zap.Logger
}

// New creates a client.
func New(cfg Config) (*Client, error) {
	base, err := normalizeBase(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}
	summaryBase := base
	if cfg.SummaryBaseURL != "" {
		if summaryBase, err = normalizeBase(cfg.SummaryBaseURL); err != nil {
			return nil, fmt.Errorf("summary base url: %w", err)
		}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	retryInterval := cfg.RetryInterval
	if retryInterval <= 0 {
		retryInterval = defaultRetryInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		http:          httpClient,
		base:          base,
		summaryBase:   summaryBase,
		limiter:       limiter,
		maxRetries:    max(cfg.MaxRetries, 0),
		retryInterval: retryInterval,
		logger:        logger,
	}, nil
}

func normalizeBase(raw string) (string, error) {
	if raw == "" {
		return "", errors.New("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return strings.TrimRight(raw, "/"), nil
}

// Search runs a search and returns the raw response body.
func (c *Client) Search(ctx context.Context, q query.Query) ([]byte, error) {
	return c.get(ctx, EndpointSearch, c.base+"/kenyalaw/search?"+q.Values().Encode())
}

// Document returns the raw metadata document of a case.
func (c *Client) Document(ctx context.Context, id string) ([]byte, error) {
	return c.get(ctx, EndpointDocument, c.base+"/kenyalaw/document/"+url.PathEscape(id))
}

// DocumentHTML returns the raw full-content document of a case.
func (c *Client) DocumentHTML(ctx context.Context, id string) ([]byte, error) {
	return c.get(ctx, EndpointDocumentHTML, c.base+"/kenyalaw/document/html/"+url.PathEscape(id))
}

type summaryResponse struct {
	Summary *string `json:"summary"`
}

// Summary returns the upstream summary of a case.
func (c *Client) Summary(ctx context.Context, id string) (string, error) {
	u := c.summaryBase + "/kenyalaw/document/" + url.PathEscape(id) + "/summary?force_refresh=false"
	body, err := c.get(ctx, EndpointSummary, u)
	if err != nil {
		return "", err
	}
	var resp summaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: summary: %w", domain.ErrMalformedResponse, err)
	}
	if resp.Summary == nil {
		return "", fmt.Errorf("%w: summary field missing", domain.ErrMalformedResponse)
	}
	return *resp.Summary, nil
}

// Ping checks that the API host answers HTTP. Any status counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/", http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	_ = resp.Body.Close()
	return nil
}

// get performs a rate-limited GET with bounded retries. Client errors other
// than 429 are not retried.
func (c *Client) get(ctx context.Context, endpoint, rawURL string) ([]byte, error) {
	op := func() ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("rate limiter: %w", err))
		}
		body, err := c.do(ctx, endpoint, rawURL)
		if err != nil && !retryable(err) {
			return nil, backoff.Permanent(err)
		}
		return body, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInterval
	b := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.maxRetries)), ctx) //nolint:gosec // non-negative

	notify := func(err error, wait time.Duration) {
		metrics.UpstreamRetriesTotal.WithLabelValues(endpoint).Inc()
		c.logger.Debug("Retrying upstream request",
			zap.String("endpoint", endpoint), zap.Duration("wait", wait), zap.Error(err))
	}

	body, err := backoff.RetryNotifyWithData(op, b, notify)
	if err != nil {
		return nil, err //nolint:wrapcheck // already wrapped in do
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, endpoint, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrUpstream, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, domain.NewUpstreamError(endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read body: %w", domain.ErrUpstream, endpoint, err)
	}
	return body, nil
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var ue *domain.UpstreamError
	if errors.As(err, &ue) {
		return ue.StatusCode == http.StatusTooManyRequests || ue.StatusCode >= 500
	}
	return true
}

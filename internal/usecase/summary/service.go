// Package summary serves on-demand case summaries. Failures never reach the
// caller; they yield a placeholder.
package summary

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/caselookup/internal/metrics"
)

// DefaultPlaceholder is returned when no summary can be produced.
const DefaultPlaceholder = "Summary not available."

const (
	defaultMemoSize     = 1024
	defaultMemoTTL      = 24 * time.Hour
	defaultFetchTimeout = 60 * time.Second
)

// Provider produces the summary text of a case.
type Provider interface {
	Summary(ctx context.Context, id string) (string, error)
}

// Service memoizes successful summaries per id in a bounded, expiring LRU.
// Safe for concurrent use.
type Service struct {
	provider     Provider
	name         string
	placeholder  string
	logger       *zap.Logger
	fetchTimeout time.Duration

	group singleflight.Group
	memo  *expirable.LRU[string, string]
}

// New creates a summary service. name labels metrics and logs.
func New(provider Provider, name string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		provider:     provider,
		name:         name,
		placeholder:  DefaultPlaceholder,
		logger:       logger,
		fetchTimeout: defaultFetchTimeout,
		memo:         expirable.NewLRU[string, string](defaultMemoSize, nil, defaultMemoTTL),
	}
}

// WithMemo bounds the memo to size entries kept for at most ttl.
func (s *Service) WithMemo(size int, ttl time.Duration) *Service {
	if size > 0 && ttl > 0 {
		s.memo = expirable.NewLRU[string, string](size, nil, ttl)
	}
	return s
}

// WithPlaceholder overrides the failure text.
func (s *Service) WithPlaceholder(p string) *Service {
	if p != "" {
		s.placeholder = p
	}
	return s
}

// Placeholder returns the failure text.
func (s *Service) Placeholder() string { return s.placeholder }

// Get returns the summary for id, or the placeholder on any failure.
// Concurrent requests for one id share a single provider call, which is not
// canceled when one of the callers goes away.
func (s *Service) Get(ctx context.Context, id string) string {
	if cached, ok := s.memo.Get(id); ok {
		metrics.SummaryRequestsTotal.WithLabelValues(s.name, "memo").Inc()
		return cached
	}

	ch := s.group.DoChan(id, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()
		text, err := s.provider.Summary(fctx, id)
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			s.memo.Add(id, text)
		}
		return text, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		metrics.SummaryRequestsTotal.WithLabelValues(s.name, "canceled").Inc()
		return s.placeholder
	case res = <-ch:
	}

	text, _ := res.Val.(string)
	if res.Err != nil {
		s.logger.Warn("Case summary failed", zap.String("id", id), zap.String("provider", s.name), zap.Error(res.Err))
		metrics.SummaryRequestsTotal.WithLabelValues(s.name, "error").Inc()
		return s.placeholder
	}
	if text == "" {
		metrics.SummaryRequestsTotal.WithLabelValues(s.name, "empty").Inc()
		return s.placeholder
	}
	metrics.SummaryRequestsTotal.WithLabelValues(s.name, "ok").Inc()
	return text
}

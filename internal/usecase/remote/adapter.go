// Package remote translates committed filters into remote case searches and
// flattens the heterogeneous response envelope into list rows.
package remote

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/caselookup/internal/domain"
	"github.com/kailas-cloud/caselookup/internal/domain/caserecord"
	"github.com/kailas-cloud/caselookup/internal/domain/rawdoc"
	"github.com/kailas-cloud/caselookup/internal/domain/search/filter"
	"github.com/kailas-cloud/caselookup/internal/domain/search/page"
	"github.com/kailas-cloud/caselookup/internal/domain/search/query"
	"github.com/kailas-cloud/caselookup/internal/metrics"
)

// DefaultTopic seeds the search when the free-text term is empty.
const DefaultTopic = "constitutional rights"

// Adapter queries the remote endpoint. Failures never reach the caller.
type Adapter struct {
	backend      Backend
	norm         Normalizer
	logger       *zap.Logger
	defaultTopic string
	pageSize     int
	useCache     bool
	maxAgeHours  int
}

// New creates an adapter with default topic, page size and cache hints.
func New(backend Backend, norm Normalizer, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		backend:      backend,
		norm:         norm,
		logger:       logger,
		defaultTopic: DefaultTopic,
		pageSize:     page.DefaultSize,
		useCache:     true,
		maxAgeHours:  query.DefaultCacheMaxAgeHours,
	}
}

// WithDefaultTopic sets the term used when the filter term is empty.
func (a *Adapter) WithDefaultTopic(topic string) *Adapter {
	if topic != "" {
		a.defaultTopic = topic
	}
	return a
}

// WithPageSize sets the requested page size.
func (a *Adapter) WithPageSize(size int) *Adapter {
	if size > 0 {
		a.pageSize = size
	}
	return a
}

// WithCacheHints sets the upstream cache parameters.
func (a *Adapter) WithCacheHints(useCache bool, maxAgeHours int) *Adapter {
	a.useCache = useCache
	if maxAgeHours > 0 {
		a.maxAgeHours = maxAgeHours
	}
	return a
}

// PageSize returns the configured page size.
func (a *Adapter) PageSize() int { return a.pageSize }

// Query builds the request for committed filters and a 1-based page.
// Relevance is converted from percent to a fraction.
func (a *Adapter) Query(f filter.Filters, pageNum int) query.Query {
	if pageNum < 1 {
		pageNum = 1
	}
	term := strings.TrimSpace(f.Term)
	if term == "" {
		term = a.defaultTopic
	}
	q := query.Query{
		Term:             term,
		Page:             pageNum,
		PageSize:         a.pageSize,
		Court:            f.Court,
		Year:             f.Year,
		UseCache:         a.useCache,
		CacheMaxAgeHours: a.maxAgeHours,
	}
	if v, ok := f.MinRelevanceValue(); ok {
		frac := v / 100
		q.MinRelevance = &frac
	}
	return q
}

// Search runs one remote page. Transport, status and shape failures degrade
// to an empty result and are only logged.
func (a *Adapter) Search(ctx context.Context, f filter.Filters, pageNum int) page.Result {
	q := a.Query(f, pageNum)

	body, err := a.backend.Search(ctx, q)
	if err != nil {
		a.logger.Warn("Remote search failed",
			zap.String("term", q.Term), zap.Int("page", q.Page), zap.Error(err))
		metrics.SearchDegradedTotal.WithLabelValues("transport").Inc()
		return page.Empty()
	}

	docs, total, err := parseEnvelope(body)
	if err != nil {
		a.logger.Warn("Remote search returned malformed body",
			zap.String("term", q.Term), zap.Int("page", q.Page), zap.Error(err))
		metrics.SearchDegradedTotal.WithLabelValues("malformed").Inc()
		return page.Empty()
	}

	cases := make([]caserecord.CaseRecord, 0, len(docs))
	for i, d := range docs {
		cases = append(cases, a.norm.Row(d, fmt.Sprintf("online-%d-%d", q.Page, i)))
	}
	return page.Result{Cases: cases, TotalResults: total}
}

// parseEnvelope accepts {results: [...]} (arrays may nest) or {cases: [...]}.
// A missing list is zero results. The total falls back to the row count.
func parseEnvelope(body []byte) ([]rawdoc.Document, int, error) {
	env, err := rawdoc.Decode(body)
	if err != nil {
		return nil, 0, err
	}

	var items []any
	if list, ok := env.List("results"); ok {
		items = flatten(list)
	} else if list, ok := env.List("cases"); ok {
		items = list
	} else if env["results"] != nil || env["cases"] != nil {
		return nil, 0, fmt.Errorf("%w: result list is not an array", domain.ErrMalformedResponse)
	}

	docs := make([]rawdoc.Document, 0, len(items))
	for _, it := range items {
		if d, ok := rawdoc.FromValue(it); ok {
			docs = append(docs, d)
		}
	}

	// A zero count falls through to the next source.
	total := len(docs)
	for _, k := range []string{"totalResults", "total_count"} {
		if n, ok := env.Number(k); ok && n > 0 {
			total = int(n)
			break
		}
	}
	return docs, total, nil
}

func flatten(items []any) []any {
	out := make([]any, 0, len(items))
	for _, it := range items {
		if nested, ok := it.([]any); ok {
			out = append(out, flatten(nested)...)
			continue
		}
		out = append(out, it)
	}
	return out
}

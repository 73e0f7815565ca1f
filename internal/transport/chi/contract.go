package chi

import (
	"context"

	"github.com/kailas-cloud/caselookup/internal/domain/caserecord"
	"github.com/kailas-cloud/caselookup/internal/domain/search/filter"
	healthuc "github.com/kailas-cloud/caselookup/internal/usecase/health"
	searchuc "github.com/kailas-cloud/caselookup/internal/usecase/search"
)

// Searcher runs one committed search.
type Searcher interface {
	Run(ctx context.Context, f filter.Filters, pageNum int) (searchuc.Response, error)
}

// CaseLoader resolves a case id to its detail record.
type CaseLoader interface {
	Load(ctx context.Context, id string) (caserecord.CaseRecord, error)
}

// Summarizer returns a summary or a placeholder, never an error.
type Summarizer interface {
	Get(ctx context.Context, id string) string
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

package search

import (
	"context"

	"github.com/kailas-cloud/caselookup/internal/domain/caserecord"
	"github.com/kailas-cloud/caselookup/internal/domain/search/filter"
	"github.com/kailas-cloud/caselookup/internal/domain/search/page"
)

// LocalSearcher filters the in-memory collection.
type LocalSearcher interface {
	Search(f filter.Filters) []caserecord.CaseRecord
}

// RemoteSearcher queries one remote page. It never fails; errors degrade to
// an empty result.
type RemoteSearcher interface {
	Search(ctx context.Context, f filter.Filters, pageNum int) page.Result
	PageSize() int
}

// Package search runs one committed query through the local searcher, the
// remote adapter and the merger.
package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/caselookup/internal/domain"
	"github.com/kailas-cloud/caselookup/internal/domain/caserecord"
	"github.com/kailas-cloud/caselookup/internal/domain/search/filter"
	"github.com/kailas-cloud/caselookup/internal/domain/search/page"
	"github.com/kailas-cloud/caselookup/internal/usecase/merge"
)

// Response is one displayed window with its pagination state.
type Response struct {
	page.Result
	Nav      page.Nav `json:"nav"`
	PageSize int      `json:"pageSize"`
}

// Service executes committed searches. Safe for concurrent use.
type Service struct {
	local  LocalSearcher
	remote RemoteSearcher
	policy merge.Policy
}

// New creates a search service. local may be nil when no collection is loaded.
func New(local LocalSearcher, remote RemoteSearcher) *Service {
	return &Service{local: local, remote: remote, policy: merge.FirstPage}
}

// WithPolicy sets the both-scope pagination policy.
func (s *Service) WithPolicy(p merge.Policy) *Service {
	if p != "" {
		s.policy = p
	}
	return s
}

// PageSize returns the rows per remote page.
func (s *Service) PageSize() int { return s.remote.PageSize() }

// Run executes committed filters for a 1-based page.
func (s *Service) Run(ctx context.Context, f filter.Filters, pageNum int) (Response, error) {
	f = f.Trimmed()
	if err := f.Validate(); err != nil {
		return Response{}, err
	}
	if pageNum < 1 {
		return Response{}, fmt.Errorf("%w: page %d", domain.ErrInvalidPage, pageNum)
	}

	var local []caserecord.CaseRecord
	if f.Scope.UsesLocal() && s.local != nil {
		local = s.local.Search(f)
	}

	remote := page.Empty()
	if f.Scope.UsesRemote() {
		remote = s.remote.Search(ctx, f, pageNum)
	}

	if err := ctx.Err(); err != nil {
		return Response{}, fmt.Errorf("search canceled: %w", err)
	}

	res := merge.MergePage(f.Scope, local, remote, pageNum, s.policy)
	size := s.remote.PageSize()
	return Response{
		Result:   res,
		Nav:      page.Navigation(pageNum, res.TotalResults, size, false),
		PageSize: size,
	}, nil
}

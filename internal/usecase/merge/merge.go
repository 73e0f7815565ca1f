// Package merge combines local and remote case rows per search scope.
package merge

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/caselookup/internal/domain/caserecord"
	"github.com/kailas-cloud/caselookup/internal/domain/search/page"
	"github.com/kailas-cloud/caselookup/internal/domain/search/scope"
)

// Policy decides where local matches appear when both sources are merged.
// The local collection is never paginated while the remote one is, so the
// combined total does not map onto a stable page-by-page traversal.
type Policy string

const (
	// FirstPage merges local matches into page 1 only, so each local match is
	// shown exactly once across a traversal.
	FirstPage Policy = "first_page"
	// EveryPage merges all local matches into every page.
	EveryPage Policy = "every_page"
)

// ParsePolicy validates a configured policy name. Empty means FirstPage.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "":
		return FirstPage, nil
	case FirstPage, EveryPage:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("unknown both-scope pagination policy %q", s)
	}
}

// Merge combines sources for the given scope.
//
//	local:  local rows sorted by relevance; total = len(local)
//	online: remote page as ranked by the server; total = remote total
//	both:   local + remote, stable-sorted by relevance; total = len(local) + remote total
func Merge(s scope.Scope, local []caserecord.CaseRecord, remote page.Result) page.Result {
	switch s {
	case scope.Local:
		return page.Result{Cases: ranked(local), TotalResults: len(local)}
	case scope.Online:
		cases := remote.Cases
		if cases == nil {
			cases = []caserecord.CaseRecord{}
		}
		return page.Result{Cases: cases, TotalResults: remote.TotalResults}
	default:
		combined := make([]caserecord.CaseRecord, 0, len(local)+len(remote.Cases))
		combined = append(combined, local...)
		combined = append(combined, remote.Cases...)
		sort.Stable(caserecord.ByRelevance(combined))
		return page.Result{Cases: combined, TotalResults: len(local) + remote.TotalResults}
	}
}

// MergePage applies the both-scope policy for a 1-based page, then merges.
// The total always counts every local match.
func MergePage(
	s scope.Scope, local []caserecord.CaseRecord, remote page.Result, pageNum int, p Policy,
) page.Result {
	if s != scope.Both || p == EveryPage || pageNum <= 1 {
		return Merge(s, local, remote)
	}
	res := Merge(s, nil, remote)
	res.TotalResults += len(local)
	return res
}

func ranked(in []caserecord.CaseRecord) []caserecord.CaseRecord {
	out := make([]caserecord.CaseRecord, len(in))
	copy(out, in)
	sort.Stable(caserecord.ByRelevance(out))
	return out
}

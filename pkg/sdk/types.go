package caselookup

import (
	"github.com/kailas-cloud/caselookup/internal/domain/caserecord"
	"github.com/kailas-cloud/caselookup/internal/domain/search/filter"
	"github.com/kailas-cloud/caselookup/internal/domain/search/scope"
	"github.com/kailas-cloud/caselookup/internal/usecase/session"
)

// Case is a normalized legal case.
type Case = caserecord.CaseRecord

// Parties holds the named sides of a matter.
type Parties = caserecord.Parties

// Filters is one set of search inputs.
type Filters = filter.Filters

// Patch is a partial filter edit for Session.UpdateFilters.
type Patch = filter.Patch

// Scope selects the sources a search consults.
type Scope = scope.Scope

// Search scopes.
const (
	ScopeLocal  = scope.Local
	ScopeOnline = scope.Online
	ScopeBoth   = scope.Both
)

// Session is an interactive search dialog.
type Session = session.Session

// Snapshot is the observable state of a Session.
type Snapshot = session.Snapshot

// Page is one displayed window of search results.
type Page struct {
	Cases        []Case
	TotalResults int
	TotalPages   int
	Page         int
	PageSize     int
	CanPrev      bool
	CanNext      bool
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

// Package page holds aggregate search results and pagination math.
package page

import "github.com/kailas-cloud/caselookup/internal/domain/caserecord"

// DefaultSize is the number of rows per page.
const DefaultSize = 10

// Result is one displayed window plus the aggregate total used for pagination.
// Cases is the current window only, not the full result set.
type Result struct {
	Cases        []caserecord.CaseRecord `json:"cases"`
	TotalResults int                     `json:"totalResults"`
}

// Empty is the degraded result returned when a source fails.
func Empty() Result {
	return Result{Cases: []caserecord.CaseRecord{}}
}

// TotalPages returns ceil(total/size). A non-positive size yields 0.
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Nav describes the state of the page controls.
type Nav struct {
	Page       int  `json:"page"`
	TotalPages int  `json:"totalPages"`
	CanPrev    bool `json:"canPrev"`
	CanNext    bool `json:"canNext"`
}

// Navigation computes control state. Both directions are disabled while a
// query is in flight.
func Navigation(current, total, size int, inFlight bool) Nav {
	pages := TotalPages(total, size)
	return Nav{
		Page:       current,
		TotalPages: pages,
		CanPrev:    !inFlight && current > 1,
		CanNext:    !inFlight && current < pages,
	}
}

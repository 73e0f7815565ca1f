// Package local searches the in-memory case collection fixed at dialog open.
package local

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/caselookup/internal/domain/caserecord"
	"github.com/kailas-cloud/caselookup/internal/domain/search/filter"
)

// DefaultIDPrefix marks ids that resolve against the local collection only.
const DefaultIDPrefix = "local-"

// Searcher filters a fixed collection synchronously. Safe for concurrent use.
type Searcher struct {
	cases  []caserecord.CaseRecord
	byID   map[string]int
	prefix string
}

// New creates a searcher over a copy of cases.
func New(cases []caserecord.CaseRecord, idPrefix string) *Searcher {
	if idPrefix == "" {
		idPrefix = DefaultIDPrefix
	}
	s := &Searcher{
		cases:  append([]caserecord.CaseRecord(nil), cases...),
		byID:   make(map[string]int, len(cases)),
		prefix: idPrefix,
	}
	for i, c := range s.cases {
		s.byID[c.ID] = i
	}
	return s
}

// Owns reports whether id follows the local-only convention.
func (s *Searcher) Owns(id string) bool {
	return strings.HasPrefix(id, s.prefix)
}

// Get returns the record with the given id.
func (s *Searcher) Get(id string) (caserecord.CaseRecord, bool) {
	i, ok := s.byID[id]
	if !ok {
		return caserecord.CaseRecord{}, false
	}
	return s.cases[i], true
}

// Len returns the collection size.
func (s *Searcher) Len() int { return len(s.cases) }

// Search returns every record matching the committed filters, in collection
// order. No pagination is applied.
func (s *Searcher) Search(f filter.Filters) []caserecord.CaseRecord {
	m := newMatcher(f)
	out := make([]caserecord.CaseRecord, 0)
	for _, c := range s.cases {
		if m.match(&c) {
			out = append(out, c)
		}
	}
	return out
}

type matcher struct {
	year      string
	court     string
	minRel    float64
	hasMinRel bool
	term      string
}

func newMatcher(f filter.Filters) matcher {
	m := matcher{
		year:  f.Year,
		court: strings.ToLower(f.Court),
		term:  strings.ToLower(f.Term),
	}
	m.minRel, m.hasMinRel = f.MinRelevanceValue()
	return m
}

// match applies year, court and relevance as hard constraints. The term is
// checked last and decides the result on its own: a hit in any of title,
// summary, court or citation is enough.
func (m matcher) match(c *caserecord.CaseRecord) bool {
	if m.year != "" && strconv.Itoa(c.Year) != m.year {
		return false
	}
	if m.court != "" && !strings.Contains(strings.ToLower(c.Court), m.court) {
		return false
	}
	if m.hasMinRel && c.Relevance*100 < m.minRel {
		return false
	}
	if m.term != "" {
		return containsFold(c.Title, m.term) ||
			containsFold(c.Summary, m.term) ||
			containsFold(c.Court, m.term) ||
			containsFold(c.Citation, m.term)
	}
	return true
}

func containsFold(s, lowerSub string) bool {
	return strings.Contains(strings.ToLower(s), lowerSub)
}

// Package normalize converts raw upstream documents into canonical case records.
//
// All fallback chains live in one field-mapping table (fields.go); supporting a
// new upstream shape means adding a source name there.
package normalize

import (
	"time"

	"github.com/kailas-cloud/caselookup/internal/domain/caserecord"
	"github.com/kailas-cloud/caselookup/internal/domain/rawdoc"
)

// Normalizer builds CaseRecords from raw documents. Safe for concurrent use.
type Normalizer struct {
	parties PartyExtractor
	now     func() time.Time
}

// New creates a normalizer with the title-based party extractor.
func New() *Normalizer {
	return &Normalizer{parties: TitleParties{}, now: time.Now}
}

// WithPartyExtractor replaces the title heuristic.
func (n *Normalizer) WithPartyExtractor(p PartyExtractor) *Normalizer {
	if p != nil {
		n.parties = p
	}
	return n
}

// WithClock sets the time source used for the current-year fallback.
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	if now != nil {
		n.now = now
	}
	return n
}

// Row builds the abbreviated record used for list rows.
func (n *Normalizer) Row(d rawdoc.Document, contextID string) caserecord.CaseRecord {
	r := caserecord.CaseRecord{ID: contextID}
	if id, ok := resolveText(d, idSources); ok {
		r.ID = id
	}

	applyText(&r, d, rowTextFields)

	r.Year = n.now().Year()
	if y, ok := resolveYear(d); ok {
		r.Year = y
	}
	r.Relevance = resolveRelevance(d)
	return r
}

// Normalize builds the full detail record, including synthesized explainers.
func (n *Normalizer) Normalize(d rawdoc.Document, contextID string) caserecord.CaseRecord {
	r := n.Row(d, contextID)

	applyText(&r, d, detailTextFields)
	applyLists(&r, d, detailListFields)

	if v, ok := d.SplitStrings("judges"); ok {
		r.Judges = v
	}
	if v, ok := d.SplitStrings("keywords"); ok {
		r.Keywords = v
	}
	if v, ok := d["headnotes"]; ok && v != nil {
		r.Headnotes = v
	}

	parties, ok := structuredParties(d)
	if !ok {
		parties = n.parties.Extract(r.Title)
	}
	r.Parties = &parties

	r.Explainers = buildExplainers(d, &r)
	return r
}

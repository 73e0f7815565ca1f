package normalize

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/caselookup/internal/domain/caserecord"
	"github.com/kailas-cloud/caselookup/internal/domain/rawdoc"
)

// NoHighlights is the placeholder used when the upstream returns no snippets.
const NoHighlights = "No highlighted passages were returned for this case."

func buildExplainers(d rawdoc.Document, r *caserecord.CaseRecord) *caserecord.Explainers {
	return &caserecord.Explainers{
		Relevance: fmt.Sprintf(
			"Ranked with a normalized relevance of %.3f (%.1f%%) from a raw search score of %s.",
			r.Relevance, r.Relevance*100, rawScore(d),
		),
		CaseImportance: caseImportance(d, r),
		Highlight:      caserecord.Highlight{Content: highlights(d)},
	}
}

// highlights reads highlight.content, a bare highlight array, or highlights.
func highlights(d rawdoc.Document) []string {
	if obj, ok := d.Object("highlight"); ok {
		if items, ok := obj.Strings("content"); ok && len(items) > 0 {
			return items
		}
	}
	for _, k := range []string{"highlight", "highlights"} {
		if items, ok := d.Strings(k); ok && len(items) > 0 {
			return items
		}
	}
	return []string{NoHighlights}
}

func caseImportance(d rawdoc.Document, r *caserecord.CaseRecord) string {
	nature := "judgment"
	if s, ok := d.Text("nature"); ok {
		nature = strings.ToLower(s)
	}

	date := r.DateDelivered
	if date == "" {
		date = "an unrecorded date"
	}

	parties := "unnamed parties"
	if names := r.Parties.Names(); len(names) > 0 {
		parties = strings.Join(names, ", ")
	}

	registry := "unknown registry"
	if r.Registry != nil && *r.Registry != "" {
		registry = *r.Registry
	}

	return fmt.Sprintf(
		"This %s of the %s, delivered on %s in the matter involving %s at the %s, forms part of the reported case law on this question.",
		nature, r.Court, date, parties, registry,
	)
}

package normalize

import (
	"regexp"
	"strconv"

	"github.com/kailas-cloud/caselookup/internal/domain/caserecord"
	"github.com/kailas-cloud/caselookup/internal/domain/rawdoc"
)

// textSource yields a candidate value for a string field.
type textSource func(d rawdoc.Document) (string, bool)

// listSource yields a candidate value for an array field.
type listSource func(d rawdoc.Document) ([]any, bool)

func key(name string) textSource {
	return func(d rawdoc.Document) (string, bool) { return d.Text(name) }
}

func firstElem(name string) textSource {
	return func(d rawdoc.Document) (string, bool) {
		items, ok := d.Strings(name)
		if !ok || len(items) == 0 {
			return "", false
		}
		return items[0], true
	}
}

// leadParagraph reads the first paragraph of a plain-text or HTML body.
func leadParagraph(textKey, htmlKey string) textSource {
	return func(d rawdoc.Document) (string, bool) {
		if s, ok := d.Text(textKey); ok {
			if p := firstParagraph(s); p != "" {
				return p, true
			}
		}
		if s, ok := d.Text(htmlKey); ok {
			if p := firstParagraph(htmlToText(s)); p != "" {
				return p, true
			}
		}
		return "", false
	}
}

func list(name string) listSource {
	return func(d rawdoc.Document) ([]any, bool) { return d.List(name) }
}

// textField maps one canonical string field to its ordered upstream sources.
type textField struct {
	name     string
	sources  []textSource
	fallback string
	// optional fields are left unset instead of defaulted.
	optional bool
	assign   func(r *caserecord.CaseRecord, v string)
}

// listField maps one canonical array field. With concat every present source
// contributes; otherwise the first present source wins.
type listField struct {
	name    string
	sources []listSource
	concat  bool
	assign  func(r *caserecord.CaseRecord, v []any)
}

// idSources resolve the record id; the caller's context id is the last resort.
var idSources = []textSource{key("id"), key("_id"), key("document_id"), key("doc_id")}

// rowTextFields are the fields every list row carries.
var rowTextFields = []textField{
	{
		name:     "title",
		sources:  []textSource{key("title"), key("case_title")},
		fallback: caserecord.DefaultTitle,
		assign:   func(r *caserecord.CaseRecord, v string) { r.Title = v },
	},
	{
		name:     "citation",
		sources:  []textSource{key("citation"), key("case_citation"), firstElem("alternative_names")},
		fallback: caserecord.DefaultCitation,
		assign:   func(r *caserecord.CaseRecord, v string) { r.Citation = v },
	},
	{
		name:     "court",
		sources:  []textSource{key("court"), key("court_name")},
		fallback: caserecord.DefaultCourt,
		assign:   func(r *caserecord.CaseRecord, v string) { r.Court = v },
	},
	{
		name:     "summary",
		sources:  []textSource{key("summary"), key("case_summary")},
		fallback: caserecord.DefaultSummary,
		assign:   func(r *caserecord.CaseRecord, v string) { r.Summary = v },
	},
}

// detailTextFields extend a row for the detail view.
var detailTextFields = []textField{
	{
		name:     "registry",
		sources:  []textSource{key("registry"), key("locality")},
		optional: true,
		assign:   func(r *caserecord.CaseRecord, v string) { r.Registry = &v },
	},
	{
		name: "overview",
		sources: []textSource{
			key("overview"), key("case_overview"), key("summary"),
			leadParagraph("full_text", "content_html"),
		},
		fallback: caserecord.DefaultOverview,
		assign:   func(r *caserecord.CaseRecord, v string) { r.Overview = v },
	},
	{
		name:     "dateDelivered",
		sources:  []textSource{key("date_delivered"), key("dateDelivered"), key("date")},
		optional: true,
		assign:   func(r *caserecord.CaseRecord, v string) { r.DateDelivered = v },
	},
	{
		name:     "caseNumber",
		sources:  []textSource{key("case_number"), key("caseNumber")},
		optional: true,
		assign:   func(r *caserecord.CaseRecord, v string) { r.CaseNumber = v },
	},
	{
		name: "fullText",
		sources: []textSource{
			key("fullText"), key("full_text"), key("content_text"), key("raw"), key("judgment"),
		},
		optional: true,
		assign:   func(r *caserecord.CaseRecord, v string) { r.FullText = &v },
	},
}

var detailListFields = []listField{
	{
		name: "judgmentReferences",
		sources: []listSource{
			list("references"), list("judgment_references"), list("references_cases"),
			list("references_legislation"), list("citations"),
		},
		concat: true,
		assign: func(r *caserecord.CaseRecord, v []any) { r.JudgmentReferences = v },
	},
	{
		name:    "precedents",
		sources: []listSource{list("precedents"), list("cited_cases")},
		assign:  func(r *caserecord.CaseRecord, v []any) { r.Precedents = v },
	},
	{
		name:    "legislation",
		sources: []listSource{list("legislation"), list("cited_legislation")},
		assign:  func(r *caserecord.CaseRecord, v []any) { r.Legislation = v },
	},
	{
		name:    "attachments",
		sources: []listSource{list("attachments")},
		assign:  func(r *caserecord.CaseRecord, v []any) { r.Attachments = v },
	},
}

func resolveText(d rawdoc.Document, sources []textSource) (string, bool) {
	for _, src := range sources {
		if v, ok := src(d); ok {
			return v, true
		}
	}
	return "", false
}

func applyText(r *caserecord.CaseRecord, d rawdoc.Document, fields []textField) {
	for _, f := range fields {
		v, ok := resolveText(d, f.sources)
		if !ok {
			if f.optional {
				continue
			}
			v = f.fallback
		}
		f.assign(r, v)
	}
}

func applyLists(r *caserecord.CaseRecord, d rawdoc.Document, fields []listField) {
	for _, f := range fields {
		out := []any{}
		for _, src := range f.sources {
			items, ok := src(d)
			if !ok {
				continue
			}
			if !f.concat {
				out = items
				break
			}
			for _, it := range items {
				if isBlank(it) {
					continue
				}
				out = append(out, it)
			}
		}
		f.assign(r, out)
	}
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	default:
		return false
	}
}

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// resolveYear reads year, then the year component of date.
func resolveYear(d rawdoc.Document) (int, bool) {
	if n, ok := d.Number("year"); ok && n > 0 {
		return int(n), true
	}
	if s, ok := d.Text("date"); ok {
		if m := yearPattern.FindStringSubmatch(s); m != nil {
			if y, err := strconv.Atoi(m[1]); err == nil && y > 0 {
				return y, true
			}
		}
	}
	return 0, false
}

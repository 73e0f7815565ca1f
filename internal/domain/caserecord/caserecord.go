// Package caserecord defines the canonical, always-complete case representation.
package caserecord

// Defaults applied by normalization when no upstream source provides a value.
const (
	DefaultTitle     = "Unknown Title"
	DefaultCitation  = "No Citation"
	DefaultCourt     = "Unknown Court"
	DefaultSummary   = "No summary available"
	DefaultOverview  = "No overview available"
	DefaultRelevance = 0.5
)

// CaseRecord is a normalized legal case.
// Title, Citation, Year, Court, Summary and Relevance are always populated.
// The remaining fields are filled only for the detail view.
type CaseRecord struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Citation  string  `json:"citation"`
	Year      int     `json:"year"`
	Court     string  `json:"court"`
	Summary   string  `json:"summary"`
	Relevance float64 `json:"relevance"`

	Overview           string      `json:"overview,omitempty"`
	Parties            *Parties    `json:"parties,omitempty"`
	Judges             []string    `json:"judges,omitempty"`
	DateDelivered      string      `json:"dateDelivered,omitempty"`
	CaseNumber         string      `json:"caseNumber,omitempty"`
	Keywords           []string    `json:"keywords,omitempty"`
	Headnotes          any         `json:"headnotes,omitempty"`
	Registry           *string     `json:"registry,omitempty"`
	JudgmentReferences []any       `json:"judgmentReferences,omitempty"`
	FullText           *string     `json:"fullText,omitempty"`
	Attachments        []any       `json:"attachments,omitempty"`
	Precedents         []any       `json:"precedents,omitempty"`
	Legislation        []any       `json:"legislation,omitempty"`
	Explainers         *Explainers `json:"explainers,omitempty"`
}

// Parties holds the named sides of a matter.
type Parties struct {
	Plaintiff []string `json:"plaintiff"`
	Defendant []string `json:"defendant"`
}

// Names returns all named parties, plaintiffs first.
func (p *Parties) Names() []string {
	if p == nil {
		return nil
	}
	out := make([]string, 0, len(p.Plaintiff)+len(p.Defendant))
	out = append(out, p.Plaintiff...)
	return append(out, p.Defendant...)
}

// Explainers are synthesized, human-readable texts attached for presentation.
type Explainers struct {
	Relevance      string    `json:"relevance"`
	CaseImportance string    `json:"case_importance"`
	Highlight      Highlight `json:"highlight"`
}

// Highlight holds matched passages.
type Highlight struct {
	Content []string `json:"content"`
}

// ByRelevance orders records by descending relevance. Use with sort.Stable.
type ByRelevance []CaseRecord

func (s ByRelevance) Len() int           { return len(s) }
func (s ByRelevance) Less(i, j int) bool { return s[i].Relevance > s[j].Relevance }
func (s ByRelevance) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

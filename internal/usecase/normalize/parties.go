package normalize

import (
	"regexp"
	"strings"

	"github.com/kailas-cloud/caselookup/internal/domain/caserecord"
	"github.com/kailas-cloud/caselookup/internal/domain/rawdoc"
)

// PartyExtractor derives party names from a case title when the upstream
// document carries no structured parties.
type PartyExtractor interface {
	Extract(title string) caserecord.Parties
}

// TitleParties parses adversarial titles of the form "A, B v C, D".
//
// Grammar:
//
//	title     = plaintiffs sep defendants [citation]
//	sep       = " v " | " v. " | " vs " | " vs. " | " versus "   (case-insensitive)
//	citation  = "[" year "]" ... | "(" year ")" ...                (dropped)
//
// Only the first separator splits the title; later ones stay in the
// defendant half. Each half is split on commas. No separator yields empty lists.
type TitleParties struct{}

var (
	partySeparator = regexp.MustCompile(`(?i)\s+(?:v|vs|versus)\.?\s+`)
	trailingCite   = regexp.MustCompile(`\s*[\[(]\d{4}[\])].*$`)
)

// Extract implements PartyExtractor.
func (TitleParties) Extract(title string) caserecord.Parties {
	out := caserecord.Parties{Plaintiff: []string{}, Defendant: []string{}}

	loc := partySeparator.FindStringIndex(title)
	if loc == nil {
		return out
	}
	left := title[:loc[0]]
	right := trailingCite.ReplaceAllString(title[loc[1]:], "")

	out.Plaintiff = splitNames(left)
	out.Defendant = splitNames(right)
	return out
}

func splitNames(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// structuredParties reads a parties object, accepting appellate aliases.
func structuredParties(d rawdoc.Document) (caserecord.Parties, bool) {
	obj, ok := d.Object("parties")
	if !ok {
		return caserecord.Parties{}, false
	}
	pick := func(keys ...string) []string {
		for _, k := range keys {
			if names, ok := obj.SplitStrings(k); ok {
				return names
			}
		}
		return []string{}
	}
	return caserecord.Parties{
		Plaintiff: pick("plaintiff", "plaintiffs", "appellant", "applicant"),
		Defendant: pick("defendant", "defendants", "respondent"),
	}, true
}

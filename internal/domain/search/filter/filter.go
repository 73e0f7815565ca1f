// Package filter holds the case-search filter set and per-field commit policies.
package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/caselookup/internal/domain"
	"github.com/kailas-cloud/caselookup/internal/domain/search/scope"
)

// Field names a filter input.
type Field string

// Filter fields.
const (
	FieldScope        Field = "searchType"
	FieldTerm         Field = "searchTerm"
	FieldYear         Field = "year"
	FieldCourt        Field = "court"
	FieldMinRelevance Field = "minRelevance"
)

// Filters is one snapshot of the search inputs.
// MinRelevance is expressed in percent (0-100), as typed by the user.
type Filters struct {
	Scope        scope.Scope `json:"searchType"`
	Term         string      `json:"searchTerm"`
	Year         string      `json:"year"`
	Court        string      `json:"court"`
	MinRelevance string      `json:"minRelevance"`
}

// Default returns the filter set a dialog opens with.
func Default() Filters {
	return Filters{Scope: scope.Both}
}

// MinRelevanceValue parses MinRelevance. Unset or non-numeric values report false.
func (f Filters) MinRelevanceValue() (float64, bool) {
	s := strings.TrimSpace(f.MinRelevance)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Validate checks values that cannot be silently ignored downstream.
func (f Filters) Validate() error {
	if !f.Scope.IsValid() {
		return fmt.Errorf("%w: unknown search type %q", domain.ErrInvalidFilter, f.Scope)
	}
	if f.MinRelevance != "" {
		v, ok := f.MinRelevanceValue()
		if !ok {
			return fmt.Errorf("%w: min relevance %q is not a number", domain.ErrInvalidFilter, f.MinRelevance)
		}
		if v < 0 || v > 100 {
			return fmt.Errorf("%w: min relevance must be between 0 and 100", domain.ErrInvalidFilter)
		}
	}
	if f.Year != "" {
		if _, err := strconv.Atoi(f.Year); err != nil {
			return fmt.Errorf("%w: year %q is not a number", domain.ErrInvalidFilter, f.Year)
		}
	}
	return nil
}

// Apply returns a copy of f with every field set in p overwritten.
func (f Filters) Apply(p Patch) Filters {
	if p.Scope != nil {
		f.Scope = *p.Scope
	}
	if p.Term != nil {
		f.Term = *p.Term
	}
	if p.Year != nil {
		f.Year = *p.Year
	}
	if p.Court != nil {
		f.Court = *p.Court
	}
	if p.MinRelevance != nil {
		f.MinRelevance = *p.MinRelevance
	}
	return f
}

// Trimmed returns f with surrounding whitespace removed from the term. It is
// applied once when filters are committed, so every source sees the same term.
func (f Filters) Trimmed() Filters {
	f.Term = strings.TrimSpace(f.Term)
	return f
}

// CopyFields returns a copy of f with the listed fields taken from src.
func (f Filters) CopyFields(src Filters, fields []Field) Filters {
	for _, field := range fields {
		switch field {
		case FieldScope:
			f.Scope = src.Scope
		case FieldTerm:
			f.Term = src.Term
		case FieldYear:
			f.Year = src.Year
		case FieldCourt:
			f.Court = src.Court
		case FieldMinRelevance:
			f.MinRelevance = src.MinRelevance
		}
	}
	return f
}

// Patch is a partial filter update. Nil fields are left untouched.
type Patch struct {
	Scope        *scope.Scope
	Term         *string
	Year         *string
	Court        *string
	MinRelevance *string
}

// WithScope sets the search type.
func (p Patch) WithScope(s scope.Scope) Patch { p.Scope = &s; return p }

// WithTerm sets the free-text term.
func (p Patch) WithTerm(s string) Patch { p.Term = &s; return p }

// WithYear sets the year filter.
func (p Patch) WithYear(s string) Patch { p.Year = &s; return p }

// WithCourt sets the court filter.
func (p Patch) WithCourt(s string) Patch { p.Court = &s; return p }

// WithMinRelevance sets the minimum relevance in percent.
func (p Patch) WithMinRelevance(s string) Patch { p.MinRelevance = &s; return p }

// Fields lists the fields the patch touches.
func (p Patch) Fields() []Field {
	var out []Field
	if p.Scope != nil {
		out = append(out, FieldScope)
	}
	if p.Term != nil {
		out = append(out, FieldTerm)
	}
	if p.Year != nil {
		out = append(out, FieldYear)
	}
	if p.Court != nil {
		out = append(out, FieldCourt)
	}
	if p.MinRelevance != nil {
		out = append(out, FieldMinRelevance)
	}
	return out
}

// IsEmpty reports whether the patch touches no field.
func (p Patch) IsEmpty() bool { return len(p.Fields()) == 0 }

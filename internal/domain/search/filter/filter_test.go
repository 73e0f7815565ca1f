package filter

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/kailas-cloud/caselookup/internal/domain"
	"github.com/kailas-cloud/caselookup/internal/domain/search/scope"
)

func TestApply_OnlyTouchedFields(t *testing.T) {
	base := Filters{Scope: scope.Local, Term: "land", Year: "2020", Court: "High", MinRelevance: "40"}

	got := base.Apply(Patch{}.WithYear("2021").WithCourt(""))

	want := Filters{Scope: scope.Local, Term: "land", Year: "2021", Court: "", MinRelevance: "40"}
	if got != want {
		t.Errorf("Apply = %+v, want %+v", got, want)
	}
	if base.Year != "2020" {
		t.Error("Apply must not mutate the receiver")
	}
}

func TestPatch_Fields(t *testing.T) {
	p := Patch{}.WithScope(scope.Online).WithTerm("x").WithMinRelevance("10")
	want := []Field{FieldScope, FieldTerm, FieldMinRelevance}
	if got := p.Fields(); !reflect.DeepEqual(got, want) {
		t.Errorf("Fields = %v, want %v", got, want)
	}
	if p.IsEmpty() {
		t.Error("expected non-empty patch")
	}
	if !(Patch{}).IsEmpty() {
		t.Error("expected empty patch")
	}
}

func TestCopyFields(t *testing.T) {
	committed := Filters{Scope: scope.Both, Term: "old"}
	draft := Filters{Scope: scope.Local, Term: "new", Court: "Supreme"}

	got := committed.CopyFields(draft, []Field{FieldScope, FieldCourt})

	want := Filters{Scope: scope.Local, Term: "old", Court: "Supreme"}
	if got != want {
		t.Errorf("CopyFields = %+v, want %+v", got, want)
	}
}

func TestMinRelevanceValue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"", 0, false},
		{"abc", 0, false},
		{"75", 75, true},
		{" 12.5 ", 12.5, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := Filters{MinRelevance: tc.in}.MinRelevanceValue()
			if ok != tc.ok || got != tc.want {
				t.Errorf("got (%v, %v), want (%v, %v)", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		wantErr bool
	}{
		{"default", Default(), false},
		{"full", Filters{Scope: scope.Online, Term: "x", Year: "2019", Court: "High", MinRelevance: "50"}, false},
		{"bad scope", Filters{Scope: "remote"}, true},
		{"bad relevance", Filters{Scope: scope.Local, MinRelevance: "high"}, true},
		{"relevance above 100", Filters{Scope: scope.Local, MinRelevance: "120"}, true},
		{"bad year", Filters{Scope: scope.Local, Year: "20x1"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.filters.Validate()
			if tc.wantErr {
				if !errors.Is(err, domain.ErrInvalidFilter) {
					t.Fatalf("expected ErrInvalidFilter, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRegistry_PolicyFor(t *testing.T) {
	r := DefaultRegistry(0)

	if p := r.PolicyFor([]Field{FieldYear}); !p.IsImmediate() {
		t.Error("year alone should commit immediately")
	}
	if p := r.PolicyFor([]Field{FieldScope, FieldCourt, FieldMinRelevance}); !p.IsImmediate() {
		t.Error("selectors should commit immediately")
	}
	p := r.PolicyFor([]Field{FieldTerm})
	if p.IsImmediate() || p.Delay() != DefaultDebounce {
		t.Errorf("term should debounce %v, got %v", DefaultDebounce, p.Delay())
	}
	p = r.PolicyFor([]Field{FieldYear, FieldTerm})
	if p.IsImmediate() {
		t.Error("a batch touching the term must wait for the debounce")
	}
	if p := r.PolicyFor([]Field{"unknown"}); !p.IsImmediate() {
		t.Error("unregistered fields commit immediately")
	}
}

func TestDefaultRegistry_CustomDebounce(t *testing.T) {
	r := DefaultRegistry(50 * time.Millisecond)
	if d := r[FieldTerm].Delay(); d != 50*time.Millisecond {
		t.Errorf("term debounce = %v, want 50ms", d)
	}
}

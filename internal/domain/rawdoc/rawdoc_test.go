package rawdoc

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/caselookup/internal/domain"
)

func TestDecode(t *testing.T) {
	d, err := Decode([]byte(`{"title":"A","year":2019,"tags":["x"]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, ok := d["year"].(json.Number); !ok || n.String() != "2019" {
		t.Errorf("numbers should decode as json.Number, got %T", d["year"])
	}
}

func TestDecode_NotAnObject(t *testing.T) {
	for _, in := range []string{`[1,2]`, `"x"`, `{bad`, ``} {
		if _, err := Decode([]byte(in)); !errors.Is(err, domain.ErrMalformedResponse) {
			t.Errorf("Decode(%q): expected ErrMalformedResponse, got %v", in, err)
		}
	}
}

func TestText(t *testing.T) {
	d := Document{
		"s": "value", "empty": "", "null": nil,
		"num": json.Number("42"), "float": 3.5, "bool": true,
	}
	tests := []struct {
		key  string
		want string
		ok   bool
	}{
		{"s", "value", true},
		{"empty", "", false},
		{"null", "", false},
		{"missing", "", false},
		{"num", "42", true},
		{"float", "3.5", true},
		{"bool", "", false},
	}
	for _, tc := range tests {
		got, ok := d.Text(tc.key)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Text(%q) = (%q, %v), want (%q, %v)", tc.key, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNumber(t *testing.T) {
	d := Document{"n": json.Number("0.25"), "s": " 7 ", "bad": "x", "f": 1.5, "i": 3}
	for k, want := range map[string]float64{"n": 0.25, "s": 7, "f": 1.5, "i": 3} {
		if got, ok := d.Number(k); !ok || got != want {
			t.Errorf("Number(%q) = (%v, %v), want %v", k, got, ok, want)
		}
	}
	if _, ok := d.Number("bad"); ok {
		t.Error("non-numeric string must not parse")
	}
}

func TestListAndStrings(t *testing.T) {
	d := Document{
		"empty": []any{},
		"mixed": []any{"a", 1, "", "b"},
		"csv":   "x, y;z",
		"prose": " The court held, however, that the appeal failed ",
		"typed": []string{"p"},
	}
	if l, ok := d.List("empty"); !ok || len(l) != 0 {
		t.Error("an empty array counts as present")
	}
	if s, _ := d.Strings("mixed"); !reflect.DeepEqual(s, []string{"a", "b"}) {
		t.Errorf("Strings(mixed) = %v", s)
	}
	if s, _ := d.SplitStrings("csv"); !reflect.DeepEqual(s, []string{"x", "y", "z"}) {
		t.Errorf("SplitStrings(csv) = %v", s)
	}
	if s, _ := d.Strings("csv"); !reflect.DeepEqual(s, []string{"x, y;z"}) {
		t.Errorf("Strings(csv) = %v", s)
	}
	want := []string{"The court held, however, that the appeal failed"}
	if s, _ := d.Strings("prose"); !reflect.DeepEqual(s, want) {
		t.Errorf("Strings(prose) = %v", s)
	}
	if s, _ := d.SplitStrings("mixed"); !reflect.DeepEqual(s, []string{"a", "b"}) {
		t.Errorf("SplitStrings(mixed) = %v", s)
	}
	if s, _ := d.Strings("typed"); !reflect.DeepEqual(s, []string{"p"}) {
		t.Errorf("Strings(typed) = %v", s)
	}
}

func TestObject(t *testing.T) {
	d := Document{"o": map[string]any{"k": "v"}, "s": "x"}
	o, ok := d.Object("o")
	if !ok {
		t.Fatal("expected object")
	}
	if v, _ := o.Text("k"); v != "v" {
		t.Errorf("nested Text = %q", v)
	}
	if _, ok := d.Object("s"); ok {
		t.Error("string is not an object")
	}
}

func TestMerge_LaterWins(t *testing.T) {
	meta := Document{"title": "A", "court": "High"}
	full := Document{"title": "B", "fullText": "..."}

	got := Merge(meta, full)

	want := Document{"title": "B", "court": "High", "fullText": "..."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge = %v, want %v", got, want)
	}
	if meta["title"] != "A" {
		t.Error("Merge must not mutate inputs")
	}
}

func TestMerge_NilInputs(t *testing.T) {
	got := Merge(nil, Document{"a": 1})
	if len(got) != 1 {
		t.Errorf("Merge with nil = %v", got)
	}
}

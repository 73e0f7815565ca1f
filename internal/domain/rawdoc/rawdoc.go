// Package rawdoc models an upstream case document of unknown shape.
//
// Every accessor is nil-safe and reports whether the key held a usable value,
// so callers can walk ordered fallback chains without type switches.
package rawdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/caselookup/internal/domain"
)

// Document is a raw upstream payload. Field names vary by source and version.
type Document map[string]any

// Decode parses a JSON object into a Document. Numbers are kept as json.Number.
func Decode(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected object, got %T", domain.ErrMalformedResponse, v)
	}
	return Document(obj), nil
}

// FromValue converts an arbitrary decoded JSON value into a Document.
func FromValue(v any) (Document, bool) {
	switch m := v.(type) {
	case map[string]any:
		return Document(m), true
	case Document:
		return m, true
	default:
		return nil, false
	}
}

// Has reports whether the key is present, even with a null value.
func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Text returns a non-empty string value. Numbers are formatted without exponent.
func (d Document) Text(key string) (string, bool) {
	v, ok := d[key]
	if !ok || v == nil {
		return "", false
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case json.Number:
		s = t.String()
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	default:
		return "", false
	}
	if s == "" {
		return "", false
	}
	return s, true
}

// Number returns a finite numeric value. Numeric strings are accepted.
func (d Document) Number(key string) (float64, bool) {
	v, ok := d[key]
	if !ok || v == nil {
		return 0, false
	}
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// List returns an array value. An empty array still counts as present.
func (d Document) List(key string) ([]any, bool) {
	v, ok := d[key]
	if !ok || v == nil {
		return nil, false
	}
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out, true
	default:
		return nil, false
	}
}

// Strings returns the non-empty string elements of an array value. A plain
// string is a single-element list.
func (d Document) Strings(key string) ([]string, bool) {
	return d.strings(key, func(s string) []string { return []string{s} })
}

// SplitStrings is Strings for delimited lists: a plain string is split on
// commas and semicolons.
func (d Document) SplitStrings(key string) ([]string, bool) {
	return d.strings(key, func(s string) []string {
		return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	})
}

func (d Document) strings(key string, split func(string) []string) ([]string, bool) {
	if s, ok := d[key].(string); ok {
		parts := split(s)
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, len(out) > 0
	}
	list, ok := d.List(key)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out, true
}

// Object returns a nested object value.
func (d Document) Object(key string) (Document, bool) {
	v, ok := d[key]
	if !ok || v == nil {
		return nil, false
	}
	return FromValue(v)
}

// Merge shallow-merges documents left to right. On key collision the later
// document wins, including explicit nulls.
func Merge(docs ...Document) Document {
	size := 0
	for _, d := range docs {
		size += len(d)
	}
	out := make(Document, size)
	for _, d := range docs {
		for k, v := range d {
			out[k] = v
		}
	}
	return out
}

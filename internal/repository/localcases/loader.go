// Package localcases loads the in-memory case collection from a YAML file.
package localcases

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/caselookup/internal/domain/caserecord"
	"github.com/kailas-cloud/caselookup/internal/domain/rawdoc"
)

// Normalizer converts raw documents into canonical records.
type Normalizer interface {
	Normalize(d rawdoc.Document, contextID string) caserecord.CaseRecord
}

// file is the on-disk layout: a top-level "cases" list of free-form documents.
type file struct {
	Cases []map[string]any `yaml:"cases"`
}

// Load reads path and normalizes every entry. Ids without idPrefix get it
// prepended; entries without an id are numbered from 1.
func Load(path, idPrefix string, n Normalizer) ([]caserecord.CaseRecord, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read local cases %s: %w", path, err)
	}
	return Parse(data, idPrefix, n)
}

// Parse normalizes a YAML document already in memory.
func Parse(data []byte, idPrefix string, n Normalizer) ([]caserecord.CaseRecord, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse local cases: %w", err)
	}

	out := make([]caserecord.CaseRecord, 0, len(f.Cases))
	seen := make(map[string]struct{}, len(f.Cases))
	for i, raw := range f.Cases {
		rec := n.Normalize(rawdoc.Document(raw), idPrefix+strconv.Itoa(i+1))
		if !strings.HasPrefix(rec.ID, idPrefix) {
			rec.ID = idPrefix + rec.ID
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("parse local cases: duplicate id %q", rec.ID)
		}
		seen[rec.ID] = struct{}{}
		out = append(out, rec)
	}
	return out, nil
}

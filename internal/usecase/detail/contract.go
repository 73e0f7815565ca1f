package detail

import (
	"context"

	"github.com/kailas-cloud/caselookup/internal/domain/caserecord"
	"github.com/kailas-cloud/caselookup/internal/domain/rawdoc"
)

// Fetcher retrieves the two upstream representations of a case.
type Fetcher interface {
	Document(ctx context.Context, id string) ([]byte, error)
	DocumentHTML(ctx context.Context, id string) ([]byte, error)
}

// LocalStore resolves ids of the in-memory collection.
type LocalStore interface {
	Owns(id string) bool
	Get(id string) (caserecord.CaseRecord, bool)
}

// Normalizer builds the full detail record.
type Normalizer interface {
	Normalize(d rawdoc.Document, contextID string) caserecord.CaseRecord
}

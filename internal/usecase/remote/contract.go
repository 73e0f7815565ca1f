package remote

import (
	"context"

	"github.com/kailas-cloud/caselookup/internal/domain/caserecord"
	"github.com/kailas-cloud/caselookup/internal/domain/rawdoc"
	"github.com/kailas-cloud/caselookup/internal/domain/search/query"
)

// Backend executes a search against the case-law API and returns the raw body.
type Backend interface {
	Search(ctx context.Context, q query.Query) ([]byte, error)
}

// Normalizer builds list rows from raw documents.
type Normalizer interface {
	Row(d rawdoc.Document, contextID string) caserecord.CaseRecord
}

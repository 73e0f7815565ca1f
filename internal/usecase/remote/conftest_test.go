package remote

import (
	"context"

	"github.com/kailas-cloud/caselookup/internal/domain/search/query"
)

type mockBackend struct {
	body    []byte
	err     error
	calls   int
	lastQry query.Query
}

func (m *mockBackend) Search(_ context.Context, q query.Query) ([]byte, error) {
	m.calls++
	m.lastQry = q
	return m.body, m.err
}

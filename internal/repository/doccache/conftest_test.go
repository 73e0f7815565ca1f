package doccache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/caselookup/internal/db"
	"github.com/kailas-cloud/caselookup/internal/domain/search/query"
)

type mockUpstream struct {
	body        []byte
	summary     string
	err         error
	searchCalls int
	docCalls    int
	htmlCalls   int
	sumCalls    int
}

func (m *mockUpstream) Search(_ context.Context, _ query.Query) ([]byte, error) {
	m.searchCalls++
	return m.body, m.err
}

func (m *mockUpstream) Document(_ context.Context, _ string) ([]byte, error) {
	m.docCalls++
	return m.body, m.err
}

func (m *mockUpstream) DocumentHTML(_ context.Context, _ string) ([]byte, error) {
	m.htmlCalls++
	return m.body, m.err
}

func (m *mockUpstream) Summary(_ context.Context, _ string) (string, error) {
	m.sumCalls++
	return m.summary, m.err
}

// mockKVStore is an in-memory store recording TTLs.
type mockKVStore struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mockKVStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func newTestCachedClient(t *testing.T, inner *mockUpstream) (*CachedClient, *mockKVStore) {
	t.Helper()
	ms := newMockKVStore()
	return New(inner, ms, 0, nil, zap.NewNop()), ms
}

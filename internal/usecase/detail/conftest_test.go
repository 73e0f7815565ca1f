package detail

import (
	"context"
	"errors"
	"sync"
)

var errFetch = errors.New("fetch failed")

type mockFetcher struct {
	mu        sync.Mutex
	meta      []byte
	full      []byte
	metaErr   error
	fullErr   error
	metaCalls int
	fullCalls int
	gate      chan struct{}
	entered   chan struct{}
}

func (m *mockFetcher) Document(ctx context.Context, _ string) ([]byte, error) {
	m.mu.Lock()
	m.metaCalls++
	gate, entered := m.gate, m.entered
	m.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.meta, m.metaErr
}

func (m *mockFetcher) DocumentHTML(ctx context.Context, _ string) ([]byte, error) {
	m.mu.Lock()
	m.fullCalls++
	m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.full, m.fullErr
}

func (m *mockFetcher) counts() (meta, full int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metaCalls, m.fullCalls
}

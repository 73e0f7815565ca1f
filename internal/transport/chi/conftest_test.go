package chi

import (
	"context"
	"sync"

	"github.com/kailas-cloud/caselookup/internal/domain/caserecord"
	"github.com/kailas-cloud/caselookup/internal/domain/search/filter"
	"github.com/kailas-cloud/caselookup/internal/domain/search/page"
	healthuc "github.com/kailas-cloud/caselookup/internal/usecase/health"
	searchuc "github.com/kailas-cloud/caselookup/internal/usecase/search"
)

type mockSearcher struct {
	mu       sync.Mutex
	filters  filter.Filters
	page     int
	calls    int
	resp     searchuc.Response
	err      error
	panicMsg string
}

func (m *mockSearcher) Run(_ context.Context, f filter.Filters, pageNum int) (searchuc.Response, error) {
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filters = f
	m.page = pageNum
	m.calls++
	if m.err != nil {
		return searchuc.Response{}, m.err
	}
	resp := m.resp
	resp.Nav.Page = pageNum
	return resp, nil
}

type mockLoader struct {
	records map[string]caserecord.CaseRecord
	err     error
	lastID  string
}

func (m *mockLoader) Load(_ context.Context, id string) (caserecord.CaseRecord, error) {
	m.lastID = id
	if m.err != nil {
		return caserecord.CaseRecord{}, m.err
	}
	rec, ok := m.records[id]
	if !ok {
		return caserecord.CaseRecord{}, errNotFoundForTest
	}
	return rec, nil
}

type mockSummarizer struct {
	text string
}

func (m *mockSummarizer) Get(_ context.Context, _ string) string { return m.text }

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

func sampleResponse() searchuc.Response {
	return searchuc.Response{
		Result: page.Result{
			Cases: []caserecord.CaseRecord{
				{ID: "ke-1", Title: "Ndung'u v Republic", Citation: "[2019] eKLR", Year: 2019,
					Court: "High Court", Summary: "s", Relevance: 0.9},
			},
			TotalResults: 21,
		},
		Nav:      page.Nav{TotalPages: 3},
		PageSize: 10,
	}
}

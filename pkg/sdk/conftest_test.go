package caselookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/kailas-cloud/caselookup/internal/domain/caserecord"
	"github.com/kailas-cloud/caselookup/internal/domain/search/filter"
	searchuc "github.com/kailas-cloud/caselookup/internal/usecase/search"
)

// fakeAPI is an httptest stand-in for the case-law API.
type fakeAPI struct {
	srv      *httptest.Server
	searches atomic.Int32
	failAll  bool
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	if f.failAll {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/kenyalaw/search":
		f.searches.Add(1)
		_, _ = w.Write([]byte(`{"results":[{"id":"k1","title":"Otieno v Kenya Power","_score":80}],"totalResults":11}`))
	case "/kenyalaw/document/k1":
		_, _ = w.Write([]byte(`{"id":"k1","title":"Otieno v Kenya Power","citation":"[2021] eKLR","court":"High Court"}`))
	case "/kenyalaw/document/html/k1":
		_, _ = w.Write([]byte(`{"id":"k1","content":"Judgment text."}`))
	case "/kenyalaw/document/k1/summary":
		_, _ = w.Write([]byte(`{"summary":"  Negligence claim dismissed.  "}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// mockSearch replaces the search pipeline in unit tests.
type mockSearch struct {
	resp searchuc.Response
	err  error
}

func (m *mockSearch) Run(_ context.Context, _ filter.Filters, pageNum int) (searchuc.Response, error) {
	if m.err != nil {
		return searchuc.Response{}, m.err
	}
	resp := m.resp
	resp.Nav.Page = pageNum
	return resp, nil
}

func (m *mockSearch) PageSize() int { return 10 }

type mockDetail struct {
	rec caserecord.CaseRecord
	err error
}

func (m *mockDetail) Load(_ context.Context, _ string) (caserecord.CaseRecord, error) {
	return m.rec, m.err
}

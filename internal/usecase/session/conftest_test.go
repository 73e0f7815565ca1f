package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/caselookup/internal/domain/caserecord"
	"github.com/kailas-cloud/caselookup/internal/domain/search/filter"
	"github.com/kailas-cloud/caselookup/internal/domain/search/page"
	"github.com/kailas-cloud/caselookup/internal/usecase/search"
)

// --- Mock runner ---

type runCall struct {
	filters filter.Filters
	page    int
}

type mockRunner struct {
	mu    sync.Mutex
	calls []runCall
	total int
	gates map[string]chan struct{} // court -> release
	err   error
}

func newMockRunner(total int) *mockRunner {
	return &mockRunner{total: total, gates: map[string]chan struct{}{}}
}

// hold makes queries for court block until the returned func is called.
func (m *mockRunner) hold(court string) (release func()) {
	ch := make(chan struct{})
	m.mu.Lock()
	m.gates[court] = ch
	m.mu.Unlock()
	return func() { close(ch) }
}

func (m *mockRunner) Run(_ context.Context, f filter.Filters, pageNum int) (search.Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, runCall{filters: f, page: pageNum})
	gate := m.gates[f.Court]
	err := m.err
	total := m.total
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return search.Response{}, err
	}
	return search.Response{Result: page.Result{
		Cases:        []caserecord.CaseRecord{{ID: f.Term + "/" + f.Court}},
		TotalResults: total,
	}}, nil
}

func (m *mockRunner) PageSize() int { return 10 }

func (m *mockRunner) Calls() []runCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]runCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// --- Fake clock ---

type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs due callbacks on the caller's goroutine.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// started returns a running session on a fake clock with the initial query settled.
func started(runner *mockRunner) (*Session, *fakeClock) {
	clock := &fakeClock{}
	s := New(runner).WithClock(clock)
	if err := s.Start(context.Background()); err != nil {
		panic(err)
	}
	s.wg.Wait()
	return s, clock
}

// waitClosed fails the test if ch is not closed within two seconds.
func waitClosed(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the session")
	}
}

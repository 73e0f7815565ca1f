// Package session owns the draft and committed filters of one search dialog
// and decides when an edit turns into a query.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/caselookup/internal/domain"
	"github.com/kailas-cloud/caselookup/internal/domain/search/filter"
	"github.com/kailas-cloud/caselookup/internal/domain/search/page"
	"github.com/kailas-cloud/caselookup/internal/metrics"
)

// Query triggers, used as a metrics label.
const (
	triggerStart    = "start"
	triggerFilter   = "filter"
	triggerDebounce = "debounce"
	triggerPage     = "page"
)

// Snapshot is a consistent view of the session state.
type Snapshot struct {
	Version   uint64
	Draft     filter.Filters
	Committed filter.Filters
	Page      int
	// Typing is set while a free-text edit waits for its quiet period.
	Typing  bool
	Loading bool
	Result  page.Result
	Nav     page.Nav
	Err     error
}

// Session is the single owner of filter and result state. All mutations are
// serialized through mu. Safe for concurrent use.
type Session struct {
	runner   Runner
	registry filter.Registry
	clock    Clock
	logger   *zap.Logger

	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
	draft     filter.Filters
	committed filter.Filters
	page      int
	loading   bool
	result    page.Result
	err       error
	gen       uint64
	version   uint64
	timer     Timer
	timerSeq  uint64
	started   bool
	closed    bool
	inflight  context.CancelFunc
	subs      map[int]func(Snapshot)
	nextSubID int

	// Subscribers are called from a single delivery goroutine, never from
	// the goroutine that changed the state.
	notifyMu    sync.Mutex
	pending     Snapshot
	hasPending  bool
	delivered   uint64
	wake        chan struct{}
	done        chan struct{}
	deliverOnce sync.Once

	wg sync.WaitGroup
}

// New creates a session with default filters on page 1.
func New(runner Runner) *Session {
	return &Session{
		runner:    runner,
		registry:  filter.DefaultRegistry(filter.DefaultDebounce),
		clock:     realClock{},
		logger:    zap.NewNop(),
		draft:     filter.Default(),
		committed: filter.Default(),
		page:      1,
		result:    page.Empty(),
		subs:      make(map[int]func(Snapshot)),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

// WithRegistry overrides the per-field commit policies.
func (s *Session) WithRegistry(r filter.Registry) *Session {
	if r != nil {
		s.registry = r
	}
	return s
}

// WithClock replaces the timer source.
func (s *Session) WithClock(c Clock) *Session {
	if c != nil {
		s.clock = c
	}
	return s
}

// WithLogger sets the session logger.
func (s *Session) WithLogger(l *zap.Logger) *Session {
	if l != nil {
		s.logger = l
	}
	return s
}

// WithInitialFilters seeds both draft and committed filters.
func (s *Session) WithInitialFilters(f filter.Filters) *Session {
	s.draft = f
	s.committed = f.Trimmed()
	return s
}

// Subscribe registers fn for state changes. Snapshots are delivered in
// version order on a dedicated goroutine; an older snapshot is never delivered
// after a newer one, and intermediate versions may be skipped. fn may call
// any Session method, Close included.
func (s *Session) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.mu.Unlock()

	s.deliverOnce.Do(func() { go s.deliverLoop() })

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Start issues the initial query with the committed filters.
// Queries run until Close or until ctx is done.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSessionClosed
	}
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if err := s.committed.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.started = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.dispatchLocked(triggerStart)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// UpdateFilters applies an edit to the draft. Fields with an immediate policy
// are committed on the spot; a debounced batch restarts the quiet-period timer.
// An edit that leaves the committed filters unchanged issues no query.
func (s *Session) UpdateFilters(p filter.Patch) error {
	fields := p.Fields()
	if len(fields) == 0 {
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSessionClosed
	}
	draft := s.draft.Apply(p)
	if err := draft.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.draft = draft
	s.version++

	policy := s.registry.PolicyFor(fields)
	if policy.IsImmediate() {
		s.commitLocked(s.committed.CopyFields(draft, fields), triggerFilter)
	} else {
		s.scheduleLocked(policy)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// SetPage moves to a 1-based page within the current result.
func (s *Session) SetPage(n int) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSessionClosed
	}
	if s.loading {
		s.mu.Unlock()
		return fmt.Errorf("%w: query in flight", domain.ErrInvalidPage)
	}
	last := page.TotalPages(s.result.TotalResults, s.runner.PageSize())
	if n < 1 || n > max(last, 1) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d of %d", domain.ErrInvalidPage, n, last)
	}
	if n == s.page {
		s.mu.Unlock()
		return nil
	}
	s.page = n
	s.version++
	s.dispatchLocked(triggerPage)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// NextPage advances one page.
func (s *Session) NextPage() error {
	return s.SetPage(s.Snapshot().Page + 1)
}

// PrevPage goes back one page.
func (s *Session) PrevPage() error {
	return s.SetPage(s.Snapshot().Page - 1)
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close stops the pending commit and discards in-flight results and
// undelivered snapshots. It waits for running queries to return.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopTimerLocked()
	s.gen++
	if s.cancel != nil {
		s.cancel()
	}
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()
}

// commitLocked replaces the committed filters and queries page 1 if they changed.
func (s *Session) commitLocked(next filter.Filters, trigger string) {
	next = next.Trimmed()
	if next == s.committed {
		return
	}
	s.committed = next
	s.page = 1
	s.version++
	if s.started {
		s.dispatchLocked(trigger)
	}
}

func (s *Session) scheduleLocked(p filter.Policy) {
	s.stopTimerLocked()
	s.timerSeq++
	seq := s.timerSeq
	s.timer = s.clock.AfterFunc(p.Delay(), func() { s.fire(seq) })
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// fire commits the whole draft after the quiet period. A timer that was
// superseded but could not be stopped in time is ignored.
func (s *Session) fire(seq uint64) {
	s.mu.Lock()
	if s.closed || seq != s.timerSeq || s.timer == nil {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.version++
	s.commitLocked(s.draft, triggerDebounce)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// dispatchLocked issues a query for the committed filters and current page
// under a new generation. The previous in-flight query is canceled; its
// result would be discarded anyway.
func (s *Session) dispatchLocked(trigger string) {
	if s.ctx == nil {
		return
	}
	s.gen++
	gen := s.gen
	f := s.committed
	pageNum := s.page

	if s.inflight != nil {
		s.inflight()
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.inflight = cancel
	s.loading = true
	s.err = nil
	s.version++

	metrics.SearchQueriesTotal.WithLabelValues(string(f.Scope), trigger).Inc()
	s.logger.Debug("Search dispatched",
		zap.Uint64("generation", gen),
		zap.String("trigger", trigger),
		zap.String("scope", string(f.Scope)),
		zap.Int("page", pageNum),
	)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		resp, err := s.runner.Run(ctx, f, pageNum)
		s.apply(gen, resp.Result, err)
	}()
}

// apply stores a query result if it belongs to the current generation.
func (s *Session) apply(gen uint64, res page.Result, err error) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		metrics.SearchStaleDiscardsTotal.Inc()
		s.logger.Debug("Stale search result discarded", zap.Uint64("generation", gen))
		return
	}
	s.loading = false
	s.inflight = nil
	s.version++
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.Warn("Search failed", zap.Error(err))
		}
		s.err = err
		s.result = page.Empty()
	} else {
		s.result = res
		metrics.SearchResultsReturned.Observe(float64(len(res.Cases)))
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Version:   s.version,
		Draft:     s.draft,
		Committed: s.committed,
		Page:      s.page,
		Typing:    s.draft.Trimmed().Term != s.committed.Term,
		Loading:   s.loading,
		Result:    s.result,
		Nav:       page.Navigation(s.page, s.result.TotalResults, s.runner.PageSize(), s.loading),
		Err:       s.err,
	}
}

// notify hands snap to the delivery goroutine, replacing any older
// undelivered snapshot. It never blocks on subscribers.
func (s *Session) notify(snap Snapshot) {
	s.mu.Lock()
	n := len(s.subs)
	s.mu.Unlock()
	if n == 0 {
		return
	}

	s.notifyMu.Lock()
	if snap.Version <= s.delivered || (s.hasPending && snap.Version < s.pending.Version) {
		s.notifyMu.Unlock()
		return
	}
	s.pending = snap
	s.hasPending = true
	s.notifyMu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Session) deliverLoop() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		s.notifyMu.Lock()
		if !s.hasPending {
			s.notifyMu.Unlock()
			continue
		}
		snap := s.pending
		s.hasPending = false
		s.delivered = snap.Version
		s.notifyMu.Unlock()

		s.mu.Lock()
		closed := s.closed
		subs := make([]func(Snapshot), 0, len(s.subs))
		for _, fn := range s.subs {
			subs = append(subs, fn)
		}
		s.mu.Unlock()
		if closed {
			return
		}

		for _, fn := range subs {
			fn(snap)
		}
	}
}

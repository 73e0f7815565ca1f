// Package detail loads the full record of one case for the detail view.
package detail

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/caselookup/internal/domain"
	"github.com/kailas-cloud/caselookup/internal/domain/caserecord"
	"github.com/kailas-cloud/caselookup/internal/domain/rawdoc"
)

const defaultFetchTimeout = 30 * time.Second

// Loader fetches, merges and normalizes case details. It holds the last
// loaded record; loading the same id again returns it without network calls.
type Loader struct {
	local   LocalStore
	fetcher Fetcher
	norm    Normalizer
	logger  *zap.Logger
	timeout time.Duration

	group singleflight.Group

	mu       sync.Mutex
	loadedID string
	loaded   *caserecord.CaseRecord
}

// New creates a detail loader. local may be nil.
func New(local LocalStore, fetcher Fetcher, norm Normalizer, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{local: local, fetcher: fetcher, norm: norm, logger: logger, timeout: defaultFetchTimeout}
}

// Load returns the detail record for id or domain.ErrCaseNotFound.
// Concurrent loads of one id share a single fetch that outlives any one
// caller; a caller whose ctx is done gets ctx.Err().
func (l *Loader) Load(ctx context.Context, id string) (caserecord.CaseRecord, error) {
	if id == "" {
		return caserecord.CaseRecord{}, domain.ErrCaseNotFound
	}
	if l.local != nil && l.local.Owns(id) {
		rec, ok := l.local.Get(id)
		if !ok {
			return caserecord.CaseRecord{}, fmt.Errorf("%w: %s", domain.ErrCaseNotFound, id)
		}
		l.hold(id, rec)
		return rec, nil
	}

	if rec, ok := l.held(id); ok {
		return rec, nil
	}

	ch := l.group.DoChan(id, func() (any, error) {
		if rec, ok := l.held(id); ok {
			return rec, nil
		}
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()
		rec, err := l.fetch(fctx, id)
		if err != nil {
			return nil, err
		}
		l.hold(id, rec)
		return rec, nil
	})

	select {
	case <-ctx.Done():
		return caserecord.CaseRecord{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return caserecord.CaseRecord{}, res.Err
		}
		rec, _ := res.Val.(caserecord.CaseRecord)
		return rec, nil
	}
}

// Loaded returns the held record, if any.
func (l *Loader) Loaded() (caserecord.CaseRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loaded == nil {
		return caserecord.CaseRecord{}, false
	}
	return *l.loaded, true
}

// Reset drops the held record, e.g. when the dialog closes.
func (l *Loader) Reset() {
	l.mu.Lock()
	l.loadedID = ""
	l.loaded = nil
	l.mu.Unlock()
}

// fetch requests both halves in parallel. Each half may fail on its own;
// only a double failure is fatal. Full content wins on key collisions.
func (l *Loader) fetch(ctx context.Context, id string) (caserecord.CaseRecord, error) {
	var meta, full rawdoc.Document

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		meta = l.half(gctx, id, "document", l.fetcher.Document)
		return nil
	})
	g.Go(func() error {
		full = l.half(gctx, id, "document_html", l.fetcher.DocumentHTML)
		return nil
	})
	_ = g.Wait()

	if meta == nil && full == nil {
		return caserecord.CaseRecord{}, fmt.Errorf("%w: %s", domain.ErrCaseNotFound, id)
	}
	merged := rawdoc.Merge(meta, full)
	if len(merged) == 0 {
		return caserecord.CaseRecord{}, fmt.Errorf("%w: %s: empty document", domain.ErrCaseNotFound, id)
	}
	return l.norm.Normalize(merged, id), nil
}

func (l *Loader) half(
	ctx context.Context, id, name string, get func(context.Context, string) ([]byte, error),
) rawdoc.Document {
	body, err := get(ctx, id)
	if err != nil {
		l.logger.Warn("Case detail fetch failed",
			zap.String("id", id), zap.String("part", name), zap.Error(err))
		return nil
	}
	doc, err := rawdoc.Decode(body)
	if err != nil {
		l.logger.Warn("Case detail payload malformed",
			zap.String("id", id), zap.String("part", name), zap.Error(err))
		return nil
	}
	return doc
}

func (l *Loader) held(id string) (caserecord.CaseRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loaded == nil || l.loadedID != id {
		return caserecord.CaseRecord{}, false
	}
	return *l.loaded, true
}

func (l *Loader) hold(id string, rec caserecord.CaseRecord) {
	l.mu.Lock()
	l.loadedID = id
	l.loaded = &rec
	l.mu.Unlock()
}

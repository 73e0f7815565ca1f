package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the case-law API is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentUpstream = "upstream"
	ComponentCache    = "cache"
	ComponentSummary  = "summary"
)

const defaultCheckTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	upstream Pinger
	cache    Pinger
	summary  SummaryChecker
	timeout  time.Duration
}

// New creates a Service. cache and summary can be nil.
func New(upstream Pinger, cache Pinger, summary SummaryChecker) *Service {
	return &Service{upstream: upstream, cache: cache, summary: summary, timeout: defaultCheckTimeout}
}

// Check runs all health checks concurrently, each bounded by its own timeout.
func (s *Service) Check(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		checks = make(map[string]CheckResult)
	)
	run := func(g *errgroup.Group, name string, check func(context.Context) error) {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			result := CheckOK
			if err := check(cctx); err != nil {
				result = CheckError
			}
			mu.Lock()
			checks[name] = result
			mu.Unlock()
			return nil
		})
	}

	var g errgroup.Group
	run(&g, ComponentUpstream, s.upstream.Ping)
	if s.cache != nil {
		run(&g, ComponentCache, s.cache.Ping)
	}
	if s.summary != nil {
		run(&g, ComponentSummary, s.summary.HealthCheck)
	}
	_ = g.Wait()

	status := Healthy
	for name, v := range checks {
		if v != CheckError {
			continue
		}
		if name == ComponentUpstream {
			status = Unhealthy
			break
		}
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

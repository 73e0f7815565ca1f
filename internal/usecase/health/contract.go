package health

import "context"

// Pinger checks availability of a dependency (cache store, case-law API).
type Pinger interface {
	Ping(ctx context.Context) error
}

// SummaryChecker checks the optional summary model provider.
type SummaryChecker interface {
	HealthCheck(ctx context.Context) error
}

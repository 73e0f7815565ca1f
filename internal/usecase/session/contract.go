package session

import (
	"context"
	"time"

	"github.com/kailas-cloud/caselookup/internal/domain/search/filter"
	"github.com/kailas-cloud/caselookup/internal/usecase/search"
)

// Runner executes one committed query.
type Runner interface {
	Run(ctx context.Context, f filter.Filters, pageNum int) (search.Response, error)
	PageSize() int
}

// Clock schedules debounce timers.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending debounce commit.
type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

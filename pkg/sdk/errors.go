package caselookup

import "github.com/kailas-cloud/caselookup/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrCaseNotFound      = domain.ErrCaseNotFound
	ErrUpstream          = domain.ErrUpstream
	ErrUpstreamStatus    = domain.ErrUpstreamStatus
	ErrMalformedResponse = domain.ErrMalformedResponse
	ErrInvalidFilter     = domain.ErrInvalidFilter
	ErrInvalidPage       = domain.ErrInvalidPage
	ErrSessionClosed     = domain.ErrSessionClosed
)

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCaseNotFound signals that no usable document exists for an id.
	ErrCaseNotFound = errors.New("case not found")
	// ErrUpstream signals a transport-level failure talking to the case-law API.
	ErrUpstream = errors.New("upstream request failed")
	// ErrUpstreamStatus signals a non-2xx response from the case-law API.
	ErrUpstreamStatus = errors.New("upstream returned non-success status")
	// ErrMalformedResponse signals an upstream payload of unexpected shape.
	ErrMalformedResponse = errors.New("malformed upstream response")
	// ErrInvalidFilter signals a filter value that cannot be applied.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrInvalidPage signals a page number outside the navigable range.
	ErrInvalidPage = errors.New("invalid page")
	// ErrSessionClosed signals use of a session after Close.
	ErrSessionClosed = errors.New("session closed")
)

// UpstreamError wraps ErrUpstreamStatus with the endpoint and status code.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s returned %d", ErrUpstreamStatus.Error(), e.Endpoint, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstreamStatus }

// NewUpstreamError creates an upstream status error.
func NewUpstreamError(endpoint string, statusCode int) error {
	return &UpstreamError{Endpoint: endpoint, StatusCode: statusCode}
}

// IsNotFoundStatus reports whether err carries an upstream 404.
func IsNotFoundStatus(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.StatusCode == 404
}

package chi

import (
	"fmt"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/caselookup/internal/domain/caserecord"
)

// ErrorCode classifies an error response.
type ErrorCode string

// Error codes returned in ErrorResponse.Code.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeCaseNotFound     ErrorCode = "case_not_found"
	ErrorCodeUpstreamError    ErrorCode = "upstream_error"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// Route patterns served by HandlerWithOptions.
const (
	PathSearch      = "/search"
	PathCase        = "/cases/{id}"
	PathCaseSummary = "/cases/{id}/summary"
	PathHealth      = "/health"
	PathMetrics     = "/metrics"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchParams are the query parameters of GET /search.
type SearchParams struct {
	Scope        *string `form:"scope,omitempty" json:"scope,omitempty"`
	Term         *string `form:"term,omitempty" json:"term,omitempty"`
	Year         *string `form:"year,omitempty" json:"year,omitempty"`
	Court        *string `form:"court,omitempty" json:"court,omitempty"`
	MinRelevance *string `form:"min_relevance,omitempty" json:"min_relevance,omitempty"`
	Page         *int    `form:"page,omitempty" json:"page,omitempty"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Cases        []caserecord.CaseRecord `json:"cases"`
	TotalResults int                     `json:"total_results"`
	TotalPages   int                     `json:"total_pages"`
	Page         int                     `json:"page"`
	PageSize     int                     `json:"page_size"`
}

// SummaryResponse is the body of GET /cases/{id}/summary.
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ServerInterface is the set of HTTP operations served by the API.
type ServerInterface interface {
	// (GET /search)
	SearchCases(w http.ResponseWriter, r *http.Request, params SearchParams)
	// (GET /cases/{id})
	GetCase(w http.ResponseWriter, r *http.Request, id string)
	// (GET /cases/{id}/summary)
	GetCaseSummary(w http.ResponseWriter, r *http.Request, id string)
	// (GET /health)
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// (GET /metrics)
	Metrics(w http.ResponseWriter, r *http.Request)
}

// ServerOptions configures HandlerWithOptions.
type ServerOptions struct {
	BaseRouter       chirouter.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError reports a parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// HandlerWithOptions mounts the API routes on opts.BaseRouter.
func HandlerWithOptions(si ServerInterface, opts ServerOptions) http.Handler {
	r := opts.BaseRouter
	if r == nil {
		r = chirouter.NewRouter()
	}
	if opts.ErrorHandlerFunc == nil {
		opts.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := &paramBinder{handler: si, onError: opts.ErrorHandlerFunc}

	r.Get(PathSearch, wrapper.SearchCases)
	r.Get(PathCase, wrapper.GetCase)
	r.Get(PathCaseSummary, wrapper.GetCaseSummary)
	r.Get(PathHealth, si.HealthCheck)
	r.Get(PathMetrics, si.Metrics)
	return r
}

// paramBinder decodes path and query parameters before calling the server.
type paramBinder struct {
	handler ServerInterface
	onError func(w http.ResponseWriter, r *http.Request, err error)
}

func (b *paramBinder) SearchCases(w http.ResponseWriter, r *http.Request) {
	var params SearchParams
	q := r.URL.Query()

	bindings := []struct {
		name string
		dest any
	}{
		{"scope", &params.Scope},
		{"term", &params.Term},
		{"year", &params.Year},
		{"court", &params.Court},
		{"min_relevance", &params.MinRelevance},
		{"page", &params.Page},
	}
	for _, p := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, p.name, q, p.dest); err != nil {
			b.onError(w, r, &InvalidParamFormatError{ParamName: p.name, Err: err})
			return
		}
	}

	b.handler.SearchCases(w, r, params)
}

func (b *paramBinder) GetCase(w http.ResponseWriter, r *http.Request) {
	id, ok := b.bindID(w, r)
	if !ok {
		return
	}
	b.handler.GetCase(w, r, id)
}

func (b *paramBinder) GetCaseSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := b.bindID(w, r)
	if !ok {
		return
	}
	b.handler.GetCaseSummary(w, r, id)
}

func (b *paramBinder) bindID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chirouter.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		b.onError(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return "", false
	}
	return id, true
}

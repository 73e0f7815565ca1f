package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/caselookup/internal/domain"
	"github.com/kailas-cloud/caselookup/internal/domain/search/filter"
	"github.com/kailas-cloud/caselookup/internal/domain/search/scope"
	healthuc "github.com/kailas-cloud/caselookup/internal/usecase/health"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements ServerInterface.
type Server struct {
	search        Searcher
	details       CaseLoader
	summaries     Summarizer
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	search Searcher,
	details CaseLoader,
	summaries Summarizer,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search:    search,
		details:   details,
		summaries: summaries,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidFilter, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidPage, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrCaseNotFound, http.StatusNotFound, ErrorCodeCaseNotFound),
		sentinelHandler(domain.ErrUpstream, http.StatusBadGateway, ErrorCodeUpstreamError),
		sentinelHandler(domain.ErrUpstreamStatus, http.StatusBadGateway, ErrorCodeUpstreamError),
	}
	return s
}

// SearchCases handles GET /search.
func (s *Server) SearchCases(w http.ResponseWriter, r *http.Request, params SearchParams) {
	f := filtersFromParams(params)
	pageNum := 1
	if params.Page != nil {
		pageNum = *params.Page
	}

	resp, err := s.search.Run(r.Context(), f, pageNum)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Cases:        resp.Cases,
		TotalResults: resp.TotalResults,
		TotalPages:   resp.Nav.TotalPages,
		Page:         resp.Nav.Page,
		PageSize:     resp.PageSize,
	})
}

// GetCase handles GET /cases/{id}.
func (s *Server) GetCase(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := s.details.Load(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// GetCaseSummary handles GET /cases/{id}/summary.
func (s *Server) GetCaseSummary(w http.ResponseWriter, r *http.Request, id string) {
	writeJSON(w, http.StatusOK, SummaryResponse{Summary: s.summaries.Get(r.Context(), id)})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	// Degraded still serves searches; only an unreachable upstream is fatal.
	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// InvalidParamHandler answers parameter binding failures.
func InvalidParamHandler(w http.ResponseWriter, _ *http.Request, err error) {
	msg := "invalid request"
	var pe *InvalidParamFormatError
	if errors.As(err, &pe) {
		msg = "invalid parameter " + pe.ParamName
	}
	writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, msg)
}

func filtersFromParams(p SearchParams) filter.Filters {
	f := filter.Default()
	if p.Scope != nil && *p.Scope != "" {
		f.Scope = scope.Scope(*p.Scope)
	}
	f.Term = deref(p.Term)
	f.Year = deref(p.Year)
	f.Court = deref(p.Court)
	f.MinRelevance = deref(p.MinRelevance)
	return f
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidFilter,
		domain.ErrInvalidPage,
		domain.ErrCaseNotFound,
		domain.ErrUpstream,
		domain.ErrUpstreamStatus,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("domain error", zap.Error(err), zap.String("path", r.URL.Path))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

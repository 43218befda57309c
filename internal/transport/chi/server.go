// Package chi exposes the HTTP API: take registration, analysis
// control, intent search, and index management.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cineai/smartcut/internal/domain"
	"github.com/cineai/smartcut/internal/domain/search/result"
	domtake "github.com/cineai/smartcut/internal/domain/take"
	healthuc "github.com/cineai/smartcut/internal/usecase/health"
	pipelineuc "github.com/cineai/smartcut/internal/usecase/pipeline"
	searchuc "github.com/cineai/smartcut/internal/usecase/search"
	takeuc "github.com/cineai/smartcut/internal/usecase/take"
)

// errorCode is a machine-readable error discriminator.
type errorCode string

const (
	codeBadRequest       errorCode = "bad_request"
	codeValidationFailed errorCode = "validation_failed"
	codeTakeNotFound     errorCode = "take_not_found"
	codeRunNotFound      errorCode = "run_not_found"
	codeTakeExists       errorCode = "take_already_exists"
	codeModelTagMismatch errorCode = "model_tag_mismatch"
	codeProviderError    errorCode = "embedding_provider_error"
	codePipelineBusy     errorCode = "pipeline_busy"
	codeInternalError    errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server hosts the HTTP handlers.
type Server struct {
	takes         *takeuc.Service
	pipeline      *pipelineuc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	takes *takeuc.Service,
	pipeline *pipelineuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		takes:    takes,
		pipeline: pipeline,
		search:   search,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrTakeNotFound, http.StatusNotFound, codeTakeNotFound),
		sentinelHandler(domain.ErrRunNotFound, http.StatusNotFound, codeRunNotFound),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrTakeExists, http.StatusConflict, codeTakeExists),
		sentinelHandler(domain.ErrModelTagMismatch, http.StatusConflict, codeModelTagMismatch),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeProviderError),
		sentinelHandler(domain.ErrPipelineBusy, http.StatusTooManyRequests, codePipelineBusy),
	}
	return s
}

// Mount registers all routes on the router.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/takes", s.CreateTake)
		r.Get("/takes/{id}", s.GetTake)
		r.Delete("/takes/{id}", s.DeleteTake)
		r.Post("/takes/{id}/analyze", s.AnalyzeTake)
		r.Get("/takes/{id}/status", s.TakeStatus)
		r.Get("/runs/{id}", s.GetRun)
		r.Post("/search", s.Search)
		r.Get("/search/suggestions", s.Suggestions)
		r.Post("/index/rebuild", s.RebuildIndex)
		r.Get("/index/stats", s.IndexStats)
	})
}

type createTakeRequest struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
	FilePath string `json:"file_path"`
	Script   string `json:"script"`
}

// CreateTake handles POST /v1/takes.
func (s *Server) CreateTake(w http.ResponseWriter, r *http.Request) {
	var req createTakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	t, err := s.takes.Register(r.Context(), req.ID, req.FileName, req.FilePath, req.Script)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// GetTake handles GET /v1/takes/{id}.
func (s *Server) GetTake(w http.ResponseWriter, r *http.Request) {
	t, err := s.takes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// DeleteTake handles DELETE /v1/takes/{id}.
func (s *Server) DeleteTake(w http.ResponseWriter, r *http.Request) {
	if err := s.takes.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type analyzeResponse struct {
	RunID string `json:"run_id"`
}

// AnalyzeTake handles POST /v1/takes/{id}/analyze. Analysis runs in
// the background; the response only acknowledges the queued run.
func (s *Server) AnalyzeTake(w http.ResponseWriter, r *http.Request) {
	runID, err := s.pipeline.Enqueue(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, analyzeResponse{RunID: runID})
}

type statusResponse struct {
	ID          string                               `json:"id"`
	Progress    int                                  `json:"progress"`
	Analyzed    bool                                 `json:"analyzed"`
	Indexed     bool                                 `json:"indexed"`
	Degraded    bool                                 `json:"degraded"`
	StageStates map[domtake.Stage]domtake.StageState `json:"stage_states"`
}

// TakeStatus handles GET /v1/takes/{id}/status.
func (s *Server) TakeStatus(w http.ResponseWriter, r *http.Request) {
	t, err := s.takes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		ID:          t.ID,
		Progress:    t.Progress(),
		Analyzed:    t.Analyzed(),
		Indexed:     t.Indexed(),
		Degraded:    t.Degraded,
		StageStates: t.StageStates,
	})
}

// GetRun handles GET /v1/runs/{id}. The run record carries its own
// JSON tags, so it is returned directly.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	rec, err := s.pipeline.Run(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type searchRequest struct {
	Query   string            `json:"query"`
	TopK    int               `json:"top_k"`
	Filters map[string]string `json:"filters"`
}

type searchResponse struct {
	Items []result.Result `json:"items"`
	Total int             `json:"total"`
}

// Search handles POST /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	results, err := s.search.Resolve(r.Context(), req.Query, req.TopK, req.Filters)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Items: results, Total: len(results)})
}

type suggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// Suggestions handles GET /v1/search/suggestions.
func (s *Server) Suggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, suggestionsResponse{Suggestions: s.search.Suggestions(q)})
}

type rebuildResponse struct {
	Entries int `json:"entries"`
}

// RebuildIndex handles POST /v1/index/rebuild.
func (s *Server) RebuildIndex(w http.ResponseWriter, r *http.Request) {
	n, err := s.pipeline.Rebuild(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rebuildResponse{Entries: n})
}

// IndexStats handles GET /v1/index/stats.
func (s *Server) IndexStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.search.IndexStats())
}

type healthResponse struct {
	Status healthuc.Status                 `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthResponse{Status: report.Status, Checks: report.Checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrTakeNotFound,
		domain.ErrTakeExists,
		domain.ErrInvalidRequest,
		domain.ErrModelTagMismatch,
		domain.ErrEmbeddingProviderError,
		domain.ErrPipelineBusy,
		domain.ErrIndexEmpty,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

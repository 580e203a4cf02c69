package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shoplens/shoplens/internal/domain"
	"github.com/shoplens/shoplens/internal/domain/product"
	"github.com/shoplens/shoplens/internal/domain/search/outcome"
	"github.com/shoplens/shoplens/internal/metrics"
	"github.com/shoplens/shoplens/internal/usecase/health"
	"github.com/shoplens/shoplens/internal/usecase/ingest"
)

// SearchEngine runs one query execution end to end.
type SearchEngine interface {
	Search(ctx context.Context, rawQuery string, topK int) (outcome.Outcome, error)
}

// Ingestor writes and removes products.
type Ingestor interface {
	IndexProduct(ctx context.Context, p product.Product) error
	RemoveProduct(ctx context.Context, productID string) error
}

// ProductReader fetches single products from the catalog.
type ProductReader interface {
	Get(ctx context.Context, id string) (product.Product, error)
}

// HealthService runs component health checks.
type HealthService interface {
	Check(ctx context.Context) health.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API surface: search, product lifecycle, health, metrics.
type Server struct {
	engine        SearchEngine
	ingestor      Ingestor
	catalog       ProductReader
	health        HealthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	eng SearchEngine,
	ing Ingestor,
	catalog ProductReader,
	healthSvc HealthService,
	logger *zap.Logger,
) *Server {
	s := &Server{
		engine:   eng,
		ingestor: ing,
		catalog:  catalog,
		health:   healthSvc,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrProductNotFound, http.StatusNotFound, codeProductNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeProductNotFound),
		sentinelHandler(domain.ErrInvalidProduct, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusBadGateway, codeIndexUnavailable),
	}
	return s
}

// Routes builds the API router. Middlewares are added by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/v1/search", s.handleSearch)
	r.Put("/v1/products/{id}", s.handleUpsertProduct)
	r.Get("/v1/products/{id}", s.handleGetProduct)
	r.Delete("/v1/products/{id}", s.handleDeleteProduct)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	return r
}

// handleSearch handles POST /v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query is required")
		return
	}
	if req.TopK < 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "top_k must not be negative")
		return
	}

	out, err := s.engine.Search(r.Context(), req.Query, req.TopK)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("none", "error").Inc()
		s.handleDomainError(w, err)
		return
	}

	metrics.SearchRequestsTotal.WithLabelValues(string(out.Strategy()), "success").Inc()
	metrics.SearchRelaxationSteps.Observe(float64(out.RelaxationSteps()))
	metrics.SearchBestConfidence.Observe(out.BestConfidence())
	if out.LowConfidence() {
		metrics.SearchLowConfidenceTotal.Inc()
	}

	writeJSON(w, http.StatusOK, outcomeToResponse(out))
}

// handleUpsertProduct handles PUT /v1/products/{id}.
func (s *Server) handleUpsertProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req upsertProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	p, err := product.New(
		id, req.Title, req.Description, req.Brand,
		ingest.NormalizeCategory(req.Category), req.Price, req.Available,
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if err := s.ingestor.IndexProduct(r.Context(), p); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, productToResponse(p))
}

// handleGetProduct handles GET /v1/products/{id}.
func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, productToResponse(p))
}

// handleDeleteProduct handles DELETE /v1/products/{id}.
func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.ingestor.RemoveProduct(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != health.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrProductNotFound,
		domain.ErrNotFound,
		domain.ErrInvalidProduct,
		domain.ErrVectorDimMismatch,
		domain.ErrEmbeddingProviderError,
		domain.ErrIndexUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
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

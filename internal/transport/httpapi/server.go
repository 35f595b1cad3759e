// Package httpapi serves the search and admin HTTP surface.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/taxonomy"
	healthuc "github.com/kailas-cloud/shopsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/shopsearch/internal/usecase/search"
)

// maxOptionValueLen bounds the raw option body on PUT /admin/options.
const maxOptionValueLen = 4096

// Searcher is the search surface the server exposes.
type Searcher interface {
	Search(ctx context.Context, raw string) (*searchuc.Response, error)
	ReloadConfig(ctx context.Context) error
}

// Ingestor is the catalog write surface behind the admin endpoints.
type Ingestor interface {
	UpsertProduct(ctx context.Context, p *product.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	UpsertTerm(ctx context.Context, t *taxonomy.Term) error
	SetAttributeTaxonomies(ctx context.Context, taxos []string) error
}

// OptionWriter persists one search option override. Nil when the deployment
// has no persisted overlay (memory driver).
type OptionWriter interface {
	SetOption(ctx context.Context, name, value string) error
}

// Server wires the use cases into chi handlers.
type Server struct {
	search  Searcher
	ingest  Ingestor
	options OptionWriter
	health  *healthuc.Service
	logger  *zap.Logger
}

// NewServer creates an HTTP API server. options can be nil.
func NewServer(
	search Searcher,
	ingest Ingestor,
	options OptionWriter,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		search:  search,
		ingest:  ingest,
		options: options,
		health:  health,
		logger:  logger,
	}
}

// Routes mounts all handlers on the router. Auth, logging and metrics
// middleware are applied by the caller.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HandleHealth)
	r.Get("/metrics", s.HandleMetrics)

	r.Get("/search", s.HandleSearch)
	r.Post("/search", s.HandleSearch)

	r.Route("/admin", func(r chi.Router) {
		r.Post("/reload", s.HandleReload)
		r.Put("/products/{id}", s.HandleUpsertProduct)
		r.Delete("/products/{id}", s.HandleDeleteProduct)
		r.Put("/terms/{taxonomy}/{id}", s.HandleUpsertTerm)
		r.Put("/attributes", s.HandleSetAttributes)
		r.Put("/options/{name}", s.HandleSetOption)
	})
}

// HandleSearch handles GET/POST /search. The query rides in the legacy "s"
// form field; "query" is accepted as an alias.
func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	raw := r.FormValue("s")
	if raw == "" {
		raw = r.FormValue("query")
	}

	resp, err := s.search.Search(r.Context(), raw)
	if err != nil {
		s.handleSearchError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, searchData(resp))
}

// HandleReload handles POST /admin/reload.
func (s *Server) HandleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.search.ReloadConfig(r.Context()); err != nil {
		s.logger.Error("config reload failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "reload_failed", "config reload failed")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

// HandleUpsertProduct handles PUT /admin/products/{id}.
func (s *Server) HandleUpsertProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var p product.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}
	p.ID = id

	if err := s.ingest.UpsertProduct(r.Context(), &p); err != nil {
		s.handleAdminError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]int64{"id": id})
}

// HandleDeleteProduct handles DELETE /admin/products/{id}.
func (s *Server) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.ingest.DeleteProduct(r.Context(), id); err != nil {
		s.handleAdminError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUpsertTerm handles PUT /admin/terms/{taxonomy}/{id}.
func (s *Server) HandleUpsertTerm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var t taxonomy.Term
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}
	t.Taxonomy = chi.URLParam(r, "taxonomy")
	t.ID = id

	if err := s.ingest.UpsertTerm(r.Context(), &t); err != nil {
		s.handleAdminError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]int64{"id": id})
}

// HandleSetAttributes handles PUT /admin/attributes: replaces the registered
// attribute taxonomy list.
func (s *Server) HandleSetAttributes(w http.ResponseWriter, r *http.Request) {
	var taxos []string
	if err := json.NewDecoder(r.Body).Decode(&taxos); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	if err := s.ingest.SetAttributeTaxonomies(r.Context(), taxos); err != nil {
		s.handleAdminError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]int{"count": len(taxos)})
}

// HandleSetOption handles PUT /admin/options/{name}: persists one raw option
// value. Takes effect on the next /admin/reload.
func (s *Server) HandleSetOption(w http.ResponseWriter, r *http.Request) {
	if s.options == nil {
		writeError(w, http.StatusNotImplemented, "not_supported", "persisted options not available")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxOptionValueLen))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "read body: "+err.Error())
		return
	}

	name := chi.URLParam(r, "name")
	if err := s.options.SetOption(r.Context(), name, strings.TrimSpace(string(body))); err != nil {
		s.handleAdminError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"option": name})
}

// HandleHealth handles GET /health.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// HandleMetrics handles GET /metrics.
func (s *Server) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// handleSearchError maps pipeline sentinels to the legacy failure shape.
func (s *Server) handleSearchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSearchDisabled):
		writeError(w, http.StatusForbidden, "search_disabled", "search is disabled")
	case errors.Is(err, domain.ErrQueryTooShort):
		writeError(w, http.StatusBadRequest, "query_too_short", "query too short")
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		s.logger.Error("catalog unavailable", zap.Error(err))
		writeError(w, http.StatusBadGateway, "catalog_unavailable", "catalog unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn("search deadline exceeded", zap.Error(err))
		writeError(w, http.StatusGatewayTimeout, "timeout", "search timed out")
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to write.
		writeError(w, http.StatusServiceUnavailable, "cancelled", "request cancelled")
	default:
		s.logger.Error("search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

// handleAdminError maps ingestion sentinels.
func (s *Server) handleAdminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "product_not_found", "product not found")
	case errors.Is(err, domain.ErrInvalidProduct):
		writeError(w, http.StatusBadRequest, "invalid_product", "invalid product")
	case errors.Is(err, domain.ErrInvalidTerm):
		writeError(w, http.StatusBadRequest, "invalid_term", "invalid term")
	default:
		s.logger.Error("admin operation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid id")
		return 0, false
	}
	return id, true
}

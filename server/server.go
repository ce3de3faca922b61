package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phelgetar/docgrep"
	"github.com/phelgetar/docgrep/core"
	"github.com/phelgetar/docgrep/export"
	"github.com/phelgetar/docgrep/query"
	"github.com/phelgetar/docgrep/search"
)

// maxSnippetsPerResult bounds the snippet payload per document in API
// responses.
const maxSnippetsPerResult = 50

// statusClientClosedRequest marks searches abandoned by the caller, so a
// cancelled query never reads as an empty success.
const statusClientClosedRequest = 499

// Server exposes the search engine over HTTP.
type Server struct {
	engine  *docgrep.Engine
	cfg     Config
	logger  *slog.Logger
	router  chi.Router
	metrics *metrics
	reg     *prometheus.Registry
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets the logger for request handling.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		s.logger = logger
		return nil
	}
}

// New builds the HTTP server around an engine.
func New(engine *docgrep.Engine, cfg Config, opts ...Option) (*Server, error) {
	if engine == nil {
		return nil, ErrEngineRequired
	}
	if cfg.MaxPerPage <= 0 {
		cfg.MaxPerPage = DefaultConfig().MaxPerPage
	}

	s := &Server{
		engine: engine,
		cfg:    cfg,
		logger: slog.Default(),
		reg:    prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.metrics = newMetrics(s.reg)
	s.metrics.corpusSize.Set(float64(engine.Stats().Documents))

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}).ServeHTTP)
	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Post("/reload", s.handleReload)
		r.Get("/stats", s.handleStats)
	})
	s.router = r
	return s, nil
}

// Handler returns the routed handler, mostly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().ShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout))
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// searchResponse is the /api/search payload.
type searchResponse struct {
	Query        string          `json:"query"`
	Results      []export.Record `json:"results"`
	Total        int             `json:"total"`
	TotalMatches int             `json:"totalMatches"`
	Page         int             `json:"page"`
	PerPage      int             `json:"perPage"`
	TookMs       int64           `json:"took_ms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		s.writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}

	opts, err := parseSearchOptions(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	perPage := queryInt(r, "per_page", 20)
	if perPage < 1 {
		perPage = 20
	}
	if perPage > s.cfg.MaxPerPage {
		perPage = s.cfg.MaxPerPage
	}

	start := time.Now()
	results, err := s.engine.Search(r.Context(), q, opts)
	elapsed := time.Since(start)

	if err != nil {
		var syntaxErr *query.SyntaxError
		var regexErr *query.RegexError
		switch {
		case errors.As(err, &syntaxErr) || errors.As(err, &regexErr):
			s.metrics.searches.WithLabelValues("bad_query").Inc()
			s.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			s.metrics.searches.WithLabelValues("cancelled").Inc()
			s.writeError(w, statusClientClosedRequest, "search cancelled")
		default:
			s.metrics.searches.WithLabelValues("error").Inc()
			s.logger.Error("search failed", "query", q, "error", err)
			s.writeError(w, http.StatusInternalServerError, "search failed")
		}
		return
	}
	s.metrics.searches.WithLabelValues("ok").Inc()
	s.metrics.searchDuration.Observe(elapsed.Seconds())

	totalMatches := 0
	for _, res := range results {
		totalMatches += res.MatchCount
	}

	paged := paginate(results, page, perPage)
	records := make([]export.Record, 0, len(paged))
	for _, res := range paged {
		records = append(records, toRecord(res))
	}

	s.writeJSON(w, http.StatusOK, searchResponse{
		Query:        q,
		Results:      records,
		Total:        len(results),
		TotalMatches: totalMatches,
		Page:         page,
		PerPage:      perPage,
		TookMs:       elapsed.Milliseconds(),
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Reload(r.Context()); err != nil {
		s.logger.Error("corpus reload failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "reload failed")
		return
	}
	s.metrics.reloads.Inc()
	stats := s.engine.Stats()
	s.metrics.corpusSize.Set(float64(stats.Documents))
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.Stats())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("writing response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func parseSearchOptions(r *http.Request) (search.Options, error) {
	opts := search.Options{
		CaseSensitive: queryBool(r, "case_sensitive"),
		WholeWord:     queryBool(r, "whole_word"),
		Regex:         queryBool(r, "regex"),
		Dataset:       queryInt(r, "dataset", 0),
		MinPages:      queryInt(r, "min_pages", 0),
		MaxPages:      queryInt(r, "max_pages", 0),
	}
	mode, err := core.ParseSortMode(r.URL.Query().Get("sort"))
	if err != nil {
		return opts, err
	}
	opts.Sort = mode
	return opts, nil
}

func queryBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func paginate(results []*core.SearchResult, page, perPage int) []*core.SearchResult {
	start := (page - 1) * perPage
	if start >= len(results) {
		return nil
	}
	end := start + perPage
	if end > len(results) {
		end = len(results)
	}
	return results[start:end]
}

func toRecord(res *core.SearchResult) export.Record {
	rec := export.NewRecord(res)
	if len(rec.Snippets) > maxSnippetsPerResult {
		rec.Snippets = rec.Snippets[:maxSnippetsPerResult]
	}
	return rec
}

// Package http exposes path execution and report access over HTTP.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rsmiech/flowrunner"
	"github.com/rsmiech/flowrunner/internal/logging"
	"github.com/rsmiech/flowrunner/internal/presentation/graph"
	"github.com/rsmiech/flowrunner/internal/presentation/report"
	"github.com/rsmiech/flowrunner/pkg/domain"
	"github.com/rsmiech/flowrunner/pkg/ports"
)

// Server serves a single model and path file. Runs triggered over HTTP use
// the same runner, so routine registration and metrics are shared with the
// process.
type Server struct {
	runner    *flowrunner.Runner
	pathsFile string
	store     ports.ReportStore
	logger    *slog.Logger
	gatherer  prometheus.Gatherer
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithReportStore archives every run triggered over HTTP.
func WithReportStore(store ports.ReportStore) ServerOption {
	return func(s *Server) {
		s.store = store
	}
}

// WithServerLogger sets the request logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsGatherer exposes the given registry on /metrics.
func WithMetricsGatherer(g prometheus.Gatherer) ServerOption {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewServer creates a Server around a runner and its path file.
func NewServer(runner *flowrunner.Runner, pathsFile string, opts ...ServerOption) *Server {
	s := &Server{
		runner:    runner,
		pathsFile: pathsFile,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	return s
}

// Handler builds the HTTP routing table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/model", s.handleModel)
	r.Get("/model/graph", s.handleGraph)
	r.Get("/model/doc", s.handleDoc)
	r.Post("/run", s.handleRun)

	if s.store != nil {
		r.Get("/reports", s.handleListReports)
		r.Get("/reports/{id}", s.handleGetReport)
		r.Delete("/reports/{id}", s.handleDeleteReport)
	}

	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"model":  s.runner.Model().Name,
	})
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.Model())
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(s.runner.Model(), nil))
}

func (s *Server) handleDoc(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	fmt.Fprint(w, report.ModelMarkdown(s.runner.Model()))
}

// runRequest selects what to execute: a named case from the server's path
// file, or an inline path definition.
type runRequest struct {
	Suite string                 `json:"suite,omitempty"`
	Case  string                 `json:"case,omitempty"`
	Path  *domain.PathDefinition `json:"path,omitempty"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	var (
		rep *domain.ResultReport
		err error
	)
	switch {
	case req.Path != nil:
		rep, err = s.runner.Run(r.Context(), req.Path)
	case req.Suite != "" && req.Case != "":
		if s.pathsFile == "" {
			writeError(w, http.StatusBadRequest, errors.New("server has no path file, send an inline path"))
			return
		}
		rep, err = s.runner.RunCase(r.Context(), s.pathsFile, req.Suite, req.Case)
	default:
		writeError(w, http.StatusBadRequest, errors.New("request needs either suite and case, or an inline path"))
		return
	}
	if err != nil {
		status := http.StatusUnprocessableEntity
		var resErr *domain.ResolutionError
		if errors.As(err, &resErr) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}

	if s.store != nil {
		runID := fmt.Sprintf("%s-%s-%s-%s", rep.Model, rep.Suite, rep.Case,
			time.Now().UTC().Format("20060102T150405.000Z"))
		if err := s.store.Save(r.Context(), runID, rep); err != nil {
			s.logger.Error("failed to archive report", "run_id", runID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"reports": ids})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrReportNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

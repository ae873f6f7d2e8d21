// Package server exposes a built hierarchy over a read-only HTTP API.
//
// Routes:
//
//	GET /healthz
//	GET /algorithms
//	GET /algorithms/{name}          confirmed neighbours of one algorithm
//	GET /edges                      confirmed edges; ?reduced=1 after transitive reduction
//	GET /counterexamples
//	GET /verdict/{from}/{to}
//	GET /summary
//	GET /matrix.csv                 ?full=1 lists every counterexample per cell
//	GET /matrix.tex                 ?first=1 keeps only the first counterexample
//	GET /graph.dot                  ?reduced=1 for the clustered reduction; ?only=A,B keeps those algorithms
//	GET /graph.svg                  ?only=A,B
//	GET /instances
//	GET /instances/{group}/{name}
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bntaxonomy/bntaxonomy/pkg/digraph/transform"
	"github.com/bntaxonomy/bntaxonomy/pkg/hierarchy"
	"github.com/bntaxonomy/bntaxonomy/pkg/report"
)

const shutdownTimeout = 5 * time.Second

// Server serves one hierarchy. The hierarchy is immutable, so handlers
// share it without locking.
type Server struct {
	h      *hierarchy.Hierarchy
	labels report.Labeler
	logger *log.Logger
	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLabels names instances in matrices and summaries.
func WithLabels(l report.Labeler) Option {
	return func(s *Server) { s.labels = l }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a server for h.
func New(h *hierarchy.Hierarchy, opts ...Option) *Server {
	s := &Server{h: h, labels: report.NameLabels, logger: log.Default()}
	for _, o := range opts {
		o(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/algorithms", s.algorithms)
	r.Get("/algorithms/{name}", s.algorithm)
	r.Get("/edges", s.edges)
	r.Get("/counterexamples", s.counterexamples)
	r.Get("/verdict/{from}/{to}", s.verdict)
	r.Get("/summary", s.summary)
	r.Get("/matrix.csv", s.matrixCSV)
	r.Get("/matrix.tex", s.matrixTeX)
	r.Get("/graph.dot", s.graphDOT)
	r.Get("/graph.svg", s.graphSVG)
	r.Route("/instances", func(r chi.Router) {
		r.Get("/", s.instances)
		r.Get("/{group}/{name}", s.instance)
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func flag(r *http.Request, name string) bool {
	switch r.URL.Query().Get(name) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// reduced returns the confirmed graph after transitive reduction.
func (s *Server) reduced() [][2]string {
	g := s.h.Confirmed().Clone()
	transform.TransitiveReduction(g)
	edges := make([][2]string, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		edges = append(edges, [2]string{e.From, e.To})
	}
	return edges
}

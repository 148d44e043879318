// Package server exposes sessions over an HTTP JSON API.
//
// Routes:
//
//	POST   /api/v1/sessions                  create a session
//	DELETE /api/v1/sessions/{id}             delete a session
//	POST   /api/v1/sessions/{id}/generate    body: JSON text
//	POST   /api/v1/sessions/{id}/search      body: {"query": "..."}
//	POST   /api/v1/sessions/{id}/clear
//	POST   /api/v1/sessions/{id}/layout      body: layout directives
//	GET    /api/v1/sessions/{id}/graph       ?format=yaml for YAML
//	GET    /api/v1/sessions/{id}/graph.svg
//	GET    /api/v1/sample
//	GET    /api/v1/version
//	GET    /healthz
//	GET    /metrics
//
// Errors are returned as {"error": {"code": "...", "message": "..."}}.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/jsongraph/pkg/render"
	"github.com/matzehuels/jsongraph/pkg/session"
)

const defaultMaxBody = 10 << 20

// Options configures a Server.
type Options struct {
	Store  session.Store
	Logger *log.Logger
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	// MaxBodyBytes caps request bodies. Zero means 10 MiB.
	MaxBodyBytes int64
	// LayoutTimeout bounds each generate and layout request. Zero means none.
	LayoutTimeout time.Duration
	Palette       *render.Palette
}

// Server is the HTTP API.
type Server struct {
	store   session.Store
	logger  *log.Logger
	metrics http.Handler
	maxBody int64
	timeout time.Duration
	palette *render.Palette
}

// New returns a server over opts.Store. A nil store gets a MemoryStore with
// default session options.
func New(opts Options) *Server {
	if opts.Store == nil {
		opts.Store = session.NewMemoryStore(session.Options{}, 0)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBody
	}
	return &Server{
		store:   opts.Store,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		maxBody: opts.MaxBodyBytes,
		timeout: opts.LayoutTimeout,
		palette: opts.Palette,
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/sample", s.sample)
		r.Get("/version", s.version)

		r.Post("/sessions", s.createSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Use(s.loadSession)
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Post("/generate", s.generate)
			r.Post("/search", s.search)
			r.Post("/clear", s.clear)
			r.Post("/layout", s.relayout)
			r.Get("/graph", s.graph)
			r.Get("/graph.svg", s.graphSVG)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, notFound("no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: errorDetail{
			Code:    "METHOD_NOT_ALLOWED",
			Message: r.Method + " is not allowed on " + r.URL.Path,
		}})
	})
	return r
}

// Sweep drops idle sessions every interval until ctx is done.
func (s *Server) Sweep(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.store.Cleanup(ctx)
			if err != nil {
				s.logger.Warn("session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				s.logger.Info("expired idle sessions", "removed", n, "live", s.store.Len())
			}
		}
	}
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, sweepEvery time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sweepCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.Sweep(sweepCtx, sweepEvery)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	return srv.Shutdown(shutCtx)
}

// Package server exposes the citegraph service over HTTP.
//
// Routes live under /api/v1 and answer JSON. Coded service errors map onto
// statuses through errors.HTTPStatus and are written as
// {"detail": message, "code": CODE}.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/citegraph/pkg/buildinfo"
	"github.com/matzehuels/citegraph/pkg/service"
)

// Server timeouts.
const (
	ReadHeaderTimeout = 10 * time.Second
	ShutdownTimeout   = 10 * time.Second
	MaxBodyBytes      = 64 << 20
)

// Options configures a [Server].
type Options struct {
	Logger  *log.Logger // default: log.Default()
	Metrics bool        // mount promhttp at /metrics
}

// Server routes HTTP requests to a [service.Service].
type Server struct {
	svc    *service.Service
	logger *log.Logger
	router chi.Router
}

// New builds the router.
func New(svc *service.Service, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{svc: svc, logger: logger, router: chi.NewRouter()}

	r := s.router
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors)
	r.Use(middleware.RequestSize(MaxBodyBytes))

	r.Get("/", s.root)
	r.Get("/health", s.health)
	if opts.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}
	r.Route("/api/v1", s.routes)
	return s
}

func (s *Server) routes(r chi.Router) {
	r.Post("/buscar", s.startSearch)
	r.Post("/buscar/sync", s.searchSync)
	r.Get("/buscar/progreso/{id}", s.progress)
	r.Post("/buscar/cancelar/{id}", s.cancel)
	r.Get("/buscar/resultado/{id}", s.result)
	r.Get("/motores", s.providers)

	r.Get("/paper", s.paper)
	r.Get("/autor", s.authorPapers)

	r.Get("/grafo", s.graph)
	r.Get("/grafo/json", s.graphJSON)
	r.Get("/grafo/exportar", s.export)
	r.Delete("/grafo", s.clear)
	r.Post("/grafo/importar", s.importGraph)

	r.Get("/metricas", s.metrics)
	r.Post("/metricas/calcular", s.computeMetrics)
	r.Post("/clasificar", s.classify)
	r.Get("/estadisticas", s.statistics)

	r.Get("/vertice/*", s.vertex) // titles may contain slashes
	r.Get("/vertices", s.vertices)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server listening", "addr", ln.Addr().String(), "version", buildinfo.Version)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

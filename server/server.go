// Package server exposes the graph builder over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/revelaction/mindmap/builder"
	"github.com/revelaction/mindmap/storage"
)

// Options configures a Server.
type Options struct {
	// Graphs stores imported and named graphs. Nil disables the graph routes.
	Graphs storage.GraphRepository

	CORSOrigins []string
	Logger      *zap.Logger
	Metrics     *Metrics
}

type Server struct {
	builder  *builder.Builder
	graphs   storage.GraphRepository
	logger   *zap.Logger
	metrics  *Metrics
	validate *validator.Validate
	origins  []string
}

func New(b *builder.Builder, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics("mindmap")
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return &Server{
		builder:  b,
		graphs:   opts.Graphs,
		logger:   logger,
		metrics:  metrics,
		validate: validator.New(),
		origins:  origins,
	}
}

// Handler configures all routes and middleware
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(Logger(s.logger))
	router.Use(s.metrics.Middleware)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", s.health)
	router.Handle("/metrics", s.metrics.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Post("/build", s.build)
		r.Post("/stats", s.stats)
		r.Get("/modes", s.modes)

		r.Route("/graphs", func(r chi.Router) {
			r.Get("/", s.listGraphs)
			r.Post("/", s.importGraph)
			r.Get("/{name}", s.exportGraph)
			r.Post("/{name}", s.importGraph)
		})
	})

	return router
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

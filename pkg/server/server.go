package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ostinato-fm/ostinato/pkg/router"
)

// Server serves mounted route tables over HTTP.
type Server struct {
	config     *Config
	router     *router.Router
	bus        *ActivityBus
	logger     *slog.Logger
	httpServer *http.Server
}

// New creates a server for the given router.
func New(config *Config, rt *router.Router) *Server {
	return &Server{
		config: config.withDefaults(),
		router: rt,
		bus:    NewActivityBus(),
		logger: slog.Default().With("component", "server"),
	}
}

// Bus returns the activity bus, for publishing application events into the
// feed.
func (s *Server) Bus() *ActivityBus {
	return s.bus
}

// Handler returns the full HTTP handler: operational endpoints plus the
// route-table page handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/_ostinato/activity", s.activityHandler())

	r.Handle("/*", s.pageHandler())
	return r
}

// Run starts the server and blocks until ctx is canceled or a SIGINT/SIGTERM
// arrives, then shuts down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "address", s.config.Address)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		s.logger.Info("shutting down", "signal", sig.String())
	case <-ctx.Done():
		s.logger.Info("shutting down", "reason", ctx.Err())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/jaminalder/tictactoe/internal/ai"
	"github.com/jaminalder/tictactoe/internal/app"
	"github.com/jaminalder/tictactoe/internal/middleware"
)

// Options configures the router.
type Options struct {
	Logger *slog.Logger
	// Selector answers /api/move. Games use the service's own selector.
	Selector *ai.Selector
	// HeartbeatInterval spaces keep-alive frames on SSE and websocket streams.
	HeartbeatInterval time.Duration
}

// NewServer wires routes and returns an http.Handler.
func NewServer(s *app.Service, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = 15 * time.Second
	}
	h := &handlers{
		svc:       s,
		selector:  opts.Selector,
		tpl:       loadTemplates(),
		logger:    logger.With(slog.String("component", "web")),
		heartbeat: opts.HeartbeatInterval,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Recovery(logger, middleware.DefaultPanicHandler))

	r.Get("/", h.index)
	r.Get("/healthz", h.healthz)
	r.Post("/game", h.create)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Get("/board", h.board)
		r.Post("/join", h.join)
		r.Post("/play", h.play)
		r.Post("/jump", h.jump)
		r.Post("/reset", h.reset)
		r.Post("/settings", h.settings)
		r.Get("/events", h.events)
		r.Get("/ws", h.gameSocket)
	})
	r.Route("/api", func(r chi.Router) {
		r.Post("/evaluate", h.apiEvaluate)
		if h.selector != nil {
			r.Post("/move", h.apiMove)
		}
		r.Get("/games/{id}", h.apiGame)
	})
	return r
}

// ServerConfig holds the listener settings of HTTPServer.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// HTTPServer wraps http.Server with graceful shutdown.
type HTTPServer struct {
	server *http.Server
	logger *slog.Logger
	config ServerConfig
}

// NewHTTPServer creates a server for handler.
func NewHTTPServer(handler http.Handler, config ServerConfig, logger *slog.Logger) *HTTPServer {
	// Request contexts end when Shutdown starts so event streams let go.
	base, cancel := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:              config.Addr,
		Handler:           handler,
		ReadTimeout:       config.ReadTimeout,
		ReadHeaderTimeout: config.ReadTimeout,
		WriteTimeout:      config.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return base },
	}
	srv.RegisterOnShutdown(cancel)
	return &HTTPServer{server: srv, logger: logger, config: config}
}

// Start listens on the configured address and blocks until the server stops.
func (s *HTTPServer) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.server.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown.
func (s *HTTPServer) Serve(ln net.Listener) error {
	s.logger.Info("starting HTTP server", slog.String("addr", ln.Addr().String()))
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for open requests, at most
// ShutdownTimeout.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// Addr returns the configured listen address.
func (s *HTTPServer) Addr() string {
	return s.server.Addr
}
